package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Holding is an account's position in one ticker. AvgPrice is the
// weighted-average cost basis across accumulated buy lots; sells decrement
// SharesCount but never touch AvgPrice. The row is deleted when the position
// is fully closed, so a persisted holding always has SharesCount > 0.
type Holding struct {
	HoldingID   uuid.UUID       `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	AccountID   uuid.UUID       `gorm:"column:account_id;type:uuid;not null;index:idx_holdings_account_ticker,unique" json:"account_id"`
	Ticker      string          `gorm:"column:ticker;size:16;not null;index:idx_holdings_account_ticker,unique" json:"ticker"`
	SharesCount int64           `gorm:"column:shares_count;not null" json:"shares_count"`
	AvgPrice    decimal.Decimal `gorm:"column:avg_price;type:decimal(18,4);not null" json:"avg_price"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}

func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}
