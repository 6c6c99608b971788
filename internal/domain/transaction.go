package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TxTypeBuy  = "buy"
	TxTypeSell = "sell"
)

// Transaction is one settled trade. Rows are append-only: the settlement
// engine writes exactly one per successful order and nothing ever updates
// or deletes them. Price and Total are execution-time snapshots, independent
// of later security price changes.
type Transaction struct {
	TxID      uuid.UUID       `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	AccountID uuid.UUID       `gorm:"column:account_id;type:uuid;not null;index" json:"account_id"`
	Ticker    string          `gorm:"column:ticker;size:16;not null" json:"ticker"`
	Type      string          `gorm:"column:type;size:4;not null" json:"type"`
	Quantity  int64           `gorm:"column:quantity;not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(18,2);not null" json:"price"`
	Total     decimal.Decimal `gorm:"column:total;type:decimal(18,2);not null" json:"total"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}
