package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Security is one GSE-listed instrument. Rows are written exclusively by the
// market-data sync; a failed feed parse must leave the prior price intact.
type Security struct {
	Ticker       string          `gorm:"column:ticker;size:16;primaryKey" json:"ticker"`
	Name         string          `gorm:"column:name;size:128;not null" json:"name"`
	CurrentPrice decimal.Decimal `gorm:"column:current_price;type:decimal(18,2);not null" json:"current_price"`
	LastUpdated  time.Time       `gorm:"column:last_updated" json:"last_updated"`
}

func (Security) TableName() string {
	return "securities"
}
