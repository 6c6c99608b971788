package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a league player's ledger identity. CashBalance is mutated only
// by the settlement engine and never goes negative. Version is the optimistic
// lock counter guarding concurrent read-modify-write of the balance.
type Account struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username    string          `gorm:"column:username;size:32;not null;uniqueIndex" json:"username"`
	CashBalance decimal.Decimal `gorm:"column:cash_balance;type:decimal(18,2);not null" json:"cash_balance"`
	Version     int64           `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
