package settlement

import (
	"context"
	"errors"

	"gsefl-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// avgPriceScale is the stored precision of the weighted-average cost basis.
const avgPriceScale = 4

// Service is the settlement engine: the only writer of account balances and
// holdings. Each order settles inside a single database transaction; updates
// are guarded optimistically (account version, holding shares count) so two
// interleaved orders for the same account cannot both apply — the loser gets
// ErrConflict and no state change, and the caller may resubmit.
type Service struct {
	DB *gorm.DB
}

// Receipt describes one settled order.
type Receipt struct {
	TxID        uuid.UUID       `json:"tx_id"`
	AccountID   uuid.UUID       `json:"account_id"`
	Ticker      string          `json:"ticker"`
	Type        string          `json:"type"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	CashBalance decimal.Decimal `json:"cash_balance"`
}

// ExecuteBuy settles a buy order at the security's current stored price.
// The quoted price is re-read inside the transaction rather than trusted
// from the caller, closing the race/tamper window between quote and order.
func (s *Service) ExecuteBuy(ctx context.Context, accountID uuid.UUID, ticker string, quantity int64) (*Receipt, error) {
	if quantity <= 0 {
		return nil, ErrInvalidOrder
	}

	var receipt *Receipt
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		price, err := quotedPrice(tx, ticker)
		if err != nil {
			return err
		}

		var account domain.Account
		if err := tx.Where("id = ?", accountID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		qty := decimal.NewFromInt(quantity)
		total := price.Mul(qty)
		if account.CashBalance.LessThan(total) {
			return ErrInsufficientFunds
		}

		newBalance := account.CashBalance.Sub(total)
		if err := applyBalance(tx, &account, newBalance); err != nil {
			return err
		}

		var holding domain.Holding
		err = tx.Where("account_id = ? AND ticker = ?", accountID, ticker).First(&holding).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			holding = domain.Holding{
				AccountID:   accountID,
				Ticker:      ticker,
				SharesCount: quantity,
				AvgPrice:    price.Round(avgPriceScale),
			}
			if err := tx.Create(&holding).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrConflict
				}
				return err
			}
		case err != nil:
			return err
		default:
			oldShares := decimal.NewFromInt(holding.SharesCount)
			newShares := holding.SharesCount + quantity
			newAvg := oldShares.Mul(holding.AvgPrice).Add(total).
				DivRound(decimal.NewFromInt(newShares), avgPriceScale)
			res := tx.Model(&domain.Holding{}).
				Where("account_id = ? AND ticker = ? AND shares_count = ?", accountID, ticker, holding.SharesCount).
				Updates(map[string]interface{}{
					"shares_count": newShares,
					"avg_price":    newAvg,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
		}

		record := domain.Transaction{
			AccountID: accountID,
			Ticker:    ticker,
			Type:      domain.TxTypeBuy,
			Quantity:  quantity,
			Price:     price,
			Total:     total,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		receipt = &Receipt{
			TxID:        record.TxID,
			AccountID:   accountID,
			Ticker:      ticker,
			Type:        domain.TxTypeBuy,
			Quantity:    quantity,
			Price:       price,
			Total:       total,
			CashBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ExecuteSell settles a sell order at the security's current stored price.
// Selling decrements the share count only; the weighted-average cost basis
// is untouched, and a position that reaches zero shares is deleted.
func (s *Service) ExecuteSell(ctx context.Context, accountID uuid.UUID, ticker string, quantity int64) (*Receipt, error) {
	if quantity <= 0 {
		return nil, ErrInvalidOrder
	}

	var receipt *Receipt
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		price, err := quotedPrice(tx, ticker)
		if err != nil {
			return err
		}

		var account domain.Account
		if err := tx.Where("id = ?", accountID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		var holding domain.Holding
		if err := tx.Where("account_id = ? AND ticker = ?", accountID, ticker).First(&holding).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoPosition
			}
			return err
		}
		if holding.SharesCount < quantity {
			return ErrInsufficientShares
		}

		total := price.Mul(decimal.NewFromInt(quantity))
		newBalance := account.CashBalance.Add(total)
		if err := applyBalance(tx, &account, newBalance); err != nil {
			return err
		}

		remaining := holding.SharesCount - quantity
		if remaining == 0 {
			res := tx.Where("account_id = ? AND ticker = ? AND shares_count = ?", accountID, ticker, holding.SharesCount).
				Delete(&domain.Holding{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
		} else {
			res := tx.Model(&domain.Holding{}).
				Where("account_id = ? AND ticker = ? AND shares_count = ?", accountID, ticker, holding.SharesCount).
				Update("shares_count", remaining)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
		}

		record := domain.Transaction{
			AccountID: accountID,
			Ticker:    ticker,
			Type:      domain.TxTypeSell,
			Quantity:  quantity,
			Price:     price,
			Total:     total,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		receipt = &Receipt{
			TxID:        record.TxID,
			AccountID:   accountID,
			Ticker:      ticker,
			Type:        domain.TxTypeSell,
			Quantity:    quantity,
			Price:       price,
			Total:       total,
			CashBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// quotedPrice reads the authoritative price for ticker inside the transaction.
func quotedPrice(tx *gorm.DB, ticker string) (decimal.Decimal, error) {
	var security domain.Security
	if err := tx.Where("ticker = ?", ticker).First(&security).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrUnknownTicker
		}
		return decimal.Zero, err
	}
	if !security.CurrentPrice.IsPositive() {
		return decimal.Zero, ErrInvalidOrder
	}
	return security.CurrentPrice, nil
}

// applyBalance writes the new balance guarded by the account version counter.
// Zero rows affected means another settlement got there first.
func applyBalance(tx *gorm.DB, account *domain.Account, newBalance decimal.Decimal) error {
	res := tx.Model(&domain.Account{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]interface{}{
			"cash_balance": newBalance,
			"version":      account.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}
