package portfolio

import (
	"context"
	"errors"

	"gsefl-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrAccountNotFound = errors.New("Account not found")

// plScale is the display precision for P/L percentages.
const plScale = 2

// Service computes read projections over committed ledger and price state.
// Pure derivations: nothing here writes, and all money math stays in
// decimals until the JSON boundary.
type Service struct {
	DB *gorm.DB
}

// HoldingView is one portfolio row with valuation and P/L against the
// latest synced price.
type HoldingView struct {
	Ticker       string          `json:"ticker"`
	Name         string          `json:"name"`
	SharesCount  int64           `json:"shares_count"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	CurrentValue decimal.Decimal `json:"current_value"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	PLAmount     decimal.Decimal `json:"pl_amount"`
	PLPercent    decimal.Decimal `json:"pl_percent"`
}

// Portfolio is the full valuation snapshot for one account.
type Portfolio struct {
	AccountID   uuid.UUID       `json:"account_id"`
	Username    string          `json:"username"`
	CashBalance decimal.Decimal `json:"cash_balance"`
	StockValue  decimal.Decimal `json:"stock_value"`
	NetWorth    decimal.Decimal `json:"net_worth"`
	Holdings    []HoldingView   `json:"holdings"`
}

// GetPortfolio joins the account's holdings with current security prices and
// derives per-row valuation plus cash + stock value totals.
func (s *Service) GetPortfolio(ctx context.Context, accountID uuid.UUID) (*Portfolio, error) {
	var account domain.Account
	if err := s.DB.WithContext(ctx).Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	var holdings []domain.Holding
	if err := s.DB.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("ticker ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}

	securities, err := s.securitiesFor(ctx, holdings)
	if err != nil {
		return nil, err
	}

	views := make([]HoldingView, 0, len(holdings))
	stockValue := decimal.Zero
	for _, h := range holdings {
		sec, ok := securities[h.Ticker]
		if !ok {
			// Ticker delisted from the feed; position exists but cannot be valued.
			views = append(views, HoldingView{
				Ticker:      h.Ticker,
				SharesCount: h.SharesCount,
				AvgPrice:    h.AvgPrice,
				CostBasis:   h.AvgPrice.Mul(decimal.NewFromInt(h.SharesCount)),
			})
			continue
		}

		shares := decimal.NewFromInt(h.SharesCount)
		currentValue := sec.CurrentPrice.Mul(shares)
		costBasis := h.AvgPrice.Mul(shares)
		plAmount := currentValue.Sub(costBasis)
		plPercent := decimal.Zero
		if !costBasis.IsZero() {
			plPercent = plAmount.Mul(decimal.NewFromInt(100)).DivRound(costBasis, plScale)
		}
		stockValue = stockValue.Add(currentValue)

		views = append(views, HoldingView{
			Ticker:       h.Ticker,
			Name:         sec.Name,
			SharesCount:  h.SharesCount,
			AvgPrice:     h.AvgPrice,
			CurrentPrice: sec.CurrentPrice,
			CurrentValue: currentValue,
			CostBasis:    costBasis,
			PLAmount:     plAmount,
			PLPercent:    plPercent,
		})
	}

	return &Portfolio{
		AccountID:   account.ID,
		Username:    account.Username,
		CashBalance: account.CashBalance,
		StockValue:  stockValue,
		NetWorth:    account.CashBalance.Add(stockValue),
		Holdings:    views,
	}, nil
}

// NetWorth is cash balance plus market value of all holdings.
func (s *Service) NetWorth(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	p, err := s.GetPortfolio(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return p.NetWorth, nil
}

// GetTransactionHistory returns the account's settled trades, newest first.
func (s *Service) GetTransactionHistory(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", accountID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrAccountNotFound
	}

	var txs []domain.Transaction
	if err := s.DB.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *Service) securitiesFor(ctx context.Context, holdings []domain.Holding) (map[string]domain.Security, error) {
	if len(holdings) == 0 {
		return map[string]domain.Security{}, nil
	}
	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		tickers = append(tickers, h.Ticker)
	}
	var securities []domain.Security
	if err := s.DB.WithContext(ctx).Where("ticker IN ?", tickers).Find(&securities).Error; err != nil {
		return nil, err
	}
	out := make(map[string]domain.Security, len(securities))
	for _, sec := range securities {
		out[sec.Ticker] = sec
	}
	return out, nil
}
