package settlement

import (
	"context"
	"testing"

	"gsefl-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSettlementTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Account{}, &domain.Security{}, &domain.Holding{}, &domain.Transaction{},
	))
	return &Service{DB: db}, db
}

func seedAccount(t *testing.T, db *gorm.DB, balance string) *domain.Account {
	account := &domain.Account{
		Username:    "trader_" + uuid.New().String()[:8],
		CashBalance: decimal.RequireFromString(balance),
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedSecurity(t *testing.T, db *gorm.DB, ticker, price string) {
	require.NoError(t, db.Create(&domain.Security{
		Ticker:       ticker,
		Name:         ticker + " Inc",
		CurrentPrice: decimal.RequireFromString(price),
	}).Error)
}

func setPrice(t *testing.T, db *gorm.DB, ticker, price string) {
	require.NoError(t, db.Model(&domain.Security{}).
		Where("ticker = ?", ticker).
		Update("current_price", decimal.RequireFromString(price)).Error)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestExecuteBuy_DebitsCashAndCreatesHolding(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "BTI", "50.00")

	receipt, err := svc.ExecuteBuy(context.Background(), account.ID, "BTI", 100)
	require.NoError(t, err)
	assert.Equal(t, domain.TxTypeBuy, receipt.Type)
	assert.Equal(t, int64(100), receipt.Quantity)
	assertDecimal(t, "50.00", receipt.Price)
	assertDecimal(t, "5000.00", receipt.Total)
	assertDecimal(t, "995000.00", receipt.CashBalance)

	var saved domain.Account
	require.NoError(t, db.First(&saved, "id = ?", account.ID).Error)
	assertDecimal(t, "995000.00", saved.CashBalance)

	var holding domain.Holding
	require.NoError(t, db.First(&holding, "account_id = ? AND ticker = ?", account.ID, "BTI").Error)
	assert.Equal(t, int64(100), holding.SharesCount)
	assertDecimal(t, "50.00", holding.AvgPrice)

	var count int64
	db.Model(&domain.Transaction{}).Where("account_id = ?", account.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestExecuteBuy_WeightedAverage(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "BTI", "50.00")

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "BTI", 100)
	require.NoError(t, err)

	setPrice(t, db, "BTI", "60.00")
	_, err = svc.ExecuteBuy(context.Background(), account.ID, "BTI", 50)
	require.NoError(t, err)

	var holding domain.Holding
	require.NoError(t, db.First(&holding, "account_id = ? AND ticker = ?", account.ID, "BTI").Error)
	assert.Equal(t, int64(150), holding.SharesCount)
	// (100*50 + 50*60) / 150
	assertDecimal(t, "53.3333", holding.AvgPrice)
}

func TestExecuteBuy_InsufficientFunds_NoStateChange(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "100.00")
	seedSecurity(t, db, "DIH", "3500.00")

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "DIH", 1)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	var saved domain.Account
	require.NoError(t, db.First(&saved, "id = ?", account.ID).Error)
	assertDecimal(t, "100.00", saved.CashBalance)

	var holdings, txs int64
	db.Model(&domain.Holding{}).Where("account_id = ?", account.ID).Count(&holdings)
	db.Model(&domain.Transaction{}).Where("account_id = ?", account.ID).Count(&txs)
	assert.Zero(t, holdings)
	assert.Zero(t, txs)

	// Retrying with corrected funds succeeds
	require.NoError(t, db.Model(&domain.Account{}).Where("id = ?", account.ID).
		Update("cash_balance", decimal.RequireFromString("4000.00")).Error)
	_, err = svc.ExecuteBuy(context.Background(), account.ID, "DIH", 1)
	require.NoError(t, err)
}

func TestExecuteBuy_UnknownTicker(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "NOPE", 1)
	assert.ErrorIs(t, err, ErrUnknownTicker)
}

func TestExecuteBuy_NonPositiveQuantity(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "BTI", "50.00")

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "BTI", 0)
	assert.ErrorIs(t, err, ErrInvalidOrder)
	_, err = svc.ExecuteBuy(context.Background(), account.ID, "BTI", -5)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestExecuteBuy_NonPositivePriceRejected(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	require.NoError(t, db.Create(&domain.Security{
		Ticker: "ZRO", Name: "Zero Corp", CurrentPrice: decimal.Zero,
	}).Error)

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "ZRO", 1)
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestExecuteBuy_AccountNotFound(t *testing.T) {
	svc, db := setupSettlementTest(t)
	seedSecurity(t, db, "BTI", "50.00")

	_, err := svc.ExecuteBuy(context.Background(), uuid.New(), "BTI", 1)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestExecuteSell_NoPosition_NoStateChange(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "DTC", "120.00")

	_, err := svc.ExecuteSell(context.Background(), account.ID, "DTC", 10)
	assert.ErrorIs(t, err, ErrNoPosition)

	var saved domain.Account
	require.NoError(t, db.First(&saved, "id = ?", account.ID).Error)
	assertDecimal(t, "1000000.00", saved.CashBalance)
}

func TestExecuteSell_Oversell_NoStateChange(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "BTI", "50.00")

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "BTI", 10)
	require.NoError(t, err)

	_, err = svc.ExecuteSell(context.Background(), account.ID, "BTI", 11)
	assert.ErrorIs(t, err, ErrInsufficientShares)

	var holding domain.Holding
	require.NoError(t, db.First(&holding, "account_id = ? AND ticker = ?", account.ID, "BTI").Error)
	assert.Equal(t, int64(10), holding.SharesCount)

	var saved domain.Account
	require.NoError(t, db.First(&saved, "id = ?", account.ID).Error)
	assertDecimal(t, "999500.00", saved.CashBalance)
}

func TestExecuteSell_AvgPriceUnchanged(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "BTI", "50.00")

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "BTI", 100)
	require.NoError(t, err)

	setPrice(t, db, "BTI", "80.00")
	receipt, err := svc.ExecuteSell(context.Background(), account.ID, "BTI", 40)
	require.NoError(t, err)
	assertDecimal(t, "80.00", receipt.Price)
	assertDecimal(t, "3200.00", receipt.Total)

	var holding domain.Holding
	require.NoError(t, db.First(&holding, "account_id = ? AND ticker = ?", account.ID, "BTI").Error)
	assert.Equal(t, int64(60), holding.SharesCount)
	assertDecimal(t, "50.00", holding.AvgPrice)
}

func TestExecuteSell_ClosingPositionDeletesHolding(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "BTI", "50.00")

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "BTI", 25)
	require.NoError(t, err)
	_, err = svc.ExecuteSell(context.Background(), account.ID, "BTI", 25)
	require.NoError(t, err)

	var count int64
	db.Model(&domain.Holding{}).Where("account_id = ? AND ticker = ?", account.ID, "BTI").Count(&count)
	assert.Zero(t, count)

	var saved domain.Account
	require.NoError(t, db.First(&saved, "id = ?", account.ID).Error)
	assertDecimal(t, "1000000.00", saved.CashBalance)
}

// Full lifecycle: buy 100 @50, buy 50 @60, sell 120 @70.
func TestSettlement_BuyBuySellScenario(t *testing.T) {
	svc, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "BTI", "50.00")

	_, err := svc.ExecuteBuy(context.Background(), account.ID, "BTI", 100)
	require.NoError(t, err)

	setPrice(t, db, "BTI", "60.00")
	_, err = svc.ExecuteBuy(context.Background(), account.ID, "BTI", 50)
	require.NoError(t, err)

	var saved domain.Account
	require.NoError(t, db.First(&saved, "id = ?", account.ID).Error)
	assertDecimal(t, "992000.00", saved.CashBalance)

	setPrice(t, db, "BTI", "70.00")
	receipt, err := svc.ExecuteSell(context.Background(), account.ID, "BTI", 120)
	require.NoError(t, err)
	assertDecimal(t, "8400.00", receipt.Total)
	assertDecimal(t, "1000400.00", receipt.CashBalance)

	var holding domain.Holding
	require.NoError(t, db.First(&holding, "account_id = ? AND ticker = ?", account.ID, "BTI").Error)
	assert.Equal(t, int64(30), holding.SharesCount)
	assertDecimal(t, "53.3333", holding.AvgPrice)

	var txs []domain.Transaction
	require.NoError(t, db.Where("account_id = ?", account.ID).Order("created_at ASC").Find(&txs).Error)
	require.Len(t, txs, 3)
	assert.Equal(t, domain.TxTypeBuy, txs[0].Type)
	assert.Equal(t, domain.TxTypeBuy, txs[1].Type)
	assert.Equal(t, domain.TxTypeSell, txs[2].Type)
}

func TestExecuteBuy_StaleAccountVersionConflicts(t *testing.T) {
	_, db := setupSettlementTest(t)
	account := seedAccount(t, db, "1000000.00")
	seedSecurity(t, db, "BTI", "50.00")

	// Simulate a settlement that committed after our snapshot was taken:
	// bump the version out from under a stale copy, then replay the guarded
	// write with the stale version.
	require.NoError(t, db.Model(&domain.Account{}).Where("id = ?", account.ID).
		Update("version", account.Version+1).Error)

	err := applyBalance(db, account, decimal.RequireFromString("995000.00"))
	assert.ErrorIs(t, err, ErrConflict)

	var saved domain.Account
	require.NoError(t, db.First(&saved, "id = ?", account.ID).Error)
	assertDecimal(t, "1000000.00", saved.CashBalance)
}
