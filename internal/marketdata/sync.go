package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gsefl-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service pulls the security list and latest trades from the feed and
// upserts prices into the securities table. The sync is idempotent (upsert
// keyed by ticker) and tolerates per-ticker failures: a skipped ticker is
// logged and recorded, and its prior valid price is never overwritten.
type Service struct {
	DB   *gorm.DB
	Feed Feed
}

// Report summarizes one sync batch.
type Report struct {
	Synced   int               `json:"synced"`
	Failed   int               `json:"failed"`
	Failures map[string]string `json:"failures,omitempty"`
}

// SyncMarketData runs one full sync batch and records a SyncRun audit row.
// Only a failure to list securities aborts the batch.
func (s *Service) SyncMarketData(ctx context.Context) (*Report, error) {
	started := time.Now()

	securities, err := s.Feed.ListSecurities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list securities: %w", err)
	}

	failures := map[string]string{}
	rows := make([]domain.Security, 0, len(securities))
	for _, sec := range securities {
		trade, err := s.Feed.GetRecentTrade(ctx, sec.Symbol)
		if err != nil {
			failures[sec.Symbol] = "feed error: " + err.Error()
			continue
		}
		if trade == nil || trade.LastTradedPrice == "" {
			failures[sec.Symbol] = "no trade data"
			continue
		}
		price, err := normalizePrice(trade.LastTradedPrice)
		if err != nil {
			failures[sec.Symbol] = fmt.Sprintf("unparseable price %q", trade.LastTradedPrice)
			continue
		}
		name := sec.Name
		if name == "" {
			name = "Unknown"
		}
		rows = append(rows, domain.Security{
			Ticker:       sec.Symbol,
			Name:         name,
			CurrentPrice: price,
			LastUpdated:  time.Now(),
		})
	}

	for ticker, reason := range failures {
		log.Warn().Str("ticker", ticker).Str("reason", reason).Msg("Skipping ticker")
	}

	if len(rows) > 0 {
		err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "current_price", "last_updated"}),
		}).Create(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("upsert securities: %w", err)
		}
	}

	failureJSON, _ := json.Marshal(failures)
	run := domain.SyncRun{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Synced:     len(rows),
		Failed:     len(failures),
		Failures:   datatypes.JSON(failureJSON),
	}
	if err := s.DB.WithContext(ctx).Create(&run).Error; err != nil {
		return nil, fmt.Errorf("record sync run: %w", err)
	}

	report := &Report{Synced: len(rows), Failed: len(failures)}
	if len(failures) > 0 {
		report.Failures = failures
	}
	return report, nil
}

// normalizePrice cleans a feed price string (strips thousands separators)
// and parses it as a positive decimal.
func normalizePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive price %s", price)
	}
	return price, nil
}
