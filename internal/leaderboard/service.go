package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gsefl-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultLimit = 10

// Service ranks accounts by net worth (cash plus market value of holdings at
// current prices). Rankings only move when prices sync or trades settle, so
// the computed board is cached in Redis for a short TTL; with no Redis
// configured it computes directly.
type Service struct {
	DB       *gorm.DB
	Rdb      *redis.Client
	CacheTTL time.Duration
}

// Entry is one leaderboard row.
type Entry struct {
	Rank      int             `json:"rank"`
	AccountID uuid.UUID       `json:"account_id"`
	Username  string          `json:"username"`
	NetWorth  decimal.Decimal `json:"net_worth"`
}

// GetLeaderboard returns the top accounts by net worth, descending. Ties
// break deterministically: earliest account creation first, then account ID.
func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	if s.Rdb != nil {
		if b, err := s.Rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Entry
			if json.Unmarshal(b, &cached) == nil {
				return cached, nil
			}
		}
	}

	entries, err := s.compute(ctx, limit)
	if err != nil {
		return nil, err
	}

	if s.Rdb != nil {
		if b, err := json.Marshal(entries); err == nil {
			if err := s.Rdb.Set(ctx, cacheKey, b, s.CacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("leaderboard cache write failed")
			}
		}
	}
	return entries, nil
}

func (s *Service) compute(ctx context.Context, limit int) ([]Entry, error) {
	var accounts []domain.Account
	if err := s.DB.WithContext(ctx).Find(&accounts).Error; err != nil {
		return nil, err
	}

	var holdings []domain.Holding
	if err := s.DB.WithContext(ctx).Find(&holdings).Error; err != nil {
		return nil, err
	}

	var securities []domain.Security
	if err := s.DB.WithContext(ctx).Find(&securities).Error; err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(securities))
	for _, sec := range securities {
		prices[sec.Ticker] = sec.CurrentPrice
	}

	stockValue := make(map[uuid.UUID]decimal.Decimal, len(accounts))
	for _, h := range holdings {
		price, ok := prices[h.Ticker]
		if !ok {
			continue
		}
		value := price.Mul(decimal.NewFromInt(h.SharesCount))
		stockValue[h.AccountID] = stockValue[h.AccountID].Add(value)
	}

	type ranked struct {
		account  domain.Account
		netWorth decimal.Decimal
	}
	board := make([]ranked, len(accounts))
	for i, a := range accounts {
		board[i] = ranked{account: a, netWorth: a.CashBalance.Add(stockValue[a.ID])}
	}
	sort.Slice(board, func(i, j int) bool {
		if !board[i].netWorth.Equal(board[j].netWorth) {
			return board[i].netWorth.GreaterThan(board[j].netWorth)
		}
		if !board[i].account.CreatedAt.Equal(board[j].account.CreatedAt) {
			return board[i].account.CreatedAt.Before(board[j].account.CreatedAt)
		}
		return board[i].account.ID.String() < board[j].account.ID.String()
	})

	if len(board) > limit {
		board = board[:limit]
	}
	entries := make([]Entry, len(board))
	for i, r := range board {
		entries[i] = Entry{
			Rank:      i + 1,
			AccountID: r.account.ID,
			Username:  r.account.Username,
			NetWorth:  r.netWorth,
		}
	}
	return entries, nil
}
