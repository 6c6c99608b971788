package accounts

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"gsefl-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// Service handles account signup and lookup. Every new account is seeded
// with the league's fixed starting balance; the settlement engine is the
// only other writer of account state.
type Service struct {
	DB              *gorm.DB
	StartingBalance decimal.Decimal
}

func (s *Service) Create(ctx context.Context, username string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if !usernameRE.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	account := &domain.Account{
		Username:    username,
		CashBalance: s.StartingBalance,
	}
	if err := s.DB.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
