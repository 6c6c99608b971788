package stocks

import (
	"context"

	"gsefl-backend/internal/domain"

	"gorm.io/gorm"
)

// Service reads the price store. Writes happen only in the market-data sync.
type Service struct {
	DB *gorm.DB
}

func (s *Service) List(ctx context.Context) ([]domain.Security, error) {
	var securities []domain.Security
	if err := s.DB.WithContext(ctx).Order("ticker ASC").Find(&securities).Error; err != nil {
		return nil, err
	}
	return securities, nil
}
