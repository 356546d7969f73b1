package holdings

import (
	"context"
	"errors"

	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes holdings read-only; only transaction admission writes them.
type Service struct {
	DB *gorm.DB
}

// ListFilter narrows List. Zero values mean no filter.
type ListFilter struct {
	PortfolioID uuid.UUID
	AssetID     uuid.UUID
}

// List returns the holdings visible to actor with their asset and portfolio.
func (s *Service) List(ctx context.Context, actor scope.Actor, f ListFilter) ([]domain.Holding, error) {
	q := scope.Holdings(database.Conn(ctx, s.DB), actor)
	if f.PortfolioID != uuid.Nil {
		q = q.Where("holdings.portfolio_id = ?", f.PortfolioID)
	}
	if f.AssetID != uuid.Nil {
		q = q.Where("holdings.asset_id = ?", f.AssetID)
	}

	var holdings []domain.Holding
	if err := q.Preload("Asset").Preload("Portfolio").
		Order("holdings.created_at ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// Get returns one holding; NotFound when it is missing or out of scope.
func (s *Service) Get(ctx context.Context, actor scope.Actor, holdingID uuid.UUID) (*domain.Holding, error) {
	if holdingID == uuid.Nil {
		return nil, domain.InvalidInput("holding_id is required")
	}

	var holding domain.Holding
	err := scope.Holdings(database.Conn(ctx, s.DB), actor).
		Preload("Asset").Preload("Portfolio").
		Where("holdings.holding_id = ?", holdingID).
		First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Holding not found")
		}
		return nil, err
	}
	return &holding, nil
}
