package portfolios

import (
	"context"
	"errors"
	"strings"

	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxNameLen = 100

// Service manages tenant-scoped portfolios.
type Service struct {
	DB *gorm.DB
	// Currency is the ISO code used for summary display strings.
	Currency string
}

type CreateRequest struct {
	Name string
	Host string
}

// UpdateRequest carries a partial update; nil fields are left untouched.
type UpdateRequest struct {
	Name *string
	Host *string
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.InvalidInput("name is required")
	}
	if len(name) > maxNameLen {
		return "", domain.InvalidInput("name must be at most 100 characters")
	}
	return name, nil
}

// List returns the live portfolios visible to actor, oldest first.
func (s *Service) List(ctx context.Context, actor scope.Actor) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	if err := scope.Portfolios(database.Conn(ctx, s.DB), actor).
		Order("portfolios.created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one portfolio; NotFound when missing, deleted or out of scope.
func (s *Service) Get(ctx context.Context, actor scope.Actor, id uuid.UUID) (*domain.Portfolio, error) {
	return s.find(database.Conn(ctx, s.DB), actor, id)
}

func (s *Service) find(db *gorm.DB, actor scope.Actor, id uuid.UUID) (*domain.Portfolio, error) {
	var p domain.Portfolio
	if err := scope.Portfolios(db, actor).Where("portfolios.portfolio_id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Portfolio not found")
		}
		return nil, err
	}
	return &p, nil
}

// Create stores a new portfolio. Seniors always create inside their own host.
func (s *Service) Create(ctx context.Context, actor scope.Actor, req CreateRequest) (*domain.Portfolio, error) {
	host, err := scope.CreateHost(actor, req.Host)
	if err != nil {
		return nil, err
	}
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}

	p := &domain.Portfolio{Name: name, Host: host, CreatedByID: actor.UserID}
	if err := database.Conn(ctx, s.DB).Create(p).Error; err != nil {
		return nil, err
	}
	log.Info().
		Str("portfolio_id", p.PortfolioID.String()).
		Str("host", host).
		Str("actor", actor.Username).
		Msg("Portfolio created")
	return p, nil
}

// Update renames a portfolio. The host cannot change once set.
func (s *Service) Update(ctx context.Context, actor scope.Actor, id uuid.UUID, req UpdateRequest) (*domain.Portfolio, error) {
	var updated *domain.Portfolio
	err := database.Conn(ctx, s.DB).Transaction(func(tx *gorm.DB) error {
		p, err := s.find(tx, actor, id)
		if err != nil {
			return err
		}
		if err := scope.Authorize(actor, p, "Portfolio"); err != nil {
			return err
		}
		if req.Host != nil && strings.TrimSpace(*req.Host) != p.Host {
			return domain.InvalidInput("host cannot be changed")
		}
		if req.Name != nil {
			name, err := normalizeName(*req.Name)
			if err != nil {
				return err
			}
			if err := tx.Model(p).Update("name", name).Error; err != nil {
				return err
			}
			p.Name = name
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes a portfolio. Its holdings and transactions stay in
// storage but drop out of every scoped query.
func (s *Service) Delete(ctx context.Context, actor scope.Actor, id uuid.UUID) error {
	return database.Conn(ctx, s.DB).Transaction(func(tx *gorm.DB) error {
		p, err := s.find(tx, actor, id)
		if err != nil {
			return err
		}
		if err := scope.Authorize(actor, p, "Portfolio"); err != nil {
			return err
		}
		if err := tx.Delete(p).Error; err != nil {
			return err
		}
		log.Info().Str("portfolio_id", id.String()).Str("actor", actor.Username).Msg("Portfolio deleted")
		return nil
	})
}
