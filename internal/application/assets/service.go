package assets

import (
	"context"
	"errors"
	"strings"

	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/infrastructure/database"
	"portfolio-backend/internal/pkg/constants"
	"portfolio-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service manages the asset catalog. Assets carry no host; every
// authenticated actor reads them and only manage_assets holders write.
type Service struct {
	DB *gorm.DB
}

type CreateRequest struct {
	Ticker   string
	Name     string
	Category domain.AssetCategory
}

type UpdateRequest struct {
	Ticker   *string
	Name     *string
	Category *domain.AssetCategory
}

func canManage(actor scope.Actor) error {
	if !constants.AllowedRole(constants.ManageAssets, actor.Role) {
		return domain.Forbidden("User is Forbidden from performing this action")
	}
	return nil
}

func checkTicker(t string) (string, error) {
	t = validation.NormalizeTicker(t)
	if !validation.IsValidTicker(t) {
		return "", domain.InvalidInput("ticker must be 1-10 upper-case letters or digits")
	}
	return t, nil
}

func checkName(n string) (string, error) {
	n = strings.TrimSpace(n)
	if n == "" {
		return "", domain.InvalidInput("name is required")
	}
	if len(n) > 100 {
		return "", domain.InvalidInput("name must be at most 100 characters")
	}
	return n, nil
}

func checkCategory(c domain.AssetCategory) error {
	if !c.Valid() {
		return domain.InvalidInput("category must be one of EQUITY, REAL_ESTATE_FUND, FIXED_INCOME")
	}
	return nil
}

// tickerTaken reports whether another asset already uses ticker.
func tickerTaken(db *gorm.DB, ticker string, except uuid.UUID) (bool, error) {
	var n int64
	q := db.Model(&domain.Asset{}).Where("ticker = ?", ticker)
	if except != uuid.Nil {
		q = q.Where("asset_id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the catalog ordered by ticker, optionally filtered by category.
func (s *Service) List(ctx context.Context, category domain.AssetCategory) ([]domain.Asset, error) {
	q := database.Conn(ctx, s.DB).Model(&domain.Asset{})
	if category != "" {
		if err := checkCategory(category); err != nil {
			return nil, err
		}
		q = q.Where("category = ?", category)
	}
	var out []domain.Asset
	if err := q.Order("ticker ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	return find(database.Conn(ctx, s.DB), id)
}

func find(db *gorm.DB, id uuid.UUID) (*domain.Asset, error) {
	var a domain.Asset
	if err := db.Where("asset_id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Asset not found")
		}
		return nil, err
	}
	return &a, nil
}

func (s *Service) Create(ctx context.Context, actor scope.Actor, req CreateRequest) (*domain.Asset, error) {
	if err := canManage(actor); err != nil {
		return nil, err
	}
	ticker, err := checkTicker(req.Ticker)
	if err != nil {
		return nil, err
	}
	name, err := checkName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := checkCategory(req.Category); err != nil {
		return nil, err
	}

	asset := &domain.Asset{Ticker: ticker, Name: name, Category: req.Category}
	err = database.Conn(ctx, s.DB).Transaction(func(tx *gorm.DB) error {
		taken, err := tickerTaken(tx, ticker, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return domain.InvalidInput("Ticker already exists")
		}
		return tx.Create(asset).Error
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("asset_id", asset.AssetID.String()).Str("ticker", ticker).Str("actor", actor.Username).Msg("Asset created")
	return asset, nil
}

func (s *Service) Update(ctx context.Context, actor scope.Actor, id uuid.UUID, req UpdateRequest) (*domain.Asset, error) {
	if err := canManage(actor); err != nil {
		return nil, err
	}
	var asset *domain.Asset
	err := database.Conn(ctx, s.DB).Transaction(func(tx *gorm.DB) error {
		a, err := find(tx, id)
		if err != nil {
			return err
		}
		changes := map[string]interface{}{}
		if req.Ticker != nil {
			ticker, err := checkTicker(*req.Ticker)
			if err != nil {
				return err
			}
			taken, err := tickerTaken(tx, ticker, a.AssetID)
			if err != nil {
				return err
			}
			if taken {
				return domain.InvalidInput("Ticker already exists")
			}
			changes["ticker"] = ticker
			a.Ticker = ticker
		}
		if req.Name != nil {
			name, err := checkName(*req.Name)
			if err != nil {
				return err
			}
			changes["name"] = name
			a.Name = name
		}
		if req.Category != nil {
			if err := checkCategory(*req.Category); err != nil {
				return err
			}
			changes["category"] = *req.Category
			a.Category = *req.Category
		}
		if len(changes) > 0 {
			if err := tx.Model(&domain.Asset{}).Where("asset_id = ?", a.AssetID).Updates(changes).Error; err != nil {
				return err
			}
		}
		asset = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete removes an asset that no holding references.
func (s *Service) Delete(ctx context.Context, actor scope.Actor, id uuid.UUID) error {
	if err := canManage(actor); err != nil {
		return err
	}
	return database.Conn(ctx, s.DB).Transaction(func(tx *gorm.DB) error {
		a, err := find(tx, id)
		if err != nil {
			return err
		}
		var refs int64
		if err := tx.Model(&domain.Holding{}).Where("asset_id = ?", a.AssetID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.InvalidInput("Asset is referenced by holdings and cannot be deleted")
		}
		if err := tx.Delete(a).Error; err != nil {
			return err
		}
		log.Info().Str("asset_id", id.String()).Str("actor", actor.Username).Msg("Asset deleted")
		return nil
	})
}
