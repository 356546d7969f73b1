package transactions

import (
	"context"
	"errors"
	"time"

	"portfolio-backend/internal/application/ledger"
	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service admits buy/sell transactions and applies them to holdings.
type Service struct {
	DB     *gorm.DB
	Ledger ledger.Applier
	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// AdmitRequest is one buy/sell request against a portfolio.
type AdmitRequest struct {
	AssetID  uuid.UUID
	Kind     domain.TransactionKind
	Quantity decimal.Decimal
	Price    decimal.Decimal
	// Date is the effective date; zero means today.
	Date time.Time
	// Malformed is a decoding failure found at the request boundary. It is
	// reported as InvalidInput only once the actor is authorized.
	Malformed error
}

// Admission stages, logged as the request moves through Admit.
const (
	stageReceived        = "RECEIVED"
	stageAuthorized      = "AUTHORIZED"
	stageValidated       = "VALIDATED"
	stageHoldingResolved = "HOLDING_RESOLVED"
	stageCommitted       = "COMMITTED"
	stageRejected        = "REJECTED"
)

func (s *Service) ledger() ledger.Applier {
	if s.Ledger == nil {
		return ledger.Ledger{}
	}
	return s.Ledger
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Admit authorizes, validates and commits one transaction. The transaction
// row and the holding update are written in one database transaction; a
// rejected admission writes nothing.
func (s *Service) Admit(ctx context.Context, actor scope.Actor, portfolioID uuid.UUID, req AdmitRequest) (*domain.Transaction, error) {
	logger := log.With().
		Str("portfolio_id", portfolioID.String()).
		Str("actor_role", string(actor.Role)).
		Str("actor_host", actor.Host).
		Str("kind", string(req.Kind)).
		Logger()
	logger.Debug().Str("stage", stageReceived).Msg("Admission")

	var created *domain.Transaction
	err := database.Conn(ctx, s.DB).Transaction(func(tx *gorm.DB) error {
		var portfolio domain.Portfolio
		if err := scope.Portfolios(tx, actor).Where("portfolios.portfolio_id = ?", portfolioID).First(&portfolio).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound("Portfolio not found")
			}
			return err
		}
		if err := scope.Authorize(actor, &portfolio, "Portfolio"); err != nil {
			return err
		}
		logger.Debug().Str("stage", stageAuthorized).Msg("Admission")

		if err := validate(&req); err != nil {
			return err
		}
		var asset domain.Asset
		if err := tx.Where("asset_id = ?", req.AssetID).First(&asset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.InvalidInput("Asset not found")
			}
			return err
		}
		logger.Debug().Str("stage", stageValidated).Msg("Admission")

		holding, err := lockHolding(tx, portfolio.PortfolioID, asset.AssetID)
		if err != nil {
			return err
		}
		logger.Debug().Str("stage", stageHoldingResolved).Str("holding_id", holding.HoldingID.String()).Msg("Admission")

		if req.Kind == domain.KindSell && req.Quantity.GreaterThan(holding.QuantityTotal) {
			return domain.InsufficientQuantity("Sell quantity exceeds available holding quantity")
		}

		date := req.Date
		if date.IsZero() {
			date = s.now()
		}
		record := &domain.Transaction{
			HoldingID:   holding.HoldingID,
			Kind:        req.Kind,
			Quantity:    req.Quantity,
			Price:       req.Price,
			Date:        datatypes.Date(date),
			CreatedByID: actor.UserID,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		next, err := s.ledger().Apply(ledger.PositionOf(holding), record.Kind, record.Quantity, record.Price)
		if err != nil {
			return err
		}
		if err := tx.Model(holding).Updates(map[string]interface{}{
			"quantity_total": next.QuantityTotal,
			"avg_price":      next.AvgPrice,
		}).Error; err != nil {
			return err
		}
		created = record
		return nil
	})
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindInvalidState:
			logger.Error().Err(err).Str("stage", stageRejected).Msg("Admission hit an inconsistent ledger state")
		case "":
			logger.Error().Err(err).Str("stage", stageRejected).Msg("Admission failed")
		default:
			logger.Info().Str("stage", stageRejected).Str("reason", string(domain.KindOf(err))).Msg(err.Error())
		}
		return nil, err
	}
	logger.Info().Str("stage", stageCommitted).Str("tx_id", created.TxID.String()).Msg("Admission")
	return created, nil
}

// validate rounds quantity and price to the stored scale, so the oversell
// check and the stored row see the same values, then checks them.
func validate(req *AdmitRequest) error {
	if req.Malformed != nil {
		return domain.InvalidInput(req.Malformed.Error())
	}
	req.Quantity = req.Quantity.Round(ledger.Scale)
	req.Price = req.Price.Round(ledger.Scale)
	if !req.Kind.Valid() {
		return domain.InvalidInput("Transaction kind must be BUY or SELL")
	}
	if !req.Quantity.IsPositive() {
		return domain.InvalidInput("Quantity must be positive")
	}
	if req.Price.IsNegative() {
		return domain.InvalidInput("Price must not be negative")
	}
	if !domain.FitsAmountColumn(req.Quantity) || !domain.FitsAmountColumn(req.Price) {
		return domain.InvalidInput("Quantity and price must not exceed 9999999999.99")
	}
	if req.AssetID == uuid.Nil {
		return domain.InvalidInput("asset_id is required")
	}
	return nil
}

// lockHolding returns the (portfolio, asset) holding, creating it on first
// use, and locks its row until tx ends. Concurrent first admissions race on
// the unique index; the loser's insert is a no-op and it reads the winner's row.
func lockHolding(tx *gorm.DB, portfolioID, assetID uuid.UUID) (*domain.Holding, error) {
	fresh := &domain.Holding{
		PortfolioID:   portfolioID,
		AssetID:       assetID,
		QuantityTotal: decimal.Zero,
		AvgPrice:      decimal.Zero,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "portfolio_id"}, {Name: "asset_id"}},
		DoNothing: true,
	}).Create(fresh).Error; err != nil {
		return nil, err
	}

	var holding domain.Holding
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("portfolio_id = ? AND asset_id = ?", portfolioID, assetID).
		First(&holding).Error; err != nil {
		return nil, err
	}
	return &holding, nil
}

// ListForPortfolio returns the transactions of a portfolio visible to actor,
// oldest first.
func (s *Service) ListForPortfolio(ctx context.Context, actor scope.Actor, portfolioID uuid.UUID) ([]domain.Transaction, error) {
	db := database.Conn(ctx, s.DB)
	var portfolio domain.Portfolio
	if err := scope.Portfolios(db, actor).Where("portfolios.portfolio_id = ?", portfolioID).First(&portfolio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("Portfolio not found")
		}
		return nil, err
	}

	var txs []domain.Transaction
	if err := scope.Transactions(db, actor).
		Where("holdings.portfolio_id = ?", portfolio.PortfolioID).
		Order("transactions.created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
