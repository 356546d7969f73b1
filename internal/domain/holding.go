package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Holding is the aggregate position of one asset within one portfolio.
// Only transaction admission writes QuantityTotal and AvgPrice.
type Holding struct {
	HoldingID     uuid.UUID       `gorm:"column:holding_id;type:uuid;primaryKey" json:"holding_id"`
	PortfolioID   uuid.UUID       `gorm:"column:portfolio_id;type:uuid;not null;uniqueIndex:uq_holdings_portfolio_asset" json:"portfolio_id"`
	AssetID       uuid.UUID       `gorm:"column:asset_id;type:uuid;not null;uniqueIndex:uq_holdings_portfolio_asset" json:"asset_id"`
	QuantityTotal decimal.Decimal `gorm:"column:quantity_total;type:decimal(12,2);not null;default:0" json:"quantity_total"`
	AvgPrice      decimal.Decimal `gorm:"column:avg_price;type:decimal(12,2);not null;default:0" json:"avg_price"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`

	Portfolio *Portfolio `gorm:"foreignKey:PortfolioID;references:PortfolioID" json:"portfolio,omitempty"`
	Asset     *Asset     `gorm:"foreignKey:AssetID;references:AssetID" json:"asset,omitempty"`
}

func (Holding) TableName() string {
	return "holdings"
}

// BeforeCreate: never insert zero UUID for primary key; generate random when not set.
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.HoldingID == uuid.Nil {
		h.HoldingID = uuid.New()
	}
	return nil
}

// TenantHost returns the host of the owning portfolio; empty when it was not loaded.
func (h *Holding) TenantHost() string {
	if h.Portfolio == nil {
		return ""
	}
	return h.Portfolio.Host
}
