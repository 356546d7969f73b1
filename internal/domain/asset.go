package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetCategory classifies an asset.
type AssetCategory string

const (
	CategoryEquity         AssetCategory = "EQUITY"
	CategoryRealEstateFund AssetCategory = "REAL_ESTATE_FUND"
	CategoryFixedIncome    AssetCategory = "FIXED_INCOME"
)

var AssetCategories = []AssetCategory{CategoryEquity, CategoryRealEstateFund, CategoryFixedIncome}

func (c AssetCategory) Valid() bool {
	for _, v := range AssetCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Asset is a reference entity; the ledger never mutates it.
type Asset struct {
	AssetID   uuid.UUID     `gorm:"column:asset_id;type:uuid;primaryKey" json:"asset_id"`
	Ticker    string        `gorm:"column:ticker;type:varchar(10);not null;uniqueIndex" json:"ticker"`
	Name      string        `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Category  AssetCategory `gorm:"column:category;type:varchar(20);not null" json:"category"`
	CreatedAt time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at" json:"updated_at"`
}

func (Asset) TableName() string {
	return "assets"
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.AssetID == uuid.Nil {
		a.AssetID = uuid.New()
	}
	return nil
}
