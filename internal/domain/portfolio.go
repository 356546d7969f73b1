package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portfolio is a tenant-scoped container of holdings. Host is fixed at creation.
type Portfolio struct {
	PortfolioID uuid.UUID      `gorm:"column:portfolio_id;type:uuid;primaryKey" json:"portfolio_id"`
	Name        string         `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Host        string         `gorm:"column:host;type:varchar(50);not null;index" json:"host"`
	CreatedByID uuid.UUID      `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.PortfolioID == uuid.Nil {
		p.PortfolioID = uuid.New()
	}
	return nil
}

// TenantHost returns the owning host.
func (p *Portfolio) TenantHost() string {
	return p.Host
}
