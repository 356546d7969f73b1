package domain

import (
	"time"

	"portfolio-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an investor profile. Sessions issued by the identity service reference it.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Username     string         `gorm:"column:username;type:varchar(150);not null;uniqueIndex" json:"username"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         constants.Role `gorm:"column:role;type:varchar(30);not null;default:investor_junior" json:"role"`
	Host         string         `gorm:"column:host;type:varchar(50)" json:"host"`
	CreatedAt    time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{&User{}, &Asset{}, &Portfolio{}, &Holding{}, &Transaction{}}
}
