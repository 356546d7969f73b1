// Package scope decides which portfolios, holdings and transactions an actor
// may see and change, based on the actor's role and tenant host.
//
// Reads are filtered at query level: a record outside the actor's host is
// simply absent, so lookups return NotFound rather than Forbidden.
package scope

import (
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the caller of every operation.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     constants.Role
	Host     string
}

// HostScoped is any record that belongs to a tenant host.
type HostScoped interface {
	TenantHost() string
}

// Visibility is the set of hosts an actor can read. It backs both the query
// predicate and the point checks.
type Visibility struct {
	All  bool
	Host string
}

// VisibilityOf returns the read scope of a.
func VisibilityOf(a Actor) Visibility {
	switch a.Role {
	case constants.RoleAdmin:
		return Visibility{All: true}
	case constants.RoleSenior, constants.RoleJunior:
		return Visibility{Host: strings.TrimSpace(a.Host)}
	default:
		return Visibility{}
	}
}

// Allows reports whether a record owned by host is visible.
func (v Visibility) Allows(host string) bool {
	if v.All {
		return true
	}
	return v.Host != "" && v.Host == host
}

// Apply restricts db to rows whose hostColumn is visible.
func (v Visibility) Apply(db *gorm.DB, hostColumn string) *gorm.DB {
	if v.All {
		return db
	}
	if v.Host == "" {
		return db.Where("1 = 0")
	}
	return db.Where(hostColumn+" = ?", v.Host)
}

// CanRead is the point form of Portfolios/Holdings.
func CanRead(a Actor, target HostScoped) bool {
	return VisibilityOf(a).Allows(target.TenantHost())
}

// CanWrite decides create/update/delete eligibility on a host-bound record.
// Juniors are read-only whatever the request method; seniors write only inside
// their own host; admins write anywhere.
func CanWrite(a Actor, target HostScoped) bool {
	switch a.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleSenior:
		return VisibilityOf(a).Allows(target.TenantHost())
	default:
		return false
	}
}

// Authorize combines the read and write decisions for a loaded record,
// giving NotFound precedence so out-of-tenant existence is never confirmed.
func Authorize(a Actor, target HostScoped, what string) error {
	if !CanRead(a, target) {
		return domain.NotFound(what + " not found")
	}
	if !CanWrite(a, target) {
		return domain.Forbidden("User is Forbidden from performing this action")
	}
	return nil
}

// CreateHost resolves the host of a new portfolio. Seniors always get their
// own host whatever was requested; admins must name one.
func CreateHost(a Actor, requested string) (string, error) {
	switch a.Role {
	case constants.RoleAdmin:
		host := strings.TrimSpace(requested)
		if host == "" {
			return "", domain.InvalidInput("host is required")
		}
		if len(host) > 50 {
			return "", domain.InvalidInput("host must be at most 50 characters")
		}
		return host, nil
	case constants.RoleSenior:
		host := strings.TrimSpace(a.Host)
		if host == "" {
			return "", domain.Forbidden("User is not associated with a host")
		}
		return host, nil
	default:
		return "", domain.Forbidden("User is Forbidden from performing this action")
	}
}

// Portfolios returns db restricted to live portfolios visible to a.
func Portfolios(db *gorm.DB, a Actor) *gorm.DB {
	return VisibilityOf(a).Apply(db.Model(&domain.Portfolio{}), "portfolios.host")
}

// Holdings returns db restricted to holdings whose live portfolio is visible to a.
func Holdings(db *gorm.DB, a Actor) *gorm.DB {
	q := db.Model(&domain.Holding{}).
		Joins("JOIN portfolios ON portfolios.portfolio_id = holdings.portfolio_id AND portfolios.deleted_at IS NULL")
	return VisibilityOf(a).Apply(q, "portfolios.host")
}

// Transactions returns db restricted to transactions whose live portfolio is visible to a.
func Transactions(db *gorm.DB, a Actor) *gorm.DB {
	q := db.Model(&domain.Transaction{}).
		Joins("JOIN holdings ON holdings.holding_id = transactions.holding_id").
		Joins("JOIN portfolios ON portfolios.portfolio_id = holdings.portfolio_id AND portfolios.deleted_at IS NULL")
	return VisibilityOf(a).Apply(q, "portfolios.host")
}

type hostOnly string

func (h hostOnly) TenantHost() string { return string(h) }

// Host wraps a bare host string as a HostScoped target.
func Host(h string) HostScoped {
	return hostOnly(h)
}
