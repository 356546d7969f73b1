// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory SQLite database. The pool is pinned to
// one connection so every query sees the same memory database; callers that
// hold a transaction must route all queries through it.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

// OpenFileDB returns a migrated SQLite database file with a pool of conns
// connections, for tests that need admissions to run on separate
// connections. Transactions begin IMMEDIATE and wait on busy_timeout, so
// writers queue instead of failing with SQLITE_BUSY.
func OpenFileDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "ledger.db") +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(domain.Models()...))
	return db
}

// CreateUser inserts a user with the given role and host.
func CreateUser(t *testing.T, db *gorm.DB, username string, role constants.Role, host string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, PasswordHash: "x", Role: role, Host: host}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePortfolio inserts a portfolio owned by host.
func CreatePortfolio(t *testing.T, db *gorm.DB, name, host string) *domain.Portfolio {
	t.Helper()
	p := &domain.Portfolio{Name: name, Host: host, CreatedByID: uuid.New()}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateAsset inserts an equity asset.
func CreateAsset(t *testing.T, db *gorm.DB, ticker string) *domain.Asset {
	t.Helper()
	a := &domain.Asset{Ticker: ticker, Name: "Asset " + ticker, Category: domain.CategoryEquity}
	require.NoError(t, db.Create(a).Error)
	return a
}

// CreateHolding inserts a holding with a preset position.
func CreateHolding(t *testing.T, db *gorm.DB, portfolioID, assetID uuid.UUID, total, avg string) *domain.Holding {
	t.Helper()
	h := &domain.Holding{
		PortfolioID:   portfolioID,
		AssetID:       assetID,
		QuantityTotal: decimal.RequireFromString(total),
		AvgPrice:      decimal.RequireFromString(avg),
	}
	require.NoError(t, db.Create(h).Error)
	return h
}

// CountRows counts the rows of model.
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
