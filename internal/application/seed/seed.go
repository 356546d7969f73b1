// Package seed loads demo users, assets and portfolios. Transactions are
// admitted through the transactions service so every seeded holding matches
// its transactions.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/application/transactions"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/infrastructure/database"
	"portfolio-backend/internal/pkg/constants"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AdminUsername = "admin_super"
	tickerPrefix  = "DEMO"
)

var (
	seedQuantity = decimal.NewFromInt(100)
	seedPrice    = decimal.NewFromInt(10)
)

// Options controls what a seed run creates.
type Options struct {
	Hosts                    []string
	NumAssets                int
	HoldingsPerPortfolio     int
	TransactionsPerPortfolio int
	Password                 string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// DefaultOptions mirrors the seed command's flag defaults.
func DefaultOptions() Options {
	return Options{
		Hosts:                    []string{"alpha", "beta"},
		NumAssets:                3,
		HoldingsPerPortfolio:     1,
		TransactionsPerPortfolio: 1,
		Password:                 "pass",
	}
}

func (o Options) normalized() (Options, error) {
	var hosts []string
	seen := map[string]bool{}
	for _, h := range o.Hosts {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		hosts = append(hosts, h)
	}
	o.Hosts = hosts
	switch {
	case o.NumAssets < 0, o.HoldingsPerPortfolio < 0, o.TransactionsPerPortfolio < 0:
		return o, errors.New("seed counts must not be negative")
	case o.HoldingsPerPortfolio > o.NumAssets:
		return o, fmt.Errorf("holdings per portfolio (%d) exceeds number of assets (%d)", o.HoldingsPerPortfolio, o.NumAssets)
	case o.TransactionsPerPortfolio > 0 && o.HoldingsPerPortfolio == 0:
		return o, errors.New("transactions need at least one holding per portfolio")
	case o.Password == "":
		return o, errors.New("seed password is required")
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	return o, nil
}

// Row types describe what a run will ensure.
type UserRow struct {
	Username string
	Role     constants.Role
	Host     string
}

type AssetRow struct {
	Ticker   string
	Name     string
	Category domain.AssetCategory
}

type PortfolioRow struct {
	Name  string
	Host  string
	Owner string
}

type BuyRow struct {
	Portfolio string
	Host      string
	Ticker    string
	Actor     string
}

// Plan is the full set of rows a run ensures, in creation order.
type Plan struct {
	Users        []UserRow
	Assets       []AssetRow
	Portfolios   []PortfolioRow
	Transactions []BuyRow
}

// BuildPlan expands opts into a plan without touching the database.
func BuildPlan(opts Options) (*Plan, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	p := &Plan{Users: []UserRow{{Username: AdminUsername, Role: constants.RoleAdmin}}}
	for _, h := range opts.Hosts {
		p.Users = append(p.Users,
			UserRow{Username: "senior_" + h, Role: constants.RoleSenior, Host: h},
			UserRow{Username: "junior_" + h, Role: constants.RoleJunior, Host: h},
		)
	}
	for i := 1; i <= opts.NumAssets; i++ {
		category := domain.CategoryEquity
		if i%2 == 0 {
			category = domain.CategoryRealEstateFund
		}
		p.Assets = append(p.Assets, AssetRow{
			Ticker:   fmt.Sprintf("%s%d", tickerPrefix, i),
			Name:     fmt.Sprintf("Demo Asset %d", i),
			Category: category,
		})
	}
	for _, h := range opts.Hosts {
		name := fmt.Sprintf("Demo %s Portfolio", h)
		p.Portfolios = append(p.Portfolios, PortfolioRow{Name: name, Host: h, Owner: "senior_" + h})
		for i := 0; i < opts.TransactionsPerPortfolio; i++ {
			p.Transactions = append(p.Transactions, BuyRow{
				Portfolio: name,
				Host:      h,
				Ticker:    p.Assets[i%opts.HoldingsPerPortfolio].Ticker,
				Actor:     "senior_" + h,
			})
		}
	}
	return p, nil
}

// Write prints the plan one row per line.
func (p *Plan) Write(w io.Writer) error {
	var b strings.Builder
	for _, u := range p.Users {
		host := u.Host
		if host == "" {
			host = "-"
		}
		fmt.Fprintf(&b, "user      %-16s role=%s host=%s\n", u.Username, u.Role, host)
	}
	for _, a := range p.Assets {
		fmt.Fprintf(&b, "asset     %-16s category=%s name=%q\n", a.Ticker, a.Category, a.Name)
	}
	for _, pf := range p.Portfolios {
		fmt.Fprintf(&b, "portfolio %-16q host=%s owner=%s\n", pf.Name, pf.Host, pf.Owner)
	}
	for _, t := range p.Transactions {
		fmt.Fprintf(&b, "buy       %-16s %s@%s into %q by %s\n",
			t.Ticker, seedQuantity.StringFixed(2), seedPrice.StringFixed(2), t.Portfolio, t.Actor)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Report counts what a run created and what already existed.
type Report struct {
	UsersCreated, UsersReused           int
	AssetsCreated, AssetsReused         int
	PortfoliosCreated, PortfoliosReused int
	TransactionsAdmitted                int
}

// Run ensures every row of the plan exists. Existing users, assets and
// portfolios are reused; transactions are admitted only into portfolios this
// run created, so repeated runs do not grow holdings.
func Run(ctx context.Context, db *gorm.DB, opts Options) (*Report, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	plan, err := BuildPlan(opts)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := database.WithTx(ctx, tx)

		users := map[string]*domain.User{}
		for _, row := range plan.Users {
			u, created, err := ensureUser(tx, row, string(hash))
			if err != nil {
				return err
			}
			users[u.Username] = u
			count(created, &report.UsersCreated, &report.UsersReused)
		}

		assets := map[string]*domain.Asset{}
		for _, row := range plan.Assets {
			a, created, err := ensureAsset(tx, row)
			if err != nil {
				return err
			}
			assets[a.Ticker] = a
			count(created, &report.AssetsCreated, &report.AssetsReused)
		}

		fresh := map[string]*domain.Portfolio{}
		for _, row := range plan.Portfolios {
			p, created, err := ensurePortfolio(tx, row, users[row.Owner])
			if err != nil {
				return err
			}
			count(created, &report.PortfoliosCreated, &report.PortfoliosReused)
			if created {
				fresh[row.Name] = p
			}
		}

		svc := &transactions.Service{DB: tx}
		for _, row := range plan.Transactions {
			p, ok := fresh[row.Portfolio]
			if !ok {
				continue
			}
			u := users[row.Actor]
			actor := scope.Actor{UserID: u.UserID, Username: u.Username, Role: u.Role, Host: u.Host}
			if _, err := svc.Admit(txCtx, actor, p.PortfolioID, transactions.AdmitRequest{
				AssetID:  assets[row.Ticker].AssetID,
				Kind:     domain.KindBuy,
				Quantity: seedQuantity,
				Price:    seedPrice,
			}); err != nil {
				return fmt.Errorf("seed %s into %q: %w", row.Ticker, row.Portfolio, err)
			}
			report.TransactionsAdmitted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("users_created", report.UsersCreated).
		Int("assets_created", report.AssetsCreated).
		Int("portfolios_created", report.PortfoliosCreated).
		Int("transactions", report.TransactionsAdmitted).
		Msg("Seed complete")
	return report, nil
}

func count(created bool, createdN, reusedN *int) {
	if created {
		*createdN++
	} else {
		*reusedN++
	}
}

func ensureUser(tx *gorm.DB, row UserRow, hash string) (*domain.User, bool, error) {
	var u domain.User
	err := tx.Where("username = ?", row.Username).First(&u).Error
	if err == nil {
		log.Debug().Str("username", u.Username).Msg("User exists")
		return &u, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	u = domain.User{Username: row.Username, PasswordHash: hash, Role: row.Role, Host: row.Host}
	if err := tx.Create(&u).Error; err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

func ensureAsset(tx *gorm.DB, row AssetRow) (*domain.Asset, bool, error) {
	var a domain.Asset
	err := tx.Where("ticker = ?", row.Ticker).First(&a).Error
	if err == nil {
		return &a, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	a = domain.Asset{Ticker: row.Ticker, Name: row.Name, Category: row.Category}
	if err := tx.Create(&a).Error; err != nil {
		return nil, false, err
	}
	return &a, true, nil
}

func ensurePortfolio(tx *gorm.DB, row PortfolioRow, owner *domain.User) (*domain.Portfolio, bool, error) {
	var p domain.Portfolio
	err := tx.Where("name = ? AND host = ?", row.Name, row.Host).First(&p).Error
	if err == nil {
		return &p, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	p = domain.Portfolio{Name: row.Name, Host: row.Host, CreatedByID: owner.UserID}
	if err := tx.Create(&p).Error; err != nil {
		return nil, false, err
	}
	return &p, true, nil
}
