package portfolios

import (
	"context"
	"strings"

	"portfolio-backend/internal/application/ledger"
	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/infrastructure/database"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when Service.Currency is empty or unknown.
const DefaultCurrency = money.BRL

// SummaryLine is one holding valued at its average cost.
type SummaryLine struct {
	HoldingID  uuid.UUID       `json:"holding_id"`
	AssetID    uuid.UUID       `json:"asset_id"`
	Ticker     string          `json:"ticker"`
	Quantity   decimal.Decimal `json:"quantity"`
	AvgPrice   decimal.Decimal `json:"avg_price"`
	TotalValue decimal.Decimal `json:"total_value"`
	Display    string          `json:"display"`
}

// Summary is a cost-basis view of a portfolio.
type Summary struct {
	PortfolioID  uuid.UUID       `json:"portfolio_id"`
	Name         string          `json:"name"`
	Host         string          `json:"host"`
	Currency     string          `json:"currency"`
	Holdings     []SummaryLine   `json:"holdings"`
	TotalValue   decimal.Decimal `json:"total_value"`
	TotalDisplay string          `json:"total_display"`
}

func (s *Service) currency() *money.Currency {
	if c := money.GetCurrency(strings.ToUpper(strings.TrimSpace(s.Currency))); c != nil {
		return c
	}
	return money.GetCurrency(DefaultCurrency)
}

// display formats a 2dp amount in the currency's own notation.
func display(amount decimal.Decimal, cur *money.Currency) string {
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// Summary values every holding of a visible portfolio at quantity * avg_price.
func (s *Service) Summary(ctx context.Context, actor scope.Actor, id uuid.UUID) (*Summary, error) {
	db := database.Conn(ctx, s.DB)
	p, err := s.find(db, actor, id)
	if err != nil {
		return nil, err
	}

	var holdings []domain.Holding
	if err := scope.Holdings(db, actor).
		Preload("Asset").
		Where("holdings.portfolio_id = ?", p.PortfolioID).
		Order("holdings.created_at ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}

	cur := s.currency()
	out := &Summary{
		PortfolioID: p.PortfolioID,
		Name:        p.Name,
		Host:        p.Host,
		Currency:    cur.Code,
		Holdings:    make([]SummaryLine, 0, len(holdings)),
		TotalValue:  decimal.Zero,
	}
	for _, h := range holdings {
		value := h.QuantityTotal.Mul(h.AvgPrice).Round(ledger.Scale)
		line := SummaryLine{
			HoldingID:  h.HoldingID,
			AssetID:    h.AssetID,
			Quantity:   h.QuantityTotal,
			AvgPrice:   h.AvgPrice,
			TotalValue: value,
			Display:    display(value, cur),
		}
		if h.Asset != nil {
			line.Ticker = h.Asset.Ticker
		}
		out.Holdings = append(out.Holdings, line)
		out.TotalValue = out.TotalValue.Add(value)
	}
	out.TotalDisplay = display(out.TotalValue, cur)
	return out, nil
}
