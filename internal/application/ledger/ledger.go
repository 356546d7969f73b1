// Package ledger holds the weighted-average-cost update applied to a holding
// by each admitted transaction.
package ledger

import (
	"portfolio-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits stored for quantities and prices.
const Scale = 2

// Position is the part of a holding the ledger reads and writes.
type Position struct {
	QuantityTotal decimal.Decimal
	AvgPrice      decimal.Decimal
}

// PositionOf extracts the ledger state of h.
func PositionOf(h *domain.Holding) Position {
	return Position{QuantityTotal: h.QuantityTotal, AvgPrice: h.AvgPrice}
}

// Applier applies one transaction to a position.
type Applier interface {
	Apply(p Position, kind domain.TransactionKind, quantity, price decimal.Decimal) (Position, error)
}

// Ledger is the production Applier.
type Ledger struct{}

// Apply returns the position after a BUY or SELL.
//
// BUY blends the new price into the weighted average; SELL only reduces the
// quantity and leaves the average untouched, even when the total reaches zero.
// A SELL that would leave a negative total is an InvalidState: callers must
// have rejected it already. A BUY whose total no longer fits the holding
// column is InvalidInput.
func (Ledger) Apply(p Position, kind domain.TransactionKind, quantity, price decimal.Decimal) (Position, error) {
	if !quantity.IsPositive() {
		return p, domain.InvalidInput("Quantity must be positive")
	}
	if price.IsNegative() {
		return p, domain.InvalidInput("Price must not be negative")
	}

	switch kind {
	case domain.KindBuy:
		newTotal := p.QuantityTotal.Add(quantity)
		if !newTotal.IsPositive() {
			return p, domain.InvalidState("buy produced a non-positive total")
		}
		if !domain.FitsAmountColumn(newTotal) {
			return p, domain.InvalidInput("Holding quantity would exceed 9999999999.99")
		}
		cost := p.QuantityTotal.Mul(p.AvgPrice).Add(quantity.Mul(price))
		return Position{
			QuantityTotal: newTotal.Round(Scale),
			AvgPrice:      cost.Div(newTotal).Round(Scale),
		}, nil
	case domain.KindSell:
		newTotal := p.QuantityTotal.Sub(quantity)
		if newTotal.IsNegative() {
			return p, domain.InvalidState("sell would leave a negative quantity")
		}
		return Position{
			QuantityTotal: newTotal.Round(Scale),
			AvgPrice:      p.AvgPrice,
		}, nil
	default:
		return p, domain.InvalidInput("Transaction kind must be BUY or SELL")
	}
}
