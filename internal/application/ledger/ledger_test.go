package ledger

import (
	"testing"

	"portfolio-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pos(total, avg string) Position {
	return Position{QuantityTotal: d(total), AvgPrice: d(avg)}
}

func TestApply_BuyBlendsAverage(t *testing.T) {
	got, err := Ledger{}.Apply(pos("2.00", "8.00"), domain.KindBuy, d("5.00"), d("10.00"))
	require.NoError(t, err)
	assert.Equal(t, "7.00", got.QuantityTotal.StringFixed(2))
	// (2*8 + 5*10) / 7 = 9.428571...
	assert.Equal(t, "9.43", got.AvgPrice.StringFixed(2))
}

func TestApply_BuyOnFreshHolding(t *testing.T) {
	got, err := Ledger{}.Apply(Position{}, domain.KindBuy, d("3.00"), d("12.34"))
	require.NoError(t, err)
	assert.Equal(t, "3.00", got.QuantityTotal.StringFixed(2))
	assert.Equal(t, "12.34", got.AvgPrice.StringFixed(2))
}

func TestApply_BuySequenceMatchesWeightedAverage(t *testing.T) {
	buys := []struct{ qty, price string }{
		{"10.00", "20.00"},
		{"5.00", "26.00"},
		{"5.00", "30.00"},
	}
	p := Position{}
	var err error
	for _, b := range buys {
		p, err = Ledger{}.Apply(p, domain.KindBuy, d(b.qty), d(b.price))
		require.NoError(t, err)
	}
	// (200 + 130 + 150) / 20 = 24
	assert.Equal(t, "20.00", p.QuantityTotal.StringFixed(2))
	assert.Equal(t, "24.00", p.AvgPrice.StringFixed(2))
}

func TestApply_RoundsHalfUp(t *testing.T) {
	// (1*1.00 + 1*1.01) / 2 = 1.005
	got, err := Ledger{}.Apply(pos("1.00", "1.00"), domain.KindBuy, d("1.00"), d("1.01"))
	require.NoError(t, err)
	assert.Equal(t, "1.01", got.AvgPrice.StringFixed(2))
}

func TestApply_ManySmallBuysDoNotDrift(t *testing.T) {
	p := Position{}
	var err error
	for i := 0; i < 1000; i++ {
		p, err = Ledger{}.Apply(p, domain.KindBuy, d("0.01"), d("0.10"))
		require.NoError(t, err)
	}
	assert.Equal(t, "10.00", p.QuantityTotal.StringFixed(2))
	assert.Equal(t, "0.10", p.AvgPrice.StringFixed(2))
}

func TestApply_SellKeepsAverage(t *testing.T) {
	got, err := Ledger{}.Apply(pos("10.00", "5.50"), domain.KindSell, d("4.00"), d("99.00"))
	require.NoError(t, err)
	assert.Equal(t, "6.00", got.QuantityTotal.StringFixed(2))
	assert.Equal(t, "5.50", got.AvgPrice.StringFixed(2))
}

func TestApply_SellToZeroLeavesAverage(t *testing.T) {
	got, err := Ledger{}.Apply(pos("10.00", "5.50"), domain.KindSell, d("10.00"), d("7.00"))
	require.NoError(t, err)
	assert.True(t, got.QuantityTotal.IsZero())
	assert.Equal(t, "5.50", got.AvgPrice.StringFixed(2))
}

func TestApply_SellBelowZeroIsInvalidState(t *testing.T) {
	start := pos("10.00", "5.00")
	got, err := Ledger{}.Apply(start, domain.KindSell, d("20.00"), d("10.00"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, got.QuantityTotal.Equal(start.QuantityTotal))
}

func TestApply_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		kind  domain.TransactionKind
		qty   string
		price string
	}{
		{"zero quantity", domain.KindBuy, "0", "1.00"},
		{"negative quantity", domain.KindSell, "-1.00", "1.00"},
		{"negative price", domain.KindBuy, "1.00", "-0.01"},
		{"unknown kind", domain.TransactionKind("HOLD"), "1.00", "1.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Ledger{}.Apply(pos("1.00", "1.00"), tc.kind, d(tc.qty), d(tc.price))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApply_BuyPastColumnBoundIsInvalidInput(t *testing.T) {
	start := pos("9999999990.00", "1.00")
	got, err := Ledger{}.Apply(start, domain.KindBuy, d("10.00"), d("1.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, got.QuantityTotal.Equal(start.QuantityTotal))

	got, err = Ledger{}.Apply(start, domain.KindBuy, d("9.99"), d("1.00"))
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", got.QuantityTotal.StringFixed(2))
}
