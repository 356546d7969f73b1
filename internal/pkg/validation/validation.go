package validation

import (
	"regexp"
	"strings"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Tickers: upper-case letters and digits, optionally with '.' or '-' after the first char.
var tickerRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,9}$`)

// NormalizeTicker trims and upper-cases t.
func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

func IsValidTicker(t string) bool {
	return tickerRe.MatchString(t)
}

// ParseDate parses a YYYY-MM-DD date. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// ParseDecimal accepts JSON numbers and numeric strings with at most two
// fractional digits that fit a decimal(12,2) column.
func ParseDecimal(raw interface{}) (decimal.Decimal, bool) {
	var d decimal.Decimal
	var err error
	switch v := raw.(type) {
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		d, err = decimal.NewFromString(decimal.NewFromFloat(v).String())
	case decimal.Decimal:
		d = v
	default:
		return decimal.Zero, false
	}
	if err != nil {
		return decimal.Zero, false
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, false
	}
	if !domain.FitsAmountColumn(d) {
		return decimal.Zero, false
	}
	return d, true
}

// ParseUUID parses s, rejecting the nil UUID.
func ParseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
