package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxPriceUnits bounds the whole part so units*100+cents cannot wrap int64.
const maxPriceUnits = (math.MaxInt64 - 99) / 100

// Price is a monetary amount in centavos. Keeping prices integral makes
// equality exact: two offers match only when their stored amounts are
// identical, with no floating-point tolerance.
type Price int64

// ParsePrice parses a decimal string like "10", "10.5" or "10.50" into a
// Price. At most two fractional digits are accepted.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("price is empty")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || strings.HasPrefix(whole, "-") || strings.HasPrefix(whole, "+") {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if units > maxPriceUnits {
		return 0, fmt.Errorf("price %q is too large", s)
	}

	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("price %q must have at most two decimal places", s)
		}
		padded := frac + strings.Repeat("0", 2-len(frac))
		cents, err = strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
	}

	return Price(units*100 + cents), nil
}

// String formats the price as a decimal with two fractional digits.
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

// MarshalJSON renders the price as a decimal string, preserving exactness
// for clients.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// Positive reports whether the price is strictly greater than zero.
func (p Price) Positive() bool {
	return p > 0
}
