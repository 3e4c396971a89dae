package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Money is an amount in minor currency units (1/100).
type Money int64

// ParseMoney parses a decimal amount such as "50", "50.5" or "50.00".
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	m := Money(units*100 + cents)
	if neg {
		m = -m
	}
	return m, nil
}

// Times returns m multiplied by a quantity.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}

// CheckedTimes is Times that reports false instead of wrapping around.
func (m Money) CheckedTimes(qty int) (Money, bool) {
	if m == 0 || qty == 0 {
		return 0, true
	}
	p := m * Money(qty)
	if p/Money(qty) != m || (qty == -1 && m == math.MinInt64) {
		return 0, false
	}
	return p, true
}

// CheckedAdd returns m + o, reporting false on overflow.
func (m Money) CheckedAdd(o Money) (Money, bool) {
	sum := m + o
	if (o > 0 && sum < m) || (o < 0 && sum > m) {
		return 0, false
	}
	return sum, true
}

// String renders the amount with two decimals, e.g. "50.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// UnmarshalYAML accepts a quoted or bare decimal scalar.
func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseMoney(value.Value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
