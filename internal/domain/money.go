package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in cents. Amounts are stored and summed as integers;
// decimal text only exists at the edges.
type Money int64

// ParseMoney converts a decimal string such as "12.34" into Money. It
// accepts a dot or comma separator and rounds half-up on the third decimal.
// Zero and negative amounts are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return 0, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || units > maxMoneyUnits {
		return 0, fmt.Errorf("%w: amount is too large", ErrInvalidInput)
	}

	var cents int64
	if len(fracPart) > 0 {
		cents = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		cents += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		cents++
	}

	total := units*100 + cents
	if total <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return Money(total), nil
}

const maxMoneyUnits = (1<<63 - 1) / 100

// String formats the amount with exactly two decimals.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
