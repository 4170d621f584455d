package types

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a float64 that also accepts numeric strings on decode. The remote
// order API sends quantities and amounts either way depending on the record's age.
type Number float64

// Float64 returns the plain float value.
func (n Number) Float64() float64 {
	return float64(n)
}

// UnmarshalJSON accepts 2.5, "2.5", "", and null. Empty and null decode to zero.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		*n = 0
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("decoding number %s: %w", string(trimmed), err)
	}
	*n = Number(d.InexactFloat64())
	return nil
}

// Scan reads NUMERIC and REAL columns, which drivers return as floats, ints, or text.
func (n *Number) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = 0
	case float64:
		*n = Number(v)
	case float32:
		*n = Number(v)
	case int64:
		*n = Number(v)
	case []byte:
		return n.scanString(string(v))
	case string:
		return n.scanString(v)
	default:
		return fmt.Errorf("unsupported number source %T", src)
	}
	return nil
}

func (n *Number) scanString(raw string) error {
	if strings.TrimSpace(raw) == "" {
		*n = 0
		return nil
	}
	parsed, err := ParseNumber(raw)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Value implements driver.Valuer.
func (n Number) Value() (driver.Value, error) {
	return float64(n), nil
}

// ParseNumber coerces a raw string such as "2,5" or " 3 " into a Number.
func ParseNumber(raw string) (Number, error) {
	d, err := decimal.NewFromString(normalizeDecimalSeparator(raw))
	if err != nil {
		return 0, fmt.Errorf("parsing number %q: %w", raw, err)
	}
	return Number(d.InexactFloat64()), nil
}

// Sum adds the values without going through any string form.
func Sum(values ...Number) float64 {
	total := 0.0
	for _, v := range values {
		total += float64(v)
	}
	return total
}

func normalizeDecimalSeparator(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.Contains(trimmed, ".") {
		return trimmed
	}
	return strings.ReplaceAll(trimmed, ",", ".")
}
