package entity

import "strconv"

// Well-known quote field names returned by the market-data provider.
// Any of them may be absent or carry a non-numeric value.
const (
	QuoteName       = "name"
	QuoteClose      = "close"
	QuoteMarketCap  = "market_cap"
	QuoteTrailingPE = "trailing_pe"
)

// Quote is the loosely-typed metadata mapping returned alongside a price
// series (current price, market capitalization, trailing P/E, ...).
// Callers read fields through Number/Text rather than touching the raw
// mapping, so presence and type checks happen in exactly one place.
type Quote struct {
	fields map[string]any
}

// NewQuote wraps a decoded provider response.
func NewQuote(fields map[string]any) Quote {
	return Quote{fields: fields}
}

// Number returns the named field as a float64. The provider serializes
// numbers inconsistently (JSON number or quoted string), so both forms are
// accepted. ok is false when the field is absent or not numeric.
func (q Quote) Number(name string) (float64, bool) {
	v, exists := q.fields[name]
	if !exists {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Text returns the named field as a string. ok is false when absent.
func (q Quote) Text(name string) (string, bool) {
	v, exists := q.fields[name]
	if !exists {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	default:
		return "", false
	}
}
