package perception

import (
	"github.com/shopspring/decimal"
)

// Command is the parsed form of one user message. It lives only for the
// duration of a single message.
type Command struct {
	Intent Intent `json:"intent"`
	// Fields holds the captures for the intent: string for free text,
	// int for whole minutes, decimal.Decimal for amounts and distances,
	// bool for flags. Nil when Intent is IntentUnknown.
	Fields  map[string]interface{} `json:"fields,omitempty"`
	RawText string                 `json:"raw_text"`
	// Pattern names the template that matched, for diagnostics.
	Pattern string `json:"pattern,omitempty"`
}

// Unknown reports whether no template matched.
func (c Command) Unknown() bool {
	return c.Intent == IntentUnknown
}

// Text returns a free-text capture, or "" when absent.
func (c Command) Text(field string) string {
	s, _ := c.Fields[field].(string)
	return s
}

// Int returns an integer capture, or 0 when absent.
func (c Command) Int(field string) int {
	n, _ := c.Fields[field].(int)
	return n
}

// Decimal returns a decimal capture, or zero when absent.
func (c Command) Decimal(field string) decimal.Decimal {
	d, ok := c.Fields[field].(decimal.Decimal)
	if !ok {
		return decimal.Zero
	}
	return d
}

// Flag returns a boolean capture.
func (c Command) Flag(field string) bool {
	b, _ := c.Fields[field].(bool)
	return b
}
