package perception

import (
	"strings"

	"modofoco/internal/logging"

	"golang.org/x/text/unicode/norm"
)

// Parser matches raw text against an ordered pattern table. It holds no
// per-call state, so one Parser can serve any number of goroutines.
type Parser struct {
	patterns []Pattern
}

// NewParser creates a parser over patterns. A nil slice selects
// DefaultPatterns.
func NewParser(patterns []Pattern) *Parser {
	if patterns == nil {
		patterns = DefaultPatterns()
	}
	return &Parser{patterns: patterns}
}

// Patterns returns the table in priority order.
func (p *Parser) Patterns() []Pattern {
	return p.patterns
}

// Parse classifies raw into a Command. It never fails: input matching no
// template, including empty input, yields an IntentUnknown command.
func (p *Parser) Parse(raw string) Command {
	// NFC first so a decomposed "í" still hits the [ií] class.
	text := strings.TrimSpace(norm.NFC.String(raw))

	for _, pat := range p.patterns {
		groups := pat.Regexp.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		fields, ok := pat.Extract(groups)
		if !ok {
			logging.PerceptionDebug("pattern %s matched but rejected captures: %q", pat.Name, text)
			continue
		}
		logging.PerceptionDebug("pattern %s -> %s", pat.Name, pat.Intent)
		return Command{Intent: pat.Intent, Fields: fields, RawText: raw, Pattern: pat.Name}
	}

	logging.PerceptionDebug("no pattern matched: %q", text)
	return Command{Intent: IntentUnknown, RawText: raw}
}

var defaultParser = NewParser(nil)

// Parse classifies raw with the default pattern table.
func Parse(raw string) Command {
	return defaultParser.Parse(raw)
}
