package perception

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PATTERN TABLE
// =============================================================================
// Each entry is a fixed leading keyword phrase plus capture groups. Every
// regexp is anchored at both ends so a keyword buried in prose never
// matches. Order matters: more specific templates come first.

// Pattern is one row of the template table.
type Pattern struct {
	Name    string         // Stable identifier, reported on the Command
	Intent  Intent         // Intent produced on match
	Example string         // Canonical example, used in help text and tests
	Regexp  *regexp.Regexp // Anchored, case-insensitive template
	// Extract turns the submatches into the intent's fields. Returning
	// false rejects the match and lets later patterns try.
	Extract func(groups []string) (map[string]interface{}, bool)
}

// numberGroup captures a decimal written with comma or dot separators.
const numberGroup = `(\d+(?:[.,]\d+)?)`

// DefaultPatterns returns the assistant's command surface in priority order.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:    "create_task",
			Intent:  IntentCreateTask,
			Example: "Criar tarefa Revisar contrato",
			Regexp:  regexp.MustCompile(`(?i)^criar\s+tarefa\s+(.+)$`),
			Extract: textField(FieldTitle),
		},
		{
			Name:    "complete_task",
			Intent:  IntentCompleteTask,
			Example: "Concluir tarefa Revisar contrato",
			Regexp:  regexp.MustCompile(`(?i)^concluir\s+tarefa\s+(.+)$`),
			Extract: textField(FieldTitle),
		},
		{
			Name:    "register_workout",
			Intent:  IntentRegisterWorkout,
			Example: "Registrar treino musculação",
			Regexp:  regexp.MustCompile(`(?i)^registrar\s+treino\s+(.+)$`),
			Extract: textField(FieldActivityType),
		},
		{
			Name:    "register_run",
			Intent:  IntentRegisterRun,
			Example: "Registrar corrida 5km 28min",
			Regexp:  regexp.MustCompile(`(?i)^registrar\s+corrida\s+` + numberGroup + `\s*km\s+(\d+)\s*min$`),
			Extract: func(g []string) (map[string]interface{}, bool) {
				km, err := ParseDecimal(g[1])
				if err != nil {
					return nil, false
				}
				minutes, err := strconv.Atoi(g[2])
				if err != nil {
					return nil, false
				}
				return map[string]interface{}{FieldDistanceKm: km, FieldMinutes: minutes}, true
			},
		},
		// Pomodoro must precede the generic minutes template.
		{
			Name:    "register_study_pomodoro",
			Intent:  IntentRegisterStudy,
			Example: "Registrar estudo pomodoro",
			Regexp:  regexp.MustCompile(`(?i)^registrar\s+estudo\s+pomodoro$`),
			Extract: func([]string) (map[string]interface{}, bool) {
				return map[string]interface{}{FieldMinutes: PomodoroMinutes, FieldPomodoro: true}, true
			},
		},
		{
			Name:    "register_study_minutes",
			Intent:  IntentRegisterStudy,
			Example: "Registrar estudo 30 minutos",
			Regexp:  regexp.MustCompile(`(?i)^registrar\s+estudo\s+(\d+)\s+minutos$`),
			Extract: func(g []string) (map[string]interface{}, bool) {
				minutes, err := strconv.Atoi(g[1])
				if err != nil {
					return nil, false
				}
				return map[string]interface{}{FieldMinutes: minutes, FieldPomodoro: false}, true
			},
		},
		{
			Name:    "register_finance_income",
			Intent:  IntentRegisterFinanceIncome,
			Example: "Adicionar entrada 3500 salário",
			Regexp:  regexp.MustCompile(`(?i)^adicionar\s+entrada\s+` + numberGroup + `\s+(.+)$`),
			Extract: amountAndDescription,
		},
		{
			Name:    "register_finance_expense",
			Intent:  IntentRegisterFinanceExpense,
			Example: "Adicionar saída 45,50 mercado",
			Regexp:  regexp.MustCompile(`(?i)^adicionar\s+sa[ií]da\s+` + numberGroup + `\s+(.+)$`),
			Extract: amountAndDescription,
		},
		{
			Name:    "mark_routine",
			Intent:  IntentMarkRoutine,
			Example: "Marcar rotina meditação",
			Regexp:  regexp.MustCompile(`(?i)^(?:marcar|concluir)\s+rotina\s+(.+)$`),
			Extract: textField(FieldName),
		},
	}
}

// textField extracts the first group verbatim into field.
func textField(field string) func([]string) (map[string]interface{}, bool) {
	return func(g []string) (map[string]interface{}, bool) {
		return map[string]interface{}{field: g[1]}, true
	}
}

func amountAndDescription(g []string) (map[string]interface{}, bool) {
	amount, err := ParseDecimal(g[1])
	if err != nil {
		return nil, false
	}
	return map[string]interface{}{FieldAmount: amount, FieldDescription: g[2]}, true
}

// ParseDecimal parses a number that uses either comma or dot as the
// decimal separator ("45,50" and "45.50" are the same value).
func ParseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
}
