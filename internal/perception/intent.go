// Package perception turns raw chat text into typed assistant commands.
//
// Perception is purely syntactic: an ordered table of anchored,
// case-insensitive templates is tried against the trimmed input and the
// first match wins. Nothing here touches storage, and Parse never fails;
// input that fits no template becomes an IntentUnknown command.
package perception

// Intent classifies what a command asks the assistant to do.
type Intent string

const (
	IntentCreateTask             Intent = "create_task"
	IntentCompleteTask           Intent = "complete_task"
	IntentRegisterWorkout        Intent = "register_workout"
	IntentRegisterRun            Intent = "register_run"
	IntentRegisterStudy          Intent = "register_study"
	IntentRegisterFinanceIncome  Intent = "register_finance_income"
	IntentRegisterFinanceExpense Intent = "register_finance_expense"
	IntentMarkRoutine            Intent = "mark_routine"
	IntentUnknown                Intent = "unknown"
)

// IsFinance reports whether the intent moves money.
func (i Intent) IsFinance() bool {
	return i == IntentRegisterFinanceIncome || i == IntentRegisterFinanceExpense
}

// Field names extracted by the pattern table.
const (
	FieldTitle        = "title"
	FieldActivityType = "activityType"
	FieldDistanceKm   = "distanceKm"
	FieldMinutes      = "minutes"
	FieldAmount       = "amount"
	FieldDescription  = "description"
	FieldName         = "name"
	FieldPomodoro     = "pomodoro"
)

// PomodoroMinutes is the fixed length of a pomodoro study block.
const PomodoroMinutes = 25
