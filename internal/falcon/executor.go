package falcon

import (
	"context"
	"fmt"
	"time"

	"modofoco/internal/config"
	"modofoco/internal/gamification"
	"modofoco/internal/logging"
	"modofoco/internal/perception"
	"modofoco/internal/types"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Record source tag for rows written by the assistant.
const sourceFalcon = "falcon"

// studyNote marks study sessions logged through the assistant.
const studyNote = "Registrado pelo Falcon"

// ExecutionResult is what one command did.
type ExecutionResult struct {
	ReplyText string
	// SideEffectPerformed is true only when a persistent write succeeded.
	SideEffectPerformed bool
	// PointsAwarded is the credit actually granted. It is never positive
	// without a side effect.
	PointsAwarded int
}

// Executor performs the store writes for a parsed command. It is safe for
// concurrent use.
type Executor struct {
	store        types.RecordStore
	points       types.PointsAwarder
	balance      *types.BalanceWriter
	credits      config.Credits
	finance      config.FinanceConfig
	awardTimeout time.Duration
	serialize    bool

	financeLocks *keyedMutex
	accounts     singleflight.Group
	now          func() time.Time
}

// NewExecutor creates an executor over store and points. A nil cfg uses
// config.DefaultConfig.
func NewExecutor(store types.RecordStore, points types.PointsAwarder, cfg *config.Config) *Executor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	e := &Executor{
		store:        store,
		points:       points,
		balance:      types.NewBalanceWriter(store, cfg.Falcon.AtomicBalance),
		credits:      cfg.Points.Credits,
		finance:      cfg.Finance,
		awardTimeout: cfg.Falcon.GetAwardTimeout(),
		serialize:    cfg.Falcon.SerializeFinance,
		financeLocks: newKeyedMutex(),
		now:          time.Now,
	}
	logging.FalconDebug("Executor ready: atomic_balance=%v serialize_finance=%v", e.balance.Atomic(), e.serialize)
	return e
}

// SetClock replaces the time source used for timestamps.
func (e *Executor) SetClock(now func() time.Time) {
	e.now = now
}

// Execute runs cmd for userID. Store errors are returned unchanged in
// meaning, wrapped in an *ExecutionError naming the failed step.
func (e *Executor) Execute(ctx context.Context, userID string, cmd perception.Command) (ExecutionResult, error) {
	timer := logging.StartTimer(logging.CategoryFalcon, "Execute "+string(cmd.Intent))
	defer timer.StopWithThreshold(500 * time.Millisecond)

	if e.serialize && cmd.Intent.IsFinance() {
		unlock := e.financeLocks.Lock(userID)
		defer unlock()
	}

	switch cmd.Intent {
	case perception.IntentCreateTask:
		return e.createTask(ctx, userID, cmd)
	case perception.IntentCompleteTask:
		return e.completeTask(ctx, userID, cmd)
	case perception.IntentRegisterWorkout:
		reply := fmt.Sprintf("💪 Treino registrado: %s", cmd.Text(perception.FieldActivityType))
		return e.creditOnly(ctx, userID, cmd.Intent, reply, e.credits.Workout, gamification.ReasonWorkout)
	case perception.IntentRegisterRun:
		reply := fmt.Sprintf("🏃 Corrida registrada: %skm em %dmin",
			FormatNumber(cmd.Decimal(perception.FieldDistanceKm)), cmd.Int(perception.FieldMinutes))
		return e.creditOnly(ctx, userID, cmd.Intent, reply, e.credits.Run, gamification.ReasonRun)
	case perception.IntentRegisterStudy:
		return e.registerStudy(ctx, userID, cmd)
	case perception.IntentRegisterFinanceIncome, perception.IntentRegisterFinanceExpense:
		return e.registerFinance(ctx, userID, cmd)
	case perception.IntentMarkRoutine:
		return e.markRoutine(ctx, userID, cmd)
	case perception.IntentUnknown:
		return ExecutionResult{ReplyText: HelpReply}, nil
	default:
		return ExecutionResult{}, fmt.Errorf("unsupported intent %q", cmd.Intent)
	}
}

func (e *Executor) createTask(ctx context.Context, userID string, cmd perception.Command) (ExecutionResult, error) {
	title := cmd.Text(perception.FieldTitle)
	_, err := e.store.Insert(ctx, types.CollectionTasks, types.Record{
		types.FieldUserID: userID,
		"title":           title,
		"priority":        "medium",
		"completed":       false,
		"source":          sourceFalcon,
	})
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "insert task", false, err)
	}

	res := ExecutionResult{ReplyText: fmt.Sprintf("✅ Tarefa criada: %s", title), SideEffectPerformed: true}
	res.PointsAwarded = e.awardBestEffort(ctx, userID, cmd.Intent, e.credits.TaskCreated, gamification.ReasonTaskCreated)
	return res, nil
}

func (e *Executor) completeTask(ctx context.Context, userID string, cmd perception.Command) (ExecutionResult, error) {
	title := cmd.Text(perception.FieldTitle)
	task, err := e.store.FindOne(ctx, types.CollectionTasks, types.Filter{
		types.FieldUserID: userID,
		"completed":       false,
		"title":           types.FoldEqual(title),
	})
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "find task", false, err)
	}
	if task == nil {
		return ExecutionResult{ReplyText: fmt.Sprintf("🔍 Tarefa não encontrada: %s", title)}, nil
	}

	updated, err := e.store.Update(ctx, types.CollectionTasks, task.ID(), types.Record{
		"completed":    true,
		"completed_at": e.now().UTC(),
	})
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "update task", false, err)
	}

	res := ExecutionResult{
		ReplyText:           fmt.Sprintf("🎉 Tarefa concluída: %s", types.ExtractString(updated["title"])),
		SideEffectPerformed: true,
	}
	res.PointsAwarded = e.awardBestEffort(ctx, userID, cmd.Intent, e.credits.TaskCompleted, gamification.ReasonTaskCompleted)
	return res, nil
}

// creditOnly handles commands whose only effect is the points credit. The
// award is the write here, so its failure fails the command.
func (e *Executor) creditOnly(ctx context.Context, userID string, intent perception.Intent, reply string, amount int, reason string) (ExecutionResult, error) {
	if amount <= 0 {
		return ExecutionResult{ReplyText: reply}, nil
	}
	if err := e.award(ctx, userID, intent, amount, reason); err != nil {
		return ExecutionResult{}, stepError(intent, "award points", false, err)
	}
	return ExecutionResult{ReplyText: reply, SideEffectPerformed: true, PointsAwarded: amount}, nil
}

func (e *Executor) registerStudy(ctx context.Context, userID string, cmd perception.Command) (ExecutionResult, error) {
	minutes := cmd.Int(perception.FieldMinutes)
	if minutes <= 0 {
		return ExecutionResult{ReplyText: "⚠️ Informe uma duração maior que zero."}, nil
	}
	pomodoro := cmd.Flag(perception.FieldPomodoro)

	_, err := e.store.Insert(ctx, types.CollectionStudySessions, types.Record{
		types.FieldUserID:  userID,
		"duration_minutes": minutes,
		"notes":            studyNote,
		"pomodoro":         pomodoro,
		"studied_at":       e.now().UTC(),
	})
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "insert study session", false, err)
	}

	reply := fmt.Sprintf("📚 Estudo registrado: %d minutos", minutes)
	if pomodoro {
		reply += " (pomodoro)"
	}
	res := ExecutionResult{ReplyText: reply, SideEffectPerformed: true}
	res.PointsAwarded = e.awardBestEffort(ctx, userID, cmd.Intent, e.credits.Study, gamification.ReasonStudy)
	return res, nil
}

func (e *Executor) registerFinance(ctx context.Context, userID string, cmd perception.Command) (ExecutionResult, error) {
	amount := cmd.Decimal(perception.FieldAmount)
	description := cmd.Text(perception.FieldDescription)
	if !amount.IsPositive() {
		return ExecutionResult{ReplyText: "⚠️ Informe um valor maior que zero."}, nil
	}

	income := cmd.Intent == perception.IntentRegisterFinanceIncome
	txType, category, delta := "expense", e.finance.ExpenseCategory, amount.Neg()
	if income {
		txType, category, delta = "income", e.finance.IncomeCategory, amount
	}

	account, created, err := e.accountFor(ctx, userID)
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "resolve account", false, err)
	}

	_, err = e.store.Insert(ctx, types.CollectionTransactions, types.Record{
		types.FieldUserID: userID,
		"account_id":      account.ID(),
		"type":            txType,
		"amount":          amount,
		"description":     description,
		"category":        category,
		"confirmed":       true,
		"occurred_at":     e.now().UTC(),
		"source":          sourceFalcon,
	})
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "insert transaction", created, err)
	}

	updated, err := e.balance.Add(ctx, types.CollectionAccounts, account.ID(), "balance", delta)
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "update balance", true, err)
	}
	balance, _ := types.ExtractDecimal(updated["balance"])
	logging.FalconDebug("account %s balance now %s", account.ID(), balance)

	verb, icon := "Saída", "💸"
	if income {
		verb, icon = "Entrada", "💰"
	}
	res := ExecutionResult{
		ReplyText:           fmt.Sprintf("%s %s registrada: %s - %s", icon, verb, FormatBRL(amount), description),
		SideEffectPerformed: true,
	}
	res.PointsAwarded = e.awardBestEffort(ctx, userID, cmd.Intent, e.credits.FinanceEntry, gamification.ReasonFinanceEntry)
	return res, nil
}

// accountFor returns the user's first account, creating the default one
// when there is none. Concurrent first-time callers share one creation;
// only the caller whose flight inserted the account reports created.
func (e *Executor) accountFor(ctx context.Context, userID string) (types.Record, bool, error) {
	account, err := e.store.FindOne(ctx, types.CollectionAccounts, types.Filter{types.FieldUserID: userID})
	if err != nil {
		return nil, false, err
	}
	if account != nil {
		return account, false, nil
	}

	// Do runs the function only for the caller that started the flight;
	// callers that joined it see inserted stay false.
	inserted := false
	v, err, _ := e.accounts.Do(userID, func() (interface{}, error) {
		// Another flight may have finished between our read and Do.
		existing, err := e.store.FindOne(ctx, types.CollectionAccounts, types.Filter{types.FieldUserID: userID})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		acc, err := e.store.Insert(ctx, types.CollectionAccounts, types.Record{
			types.FieldUserID: userID,
			"name":            e.finance.DefaultAccountName,
			"balance":         decimal.Zero,
			"currency":        e.finance.Currency,
		})
		if err != nil {
			return nil, err
		}
		inserted = true
		logging.Falcon("Created default account %s for user %s", acc.ID(), userID)
		return acc, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(types.Record), inserted, nil
}

// award credits points with the configured timeout.
func (e *Executor) award(ctx context.Context, userID string, intent perception.Intent, amount int, reason string) error {
	if e.points == nil {
		return fmt.Errorf("no points collaborator configured")
	}
	if e.awardTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.awardTimeout)
		defer cancel()
	}
	if err := e.points.AwardPoints(ctx, userID, amount, reason); err != nil {
		logging.Audit(logging.AuditEvent{Type: logging.AuditPointsFailed, UserID: userID, Intent: string(intent), Points: amount, Err: err})
		return err
	}
	logging.Audit(logging.AuditEvent{Type: logging.AuditPointsAwarded, UserID: userID, Intent: string(intent), Points: amount})
	return nil
}

// awardBestEffort credits points after a successful domain write. A failed
// award is logged and reported as zero points; the write stays.
func (e *Executor) awardBestEffort(ctx context.Context, userID string, intent perception.Intent, amount int, reason string) int {
	if amount <= 0 {
		return 0
	}
	if err := e.award(ctx, userID, intent, amount, reason); err != nil {
		logging.Get(logging.CategoryFalcon).Warn("points award failed for %s (%s): %v", userID, intent, err)
		return 0
	}
	return amount
}

func (e *Executor) markRoutine(ctx context.Context, userID string, cmd perception.Command) (ExecutionResult, error) {
	name := cmd.Text(perception.FieldName)
	routine, err := e.store.FindOne(ctx, types.CollectionRoutines, types.Filter{
		types.FieldUserID: userID,
		"name":            types.FoldEqual(name),
	})
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "find routine", false, err)
	}
	if routine == nil {
		return ExecutionResult{ReplyText: fmt.Sprintf("🔁 Rotina anotada: %s", name)}, nil
	}

	_, err = e.store.Insert(ctx, types.CollectionRoutineCheckins, types.Record{
		types.FieldUserID: userID,
		"routine_id":      routine.ID(),
		"checked_at":      e.now().UTC(),
		"source":          sourceFalcon,
	})
	if err != nil {
		return ExecutionResult{}, stepError(cmd.Intent, "insert routine checkin", false, err)
	}

	res := ExecutionResult{
		ReplyText:           fmt.Sprintf("🔁 Rotina marcada: %s", types.ExtractString(routine["name"])),
		SideEffectPerformed: true,
	}
	res.PointsAwarded = e.awardBestEffort(ctx, userID, cmd.Intent, e.credits.Routine, gamification.ReasonRoutine)
	return res, nil
}
