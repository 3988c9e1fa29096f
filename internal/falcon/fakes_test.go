package falcon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"modofoco/internal/config"
	"modofoco/internal/gamification"
	"modofoco/internal/perception"
	"modofoco/internal/store"
	"modofoco/internal/types"
)

var errStoreDown = errors.New("store unavailable")

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

// plainStore hides the Incrementer of the wrapped store, forcing the
// read-modify-write balance path.
type plainStore struct {
	types.RecordStore
}

// failingStore fails selected operations on selected collections.
type failingStore struct {
	types.RecordStore
	failInsert map[types.Collection]bool
	failUpdate bool
	failFind   bool
}

func (f *failingStore) Insert(ctx context.Context, c types.Collection, rec types.Record) (types.Record, error) {
	if f.failInsert[c] {
		return nil, errStoreDown
	}
	return f.RecordStore.Insert(ctx, c, rec)
}

func (f *failingStore) FindOne(ctx context.Context, c types.Collection, filter types.Filter) (types.Record, error) {
	if f.failFind {
		return nil, errStoreDown
	}
	return f.RecordStore.FindOne(ctx, c, filter)
}

func (f *failingStore) Update(ctx context.Context, c types.Collection, id string, patch types.Record) (types.Record, error) {
	if f.failUpdate {
		return nil, errStoreDown
	}
	return f.RecordStore.Update(ctx, c, id, patch)
}

// gatedAccountStore holds the first account insert until released, counts
// account lookups, and fails every transaction insert.
type gatedAccountStore struct {
	types.RecordStore
	entered      chan struct{}
	release      chan struct{}
	enterOnce    sync.Once
	accountFinds atomic.Int32
}

func newGatedAccountStore(rs types.RecordStore) *gatedAccountStore {
	return &gatedAccountStore{RecordStore: rs, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedAccountStore) Insert(ctx context.Context, c types.Collection, rec types.Record) (types.Record, error) {
	switch c {
	case types.CollectionAccounts:
		g.enterOnce.Do(func() { close(g.entered) })
		<-g.release
	case types.CollectionTransactions:
		return nil, errStoreDown
	}
	return g.RecordStore.Insert(ctx, c, rec)
}

func (g *gatedAccountStore) FindOne(ctx context.Context, c types.Collection, filter types.Filter) (types.Record, error) {
	if c == types.CollectionAccounts {
		g.accountFinds.Add(1)
	}
	return g.RecordStore.FindOne(ctx, c, filter)
}

// failingAwarder always refuses.
type failingAwarder struct{}

func (failingAwarder) AwardPoints(context.Context, string, int, string) error {
	return errors.New("ledger offline")
}

// spyExecutor records calls and returns canned results.
type spyExecutor struct {
	mu     sync.Mutex
	calls  []perception.Command
	result ExecutionResult
	err    error
	panic  bool
}

func (s *spyExecutor) Execute(_ context.Context, _ string, cmd perception.Command) (ExecutionResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cmd)
	s.mu.Unlock()
	if s.panic {
		panic("boom")
	}
	return s.result, s.err
}

func (s *spyExecutor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type fixture struct {
	store  *store.MemoryStore
	ledger *gamification.Ledger
	exec   *Executor
	brain  *Brain
}

func newFixture(cfg *config.Config, wrap func(types.RecordStore) types.RecordStore) *fixture {
	mem := store.NewMemoryStore()
	ledger, err := gamification.NewLedger("")
	if err != nil {
		panic(err)
	}
	var rs types.RecordStore = mem
	if wrap != nil {
		rs = wrap(mem)
	}
	exec := NewExecutor(rs, ledger, cfg)
	exec.SetClock(func() time.Time { return fixedNow })
	return &fixture{
		store:  mem,
		ledger: ledger,
		exec:   exec,
		brain:  NewBrain("u1", nil, exec),
	}
}
