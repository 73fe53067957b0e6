package ledger

import (
	"context"
	"fmt"
	"sync"
)

type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]uint64
	applied  map[string]Transfer

	openingBalance uint64
	opened         map[string]bool
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]uint64),
		applied:  make(map[string]Transfer),
		opened:   make(map[string]bool),
	}
}

// SetOpeningBalance credits amount to every account the first time it is seen,
// except the listed ones. Meant for local runs without a real ledger.
func (l *MemoryLedger) SetOpeningBalance(amount uint64, except ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.openingBalance = amount
	for _, owner := range except {
		l.opened[owner] = true
	}
}

func (l *MemoryLedger) open(owner string) {
	if l.opened[owner] {
		return
	}
	l.opened[owner] = true
	l.balances[owner] += l.openingBalance
}

func (l *MemoryLedger) Deposit(owner string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open(owner)
	l.balances[owner] += amount
}

func (l *MemoryLedger) Transfer(_ context.Context, t Transfer) error {
	if err := t.validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if applied, done := l.applied[t.Key]; done {
		if !t.sameTerms(applied.From, applied.To, applied.Amount) {
			return fmt.Errorf("%w: %s", ErrKeyConflict, t.Key)
		}
		return nil
	}
	l.open(t.From)
	l.open(t.To)
	if l.balances[t.From] < t.Amount {
		return ErrInsufficientFunds
	}
	l.balances[t.From] -= t.Amount
	l.balances[t.To] += t.Amount
	l.applied[t.Key] = t
	return nil
}

func (l *MemoryLedger) Balance(_ context.Context, owner string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open(owner)
	return l.balances[owner], nil
}

// Applied returns the transfers applied so far, keyed by idempotency key.
func (l *MemoryLedger) Applied() map[string]Transfer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]Transfer, len(l.applied))
	for k, v := range l.applied {
		out[k] = v
	}
	return out
}
