package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.00000000", FormatAmount(0))
	assert.Equal(t, "0.00000001", FormatAmount(1))
	assert.Equal(t, "1.50000000", FormatAmount(150_000_000))
	assert.Equal(t, "184467440737.09551615", FormatAmount(^uint64(0)))
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("1.5")
	require.NoError(t, err)
	assert.Equal(t, uint64(150_000_000), amount)

	amount, err = ParseAmount(FormatAmount(^uint64(0)))
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), amount)

	for _, bad := range []string{"-1", "0.000000001", "184467440737.09551616", "abc"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestMemoryLedgerTransfer(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	l.Deposit("alice", 100)

	require.NoError(t, l.Transfer(ctx, Transfer{Key: "k1", From: "alice", To: "escrow", Amount: 60}))

	alice, _ := l.Balance(ctx, "alice")
	escrow, _ := l.Balance(ctx, "escrow")
	assert.Equal(t, uint64(40), alice)
	assert.Equal(t, uint64(60), escrow)
}

func TestMemoryLedgerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	l.Deposit("alice", 100)

	transfer := Transfer{Key: "k1", From: "alice", To: "escrow", Amount: 60}
	require.NoError(t, l.Transfer(ctx, transfer))
	require.NoError(t, l.Transfer(ctx, transfer))

	alice, _ := l.Balance(ctx, "alice")
	assert.Equal(t, uint64(40), alice)
	assert.Len(t, l.Applied(), 1)
}

func TestMemoryLedgerRejectsReusedKeyWithDifferentTerms(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	l.Deposit("escrow", 200)

	require.NoError(t, l.Transfer(ctx, Transfer{Key: "g1/payout/7/0", From: "escrow", To: "alice", Amount: 200}))
	l.Deposit("escrow", 200)

	err := l.Transfer(ctx, Transfer{Key: "g1/payout/7/0", From: "escrow", To: "bob", Amount: 200})
	assert.ErrorIs(t, err, ErrKeyConflict)

	bob, _ := l.Balance(ctx, "bob")
	escrow, _ := l.Balance(ctx, "escrow")
	assert.Zero(t, bob)
	assert.Equal(t, uint64(200), escrow)
}

func TestMemoryLedgerRejects(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	l.Deposit("alice", 10)

	err := l.Transfer(ctx, Transfer{Key: "k1", From: "alice", To: "escrow", Amount: 11})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	err = l.Transfer(ctx, Transfer{Key: "", From: "alice", To: "escrow", Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidTransfer)

	err = l.Transfer(ctx, Transfer{Key: "k2", From: "alice", To: "alice", Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidTransfer)

	alice, _ := l.Balance(ctx, "alice")
	assert.Equal(t, uint64(10), alice)
	assert.Empty(t, l.Applied())
}

type flakyTransferer struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    []Transfer
}

func (f *flakyTransferer) Transfer(_ context.Context, t Transfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, t)
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	return nil
}

func fastExecutor(transferer Transferer, attempts int) *Executor {
	e := NewExecutor(transferer, attempts)
	e.minDelay = time.Millisecond
	e.maxDelay = 2 * time.Millisecond
	return e
}

func TestExecutorRetriesTransientFailures(t *testing.T) {
	f := &flakyTransferer{failures: 2, err: errors.New("unavailable")}

	err := fastExecutor(f, 5).Apply(context.Background(), Transfer{Key: "k1", From: "escrow", To: "alice", Amount: 1})
	require.NoError(t, err)
	assert.Len(t, f.calls, 3)
}

func TestExecutorGivesUp(t *testing.T) {
	unavailable := errors.New("unavailable")
	f := &flakyTransferer{failures: 10, err: unavailable}

	err := fastExecutor(f, 3).Apply(context.Background(), Transfer{Key: "k1", From: "escrow", To: "alice", Amount: 1})
	assert.ErrorIs(t, err, unavailable)
	assert.Len(t, f.calls, 3)
}

func TestExecutorDoesNotRetryPermanentFailures(t *testing.T) {
	f := &flakyTransferer{failures: 10, err: ErrInsufficientFunds}

	err := fastExecutor(f, 5).Apply(context.Background(),
		Transfer{Key: "k1", From: "escrow", To: "alice", Amount: 1},
		Transfer{Key: "k2", From: "escrow", To: "bob", Amount: 1},
	)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Len(t, f.calls, 1)
}

func TestExecutorReRunIsSafe(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	l.Deposit("escrow", 200)
	plan := []Transfer{
		{Key: "g1/payout/0", From: "escrow", To: "alice", Amount: 101},
		{Key: "g1/payout/1", From: "escrow", To: "bob", Amount: 99},
	}
	e := fastExecutor(l, 1)

	require.NoError(t, e.Apply(ctx, plan...))
	require.NoError(t, e.Apply(ctx, plan...))

	escrow, _ := l.Balance(ctx, "escrow")
	alice, _ := l.Balance(ctx, "alice")
	assert.Equal(t, uint64(0), escrow)
	assert.Equal(t, uint64(101), alice)
}

func TestMemoryLedgerOpeningBalance(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger()
	l.SetOpeningBalance(50, "escrow")

	require.NoError(t, l.Transfer(ctx, Transfer{Key: "k1", From: "alice", To: "escrow", Amount: 20}))

	alice, _ := l.Balance(ctx, "alice")
	escrow, _ := l.Balance(ctx, "escrow")
	bob, _ := l.Balance(ctx, "bob")
	assert.Equal(t, uint64(30), alice)
	assert.Equal(t, uint64(20), escrow)
	assert.Equal(t, uint64(50), bob)
}
