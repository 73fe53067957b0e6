package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/rs/zerolog/log"
)

// Executor applies transfers in order, retrying each with backoff. Keys make a retry
// of an already applied transfer a no-op, so a whole plan can be re-run safely.
type Executor struct {
	transferer  Transferer
	maxAttempts int
	minDelay    time.Duration
	maxDelay    time.Duration
}

func NewExecutor(transferer Transferer, maxAttempts int) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Executor{
		transferer:  transferer,
		maxAttempts: maxAttempts,
		minDelay:    200 * time.Millisecond,
		maxDelay:    5 * time.Second,
	}
}

func (e *Executor) Apply(ctx context.Context, transfers ...Transfer) error {
	for _, t := range transfers {
		if err := e.apply(ctx, t); err != nil {
			return fmt.Errorf("transfer %s: %w", t.Key, err)
		}
	}
	return nil
}

func (e *Executor) apply(ctx context.Context, t Transfer) error {
	b := &backoff.Backoff{
		Min:    e.minDelay,
		Max:    e.maxDelay,
		Factor: 2,
		Jitter: true,
	}

	var err error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		err = e.transferer.Transfer(ctx, t)
		if err == nil {
			log.Info().
				Str("key", t.Key).
				Str("from", t.From).
				Str("to", t.To).
				Str("amount", FormatAmount(t.Amount)).
				Msg("Transfer applied")
			return nil
		}
		if permanent(err) || attempt == e.maxAttempts {
			break
		}

		delay := b.Duration()
		log.Warn().Err(err).Str("key", t.Key).Int("attempt", attempt).Dur("retryIn", delay).Msg("Transfer failed, retrying")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func permanent(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrTransferRejected) ||
		errors.Is(err, ErrInvalidTransfer) ||
		errors.Is(err, ErrKeyConflict) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
