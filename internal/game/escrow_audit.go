package game

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/ledger"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/store"
)

type escrowAudit struct {
	store    store.GameStore
	balances ledger.BalanceReader
	escrow   string
}

type auditResult struct {
	Expected uint64
	Actual   uint64
}

func (r auditResult) Balanced() bool {
	return r.Expected == r.Actual
}

// check compares the escrow balance with what unsettled matches have committed.
func (a *escrowAudit) check(ctx context.Context) (auditResult, error) {
	expected, err := a.store.OpenStakes(ctx)
	if err != nil {
		return auditResult{}, err
	}
	actual, err := a.balances.Balance(ctx, a.escrow)
	if err != nil {
		return auditResult{}, err
	}
	return auditResult{Expected: expected, Actual: actual}, nil
}

func (a *escrowAudit) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := a.check(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Escrow audit failed")
		return
	}
	if !result.Balanced() {
		log.Warn().
			Str("escrow", a.escrow).
			Str("expected", ledger.FormatAmount(result.Expected)).
			Str("actual", ledger.FormatAmount(result.Actual)).
			Msg("Escrow balance does not match open stakes")
		return
	}
	log.Debug().Str("escrow", a.escrow).Str("balance", ledger.FormatAmount(result.Actual)).Msg("Escrow balanced")
}

// StartEscrowAudit schedules the audit every interval. The caller shuts the scheduler down.
func StartEscrowAudit(interval time.Duration, gameStore store.GameStore, balances ledger.BalanceReader, escrow string) (gocron.Scheduler, error) {
	audit := &escrowAudit{store: gameStore, balances: balances, escrow: escrow}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(audit.run),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}
	sched.Start()
	log.Info().Dur("interval", interval).Msg("Escrow audit scheduled")
	return sched, nil
}
