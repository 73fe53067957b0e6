package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/blockchain"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/ledger"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/reject"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/store"
	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/utils"
)

// gameService runs each engine operation inside the store's critical section for the
// record, so the transfers an operation causes are confirmed before its change commits.
type gameService struct {
	store    store.GameStore
	executor *ledger.Executor
	escrow   string
	funds    ledger.BalanceReader
	events   *eventBridge
}

func (gs *gameService) createGame(ctx context.Context, creator connectfour.PlayerID, request CreateGameRequest) (*connectfour.GameRecord, *reject.ProblemWithTrace) {
	if gs.reserved(creator) {
		return nil, gs.problem(connectfour.ErrInvalidPlayer, request.Reference)
	}
	rec, err := connectfour.Create(creator, request.Reference, request.Commitment)
	if err != nil {
		return nil, gs.problem(err, request.Reference)
	}
	rec.Nonce = uuid.New().String()

	if err := gs.checkFunds(ctx, creator, request.Commitment); err != nil {
		return nil, gs.problem(err, request.Reference)
	}

	err = gs.store.Insert(ctx, rec, func(r *connectfour.GameRecord) error {
		return gs.executor.Apply(ctx, gs.commitTransfer(connectfour.CommitmentFor(r, 0)))
	})
	if err != nil {
		return nil, gs.problem(err, request.Reference)
	}

	log.Info().
		Str("reference", rec.Reference).
		Str("player0", string(creator)).
		Str("stake", ledger.FormatAmount(rec.Stake)).
		Msg("Game created")
	gs.events.gameCreated(ctx, rec)
	return rec, nil
}

func (gs *gameService) getGame(ctx context.Context, reference string) (*connectfour.GameRecord, *reject.ProblemWithTrace) {
	rec, err := gs.store.Get(ctx, reference)
	if err != nil {
		return nil, gs.problem(err, reference)
	}
	return rec, nil
}

func (gs *gameService) cancelGame(ctx context.Context, caller connectfour.PlayerID, reference string) (connectfour.PayoutPlan, *reject.ProblemWithTrace) {
	var refund connectfour.PayoutPlan
	removed, err := gs.store.Delete(ctx, reference, func(r *connectfour.GameRecord) error {
		plan, err := connectfour.Cancel(r, caller)
		if err != nil {
			return err
		}
		if err := gs.executor.Apply(ctx, gs.payoutTransfers(plan)...); err != nil {
			return err
		}
		refund = plan
		return nil
	})
	if err != nil {
		return nil, gs.problem(err, reference)
	}

	log.Info().Str("reference", reference).Str("refund", ledger.FormatAmount(refund.Total())).Msg("Game cancelled")
	gs.events.gameCancelled(ctx, removed, refund)
	return refund, nil
}

func (gs *gameService) joinGame(ctx context.Context, caller connectfour.PlayerID, reference string, request JoinGameRequest) (*connectfour.GameRecord, *reject.ProblemWithTrace) {
	rec, err := gs.store.Update(ctx, reference, func(r *connectfour.GameRecord) error {
		if err := connectfour.Join(r, caller, request.Commitment); err != nil {
			return err
		}
		if gs.reserved(caller) {
			return connectfour.ErrInvalidPlayer
		}
		commitment := connectfour.CommitmentFor(r, 1)
		if err := gs.checkFunds(ctx, caller, commitment.Amount); err != nil {
			return err
		}
		return gs.executor.Apply(ctx, gs.commitTransfer(commitment))
	})
	if err != nil {
		return nil, gs.problem(err, reference)
	}

	log.Info().Str("reference", reference).Str("player1", string(caller)).Msg("Game joined")
	gs.events.gameJoined(ctx, rec)
	return rec, nil
}

func (gs *gameService) playMove(ctx context.Context, caller connectfour.PlayerID, reference string, request PlayMoveRequest) (*PlayMoveResponse, *reject.ProblemWithTrace) {
	var outcome connectfour.Outcome
	var payouts connectfour.PayoutPlan
	var settleErr error
	rec, err := gs.store.Update(ctx, reference, func(r *connectfour.GameRecord) error {
		before := r.Clone()
		var err error
		outcome, payouts, err = connectfour.Play(r, caller, request.Opponent, *request.Column)
		if err != nil {
			return err
		}
		if len(payouts) == 0 {
			return nil
		}
		if err := gs.executor.Apply(ctx, gs.payoutTransfers(payouts)...); err != nil {
			// Part of the plan may have landed. Undo the move but hold the game
			// on it, so only a replay with the same keys can end the match.
			*r = *before
			r.HoldSettlement(outcome)
			settleErr = err
		}
		return nil
	})
	if err == nil && settleErr != nil {
		log.Warn().Err(settleErr).Str("reference", reference).Int("column", outcome.Column).Msg("Payout failed, deciding move held")
		err = settleErr
	}
	if err != nil {
		return nil, gs.problem(err, reference)
	}

	log.Info().
		Str("reference", reference).
		Str("player", string(caller)).
		Int("row", outcome.Row).
		Int("column", outcome.Column).
		Stringer("result", outcome.Result).
		Msg("Move played")

	gs.events.moved(ctx, rec, outcome)
	if rec.Phase.IsTerminal() {
		log.Info().Str("reference", reference).Stringer("phase", rec.Phase).Msg("Game over")
		gs.events.gameOver(ctx, rec, payouts)
	}

	return &PlayMoveResponse{Outcome: outcome, Payouts: payouts, Game: rec}, nil
}

func (gs *gameService) getMoves(ctx context.Context, reference string, page utils.PageRequest) ([]connectfour.Move, int64, *reject.ProblemWithTrace) {
	moves, count, err := gs.store.Moves(ctx, reference, page.Offset, page.Size)
	if err != nil {
		return nil, 0, gs.problem(err, reference)
	}
	return moves, count, nil
}

func (gs *gameService) getMoveProof(ctx context.Context, reference string, number uint16) (*blockchain.MoveProof, *reject.ProblemWithTrace) {
	rec, err := gs.store.Get(ctx, reference)
	if err != nil {
		return nil, gs.problem(err, reference)
	}
	proof, err := blockchain.ProveMove(rec.Moves, number)
	if err != nil {
		return nil, gs.problem(err, reference)
	}
	return proof, nil
}

func (gs *gameService) checkFunds(ctx context.Context, player connectfour.PlayerID, amount uint64) error {
	if gs.funds == nil || amount == 0 {
		return nil
	}
	balance, err := gs.funds.Balance(ctx, gs.account(player))
	if err != nil {
		return fmt.Errorf("balance of %s: %w", player, err)
	}
	if balance < amount {
		return fmt.Errorf("%s holds %s, needs %s: %w",
			player, ledger.FormatAmount(balance), ledger.FormatAmount(amount), ledger.ErrInsufficientFunds)
	}
	return nil
}

func (gs *gameService) commitTransfer(c connectfour.Commitment) ledger.Transfer {
	return ledger.Transfer{
		Key:    c.Key,
		From:   gs.account(c.Payer),
		To:     gs.account(connectfour.Escrow),
		Amount: c.Amount,
	}
}

func (gs *gameService) payoutTransfers(plan connectfour.PayoutPlan) []ledger.Transfer {
	transfers := make([]ledger.Transfer, 0, len(plan))
	for _, p := range plan {
		transfers = append(transfers, ledger.Transfer{
			Key:    p.Key,
			From:   gs.account(connectfour.Escrow),
			To:     gs.account(p.Recipient),
			Amount: p.Amount,
		})
	}
	return transfers
}

// reserved reports whether id would collide with the escrow account.
func (gs *gameService) reserved(id connectfour.PlayerID) bool {
	return id == connectfour.Escrow || string(id) == gs.escrow
}

func (gs *gameService) account(player connectfour.PlayerID) string {
	if player == connectfour.Escrow {
		return gs.escrow
	}
	return string(player)
}

func (gs *gameService) problem(err error, reference string) *reject.ProblemWithTrace {
	if errors.Is(err, ledger.ErrInsufficientFunds) {
		log.Debug().Err(err).Str("reference", reference).Msg("Rejected for insufficient funds")
		return reject.InsufficientFundsProblem(err)
	}
	var gameErr connectfour.Error
	if errors.As(err, &gameErr) {
		log.Debug().Err(err).Str("reference", reference).Msg("Game operation rejected")
	}
	return reject.GameProblem(err)
}
