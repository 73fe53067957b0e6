package reject

import (
	"errors"
	"net/http"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
)

const insufficientFunds string = "error.ledger.insufficient-funds"

type gameProblem struct {
	title  string
	status int
	code   string
}

var gameProblems = map[connectfour.Error]gameProblem{
	connectfour.ErrDuplicateReference: {"Game reference already in use", http.StatusConflict, "error.game.duplicate-reference"},
	connectfour.ErrGameNotFound:       {"Game not found", http.StatusNotFound, "error.game.not-found"},
	connectfour.ErrMoveNotFound:       {"Move not found", http.StatusNotFound, "error.game.move-not-found"},
	connectfour.ErrGameStarted:        {"Game already started", http.StatusConflict, "error.game.game-started"},
	connectfour.ErrGameFull:           {"Game is full", http.StatusConflict, "error.game.game-full"},
	connectfour.ErrInvalidPlayer:      {"Player not allowed", http.StatusForbidden, "error.game.invalid-player"},
	connectfour.ErrInvalidCommitment:  {"Commitment does not match the stake", http.StatusBadRequest, "error.game.invalid-commitment"},
	connectfour.ErrInvalidReference:   {"Invalid game reference", http.StatusBadRequest, "error.game.invalid-reference"},
	connectfour.ErrGameNotStarted:     {"Game not started", http.StatusConflict, "error.game.game-not-started"},
	connectfour.ErrGameOver:           {"Game is over", http.StatusConflict, "error.game.game-over"},
	connectfour.ErrNotYourTurn:        {"Not your turn", http.StatusConflict, "error.game.not-your-turn"},
	connectfour.ErrInvalidRow:         {"Column is full", http.StatusBadRequest, "error.game.invalid-row"},
	connectfour.ErrInvalidColumn:      {"Column out of range", http.StatusBadRequest, "error.game.invalid-column"},
	connectfour.ErrCellNotEmpty:       {"Cell already taken", http.StatusConflict, "error.game.cell-not-empty"},
	connectfour.ErrNotTerminal:        {"Game has no outcome yet", http.StatusConflict, "error.game.not-terminal"},
	connectfour.ErrSettlementPending:  {"Deciding move awaits settlement", http.StatusConflict, "error.game.settlement-pending"},
	connectfour.ErrUnknownPhase:       {"Game record is corrupt", http.StatusInternalServerError, "error.game.unknown-phase"},
}

// GameProblem maps an engine rule violation to its problem. Anything else is unexpected.
func GameProblem(err error) *ProblemWithTrace {
	var gameErr connectfour.Error
	if errors.As(err, &gameErr) {
		if p, ok := gameProblems[gameErr]; ok {
			return &ProblemWithTrace{
				Problem: NewProblem().
					WithTitle(p.title).
					WithStatus(p.status).
					WithCode(p.code).
					Build(),
				Cause: err,
			}
		}
	}
	return Unexpected(err)
}

func InsufficientFundsProblem(err error) *ProblemWithTrace {
	return &ProblemWithTrace{
		Problem: NewProblem().
			WithTitle("Insufficient funds for commitment").
			WithStatus(http.StatusPaymentRequired).
			WithCode(insufficientFunds).
			Build(),
		Cause: err,
	}
}
