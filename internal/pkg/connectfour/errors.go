package connectfour

import "fmt"

// Error is a rule violation reported by the engine. Rejected operations never mutate the record.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrDuplicateReference Error = "game reference already exists"
	ErrGameNotFound       Error = "game not found"
	ErrMoveNotFound       Error = "move not found"
	ErrGameStarted        Error = "game started"
	ErrGameFull           Error = "game is full"
	ErrInvalidPlayer      Error = "invalid player"
	ErrInvalidCommitment  Error = "invalid commitment"
	ErrInvalidReference   Error = "invalid reference"
	ErrGameNotStarted     Error = "game not started"
	ErrGameOver           Error = "game over"
	ErrNotYourTurn        Error = "not your turn"
	ErrInvalidRow         Error = "invalid row"
	ErrInvalidColumn      Error = "invalid column"
	ErrCellNotEmpty       Error = "cell is not empty"
	ErrNotTerminal        Error = "game has no outcome to settle"
	ErrUnknownPhase       Error = "unknown game phase"
	ErrSettlementPending  Error = "settlement of the deciding move is pending"
)

func unknownPhase(p Phase) error {
	return fmt.Errorf("%w %d", ErrUnknownPhase, uint8(p))
}
