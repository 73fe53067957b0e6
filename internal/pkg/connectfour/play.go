package connectfour

type Result uint8

const (
	ResultContinue Result = iota
	ResultWin
	ResultDraw
)

func (r Result) String() string {
	switch r {
	case ResultContinue:
		return "CONTINUE"
	case ResultWin:
		return "WIN"
	case ResultDraw:
		return "DRAW"
	default:
		return "UNKNOWN"
	}
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Outcome describes a single applied move. Player is the mover's index.
type Outcome struct {
	Result Result `json:"result"`
	Player uint8  `json:"player"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

// Play drops caller's disc into column. All checks run before the record is touched.
// A terminal outcome comes with the payout plan for the stake.
func Play(rec *GameRecord, caller, opponent PlayerID, column int) (Outcome, PayoutPlan, error) {
	if err := rec.Phase.Validate(); err != nil {
		return Outcome{}, nil, err
	}
	if rec.Phase.IsTerminal() {
		return Outcome{}, nil, ErrGameOver
	}
	if rec.Phase != InProgress {
		return Outcome{}, nil, ErrGameNotStarted
	}

	player, err := seat(rec, caller, opponent)
	if err != nil {
		return Outcome{}, nil, err
	}
	if player != rec.Turn {
		return Outcome{}, nil, ErrNotYourTurn
	}
	if column < 0 || column >= Cols {
		return Outcome{}, nil, ErrInvalidColumn
	}
	if rec.Settling != nil && (rec.Settling.Player != player || rec.Settling.Column != column) {
		return Outcome{}, nil, ErrSettlementPending
	}
	row := rec.Board.LandingRow(column)
	if row == noRoom {
		return Outcome{}, nil, ErrInvalidRow
	}
	if rec.Board[row][column] != Empty {
		return Outcome{}, nil, ErrCellNotEmpty
	}

	rec.Settling = nil
	rec.Board[row][column] = discFor(player)
	rec.Moves = append(rec.Moves, Move{
		Number: uint16(len(rec.Moves) + 1),
		Player: player,
		Row:    uint8(row),
		Column: uint8(column),
	})

	outcome := Outcome{Result: ResultContinue, Player: player, Row: row, Column: column}
	switch {
	case rec.Board.Wins(row, column):
		outcome.Result = ResultWin
		rec.Winner = caller
		if player == 0 {
			rec.Phase = Player0Won
		} else {
			rec.Phase = Player1Won
		}
	case rec.Board.Full():
		outcome.Result = ResultDraw
		rec.Phase = Draw
	default:
		rec.Turn = 1 - rec.Turn
		return outcome, nil, nil
	}

	plan, err := SettlementPlan(rec)
	if err != nil {
		return Outcome{}, nil, err
	}
	return outcome, plan, nil
}

// seat resolves caller's index after checking the claimed opponent is the real counter-party.
func seat(rec *GameRecord, caller, opponent PlayerID) (uint8, error) {
	players := rec.Players()
	switch {
	case caller == players[0] && opponent == players[1]:
		return 0, nil
	case caller == players[1] && opponent == players[0]:
		return 1, nil
	default:
		return 0, ErrInvalidPlayer
	}
}
