package connectfour

import "fmt"

type PlayerID string

type Phase uint8

const (
	NotStarted Phase = iota
	InProgress
	Player0Won
	Player1Won
	Draw
)

var phaseNames = map[Phase]string{
	NotStarted: "NOT_STARTED",
	InProgress: "IN_PROGRESS",
	Player0Won: "PLAYER0_WON",
	Player1Won: "PLAYER1_WON",
	Draw:       "DRAW",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// IsTerminal reports false for phases outside the enum; callers that must reject
// them use Validate.
func (p Phase) IsTerminal() bool {
	switch p {
	case Player0Won, Player1Won, Draw:
		return true
	default:
		return false
	}
}

func (p Phase) Validate() error {
	if _, ok := phaseNames[p]; !ok {
		return unknownPhase(p)
	}
	return nil
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(name string) (Phase, error) {
	for phase, n := range phaseNames {
		if n == name {
			return phase, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Move is one applied placement. Number starts at 1.
type Move struct {
	Number uint16 `json:"number"`
	Player uint8  `json:"player"`
	Row    uint8  `json:"row"`
	Column uint8  `json:"column"`
}

// SettlingMove is a deciding move whose payout could not be confirmed. Until it is
// replayed and settled, no other move is accepted.
type SettlingMove struct {
	Player uint8 `json:"player"`
	Column int   `json:"column"`
}

// GameRecord is the authoritative state of one match.
//
// Player1 and Winner are empty until set. Moves is append-only. Nonce tells apart
// successive matches that reuse a cancelled reference.
type GameRecord struct {
	Reference string   `json:"reference"`
	Nonce     string   `json:"-"`
	Player0   PlayerID `json:"player0"`
	Player1   PlayerID `json:"player1,omitempty"`
	Winner    PlayerID `json:"winner,omitempty"`
	Board     Board    `json:"board"`
	Phase     Phase    `json:"phase"`
	Turn      uint8    `json:"turn"`
	Stake     uint64   `json:"stake"`
	Moves     []Move   `json:"moves,omitempty"`

	Settling *SettlingMove `json:"settling,omitempty"`
}

func (r *GameRecord) HasPlayer1() bool {
	return r.Player1 != ""
}

// Players returns the identities indexed by player number.
func (r *GameRecord) Players() [2]PlayerID {
	return [2]PlayerID{r.Player0, r.Player1}
}

// Clone returns a deep copy so mutations can be discarded on failure.
func (r *GameRecord) Clone() *GameRecord {
	c := *r
	if r.Moves != nil {
		c.Moves = make([]Move, len(r.Moves))
		copy(c.Moves, r.Moves)
	}
	if r.Settling != nil {
		settling := *r.Settling
		c.Settling = &settling
	}
	return &c
}

// HoldSettlement pins the next move to the deciding one described by o.
func (r *GameRecord) HoldSettlement(o Outcome) {
	r.Settling = &SettlingMove{Player: o.Player, Column: o.Column}
}
