package connectfour

import "fmt"

// Escrow is the pseudo party holding committed funds until settlement.
const Escrow PlayerID = "escrow"

const (
	kindCommit = "commit"
	kindPayout = "payout"
	kindRefund = "refund"
)

// Payout certifies that Amount is owed to Recipient out of escrow.
// Key is stable for a given record so re-applying a plan is idempotent. Payout keys
// carry the number of the move that ended the match, so a different ending never
// reuses them.
type Payout struct {
	Key       string   `json:"key"`
	Recipient PlayerID `json:"recipient"`
	Amount    uint64   `json:"amount"`
}

type PayoutPlan []Payout

func (p PayoutPlan) Total() uint64 {
	var total uint64
	for _, payout := range p {
		total += payout.Amount
	}
	return total
}

// Commitment is a player's deposit into escrow.
type Commitment struct {
	Key    string   `json:"key"`
	Payer  PlayerID `json:"payer"`
	Amount uint64   `json:"amount"`
}

// SettlementPlan splits the stake of a finished match.
//
// On a draw each side gets the floor half; an odd unit goes to player 0 so the
// plan always sums to the stake.
func SettlementPlan(rec *GameRecord) (PayoutPlan, error) {
	switch rec.Phase {
	case Player0Won, Player1Won:
		return PayoutPlan{
			{Key: payoutKey(rec, 0), Recipient: rec.Winner, Amount: rec.Stake},
		}, nil
	case Draw:
		half := rec.Stake / 2
		return PayoutPlan{
			{Key: payoutKey(rec, 0), Recipient: rec.Player0, Amount: half + rec.Stake%2},
			{Key: payoutKey(rec, 1), Recipient: rec.Player1, Amount: half},
		}, nil
	case NotStarted, InProgress:
		return nil, ErrNotTerminal
	default:
		return nil, unknownPhase(rec.Phase)
	}
}

// RefundPlan returns the creator's commitment. Only the creator has paid in
// before anyone joins, which is half of the recorded stake.
func RefundPlan(rec *GameRecord) PayoutPlan {
	return PayoutPlan{
		{Key: instructionKey(rec, kindRefund, 0), Recipient: rec.Player0, Amount: rec.Stake / 2},
	}
}

// CommitmentFor is the deposit player must make: the creator at create, the joiner at join.
func CommitmentFor(rec *GameRecord, player uint8) Commitment {
	return Commitment{
		Key:    instructionKey(rec, kindCommit, int(player)),
		Payer:  rec.Players()[player],
		Amount: rec.Stake / 2,
	}
}

func payoutKey(rec *GameRecord, index int) string {
	return instructionKey(rec, fmt.Sprintf("%s/%d", kindPayout, len(rec.Moves)), index)
}

func instructionKey(rec *GameRecord, kind string, index int) string {
	if rec.Nonce == "" {
		return fmt.Sprintf("%s/%s/%d", rec.Reference, kind, index)
	}
	return fmt.Sprintf("%s/%s/%s/%d", rec.Reference, rec.Nonce, kind, index)
}
