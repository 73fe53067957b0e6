package connectfour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementPlanConservesStake(t *testing.T) {
	for _, stake := range []uint64{0, 1, 2, 7, 200, 1<<63 - 1} {
		for _, phase := range []Phase{Player0Won, Player1Won, Draw} {
			rec := &GameRecord{Reference: "g", Player0: alice, Player1: bob, Phase: phase, Stake: stake}
			if phase == Player0Won {
				rec.Winner = alice
			} else if phase == Player1Won {
				rec.Winner = bob
			}

			plan, err := SettlementPlan(rec)
			require.NoError(t, err)
			assert.Equal(t, stake, plan.Total(), "stake %d phase %s", stake, phase)
		}
	}
}

func TestSettlementPlanOddDraw(t *testing.T) {
	rec := &GameRecord{Reference: "g", Player0: alice, Player1: bob, Phase: Draw, Stake: 7}

	plan, err := SettlementPlan(rec)
	require.NoError(t, err)
	assert.Equal(t, PayoutPlan{
		{Key: "g/payout/0/0", Recipient: alice, Amount: 4},
		{Key: "g/payout/0/1", Recipient: bob, Amount: 3},
	}, plan)
}

func TestSettlementPlanRejectsOpenGames(t *testing.T) {
	_, err := SettlementPlan(newGame(t))
	assert.ErrorIs(t, err, ErrNotTerminal)

	_, err = SettlementPlan(startedGame(t))
	assert.ErrorIs(t, err, ErrNotTerminal)
}

func TestRefundPlan(t *testing.T) {
	rec := newGame(t)

	assert.Equal(t, PayoutPlan{{Key: "g1/refund/0", Recipient: alice, Amount: 100}}, RefundPlan(rec))
}

func TestCommitmentKeys(t *testing.T) {
	rec := startedGame(t)

	assert.Equal(t, Commitment{Key: "g1/commit/0", Payer: alice, Amount: 100}, CommitmentFor(rec, 0))
	assert.Equal(t, Commitment{Key: "g1/commit/1", Payer: bob, Amount: 100}, CommitmentFor(rec, 1))

	rec.Nonce = "n1"
	assert.Equal(t, "g1/n1/commit/1", CommitmentFor(rec, 1).Key)
	assert.Equal(t, "g1/n1/refund/0", RefundPlan(rec)[0].Key)
}

func TestPlanIsStableAcrossCalls(t *testing.T) {
	rec := startedGame(t)
	playColumns(t, rec, 0, 1, 0, 1, 0, 1, 0)

	first, err := SettlementPlan(rec)
	require.NoError(t, err)
	second, err := SettlementPlan(rec.Clone())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPayoutKeysDependOnDecidingMove(t *testing.T) {
	early := startedGame(t)
	playColumns(t, early, 0, 1, 0, 1, 0, 1, 0)
	late := startedGame(t)
	playColumns(t, late, 0, 1, 0, 1, 6, 1, 5, 1)

	earlyPlan, err := SettlementPlan(early)
	require.NoError(t, err)
	latePlan, err := SettlementPlan(late)
	require.NoError(t, err)

	assert.Equal(t, "g1/payout/7/0", earlyPlan[0].Key)
	assert.Equal(t, "g1/payout/8/0", latePlan[0].Key)
}
