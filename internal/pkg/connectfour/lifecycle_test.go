package connectfour

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice PlayerID = "alice"
	bob   PlayerID = "bob"
	carol PlayerID = "carol"
)

func newGame(t *testing.T) *GameRecord {
	t.Helper()
	rec, err := Create(alice, "g1", 100)
	require.NoError(t, err)
	return rec
}

func startedGame(t *testing.T) *GameRecord {
	t.Helper()
	rec := newGame(t)
	require.NoError(t, Join(rec, bob, 100))
	return rec
}

func TestCreate(t *testing.T) {
	rec := newGame(t)

	assert.Equal(t, "g1", rec.Reference)
	assert.Equal(t, alice, rec.Player0)
	assert.False(t, rec.HasPlayer1())
	assert.Equal(t, NotStarted, rec.Phase)
	assert.Equal(t, uint8(0), rec.Turn)
	assert.Equal(t, uint64(200), rec.Stake)
	assert.Equal(t, Board{}, rec.Board)
	assert.Empty(t, rec.Winner)
}

func TestCreateRejectsBadInput(t *testing.T) {
	_, err := Create(alice, "", 1)
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = Create("", "g1", 1)
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	_, err = Create(alice, "g1", math.MaxUint64/2+1)
	assert.ErrorIs(t, err, ErrInvalidCommitment)
}

func TestCancel(t *testing.T) {
	rec := newGame(t)

	plan, err := Cancel(rec, alice)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, alice, plan[0].Recipient)
	assert.Equal(t, uint64(100), plan[0].Amount)
}

func TestCancelRules(t *testing.T) {
	rec := newGame(t)
	_, err := Cancel(rec, bob)
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	started := startedGame(t)
	_, err = Cancel(started, alice)
	assert.ErrorIs(t, err, ErrGameStarted)

	_, err = Cancel(started, bob)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestJoin(t *testing.T) {
	rec := startedGame(t)

	assert.Equal(t, bob, rec.Player1)
	assert.Equal(t, InProgress, rec.Phase)
	assert.Equal(t, uint64(200), rec.Stake)
}

func TestJoinRules(t *testing.T) {
	rec := newGame(t)
	assert.ErrorIs(t, Join(rec, alice, 100), ErrInvalidPlayer)
	assert.ErrorIs(t, Join(rec, bob, 99), ErrInvalidCommitment)
	assert.ErrorIs(t, Join(rec, bob, 200), ErrInvalidCommitment)
	assert.Equal(t, NotStarted, rec.Phase)
	assert.False(t, rec.HasPlayer1())

	started := startedGame(t)
	assert.ErrorIs(t, Join(started, carol, 100), ErrGameFull)
	assert.ErrorIs(t, Join(started, alice, 100), ErrGameFull)
	assert.Equal(t, bob, started.Player1)
}

func TestPhaseText(t *testing.T) {
	for _, phase := range []Phase{NotStarted, InProgress, Player0Won, Player1Won, Draw} {
		text, err := phase.MarshalText()
		require.NoError(t, err)

		var parsed Phase
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, phase, parsed)
	}

	_, err := ParsePhase("PAUSED")
	assert.Error(t, err)
	assert.False(t, Phase(42).IsTerminal())
	assert.ErrorIs(t, Phase(42).Validate(), ErrUnknownPhase)
}
