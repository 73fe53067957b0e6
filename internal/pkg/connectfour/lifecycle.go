package connectfour

import "math"

// Create opens a match for creator. Reference uniqueness is enforced by the store.
func Create(creator PlayerID, reference string, commitment uint64) (*GameRecord, error) {
	if reference == "" {
		return nil, ErrInvalidReference
	}
	if creator == "" {
		return nil, ErrInvalidPlayer
	}
	if commitment > math.MaxUint64/2 {
		return nil, ErrInvalidCommitment
	}

	return &GameRecord{
		Reference: reference,
		Player0:   creator,
		Phase:     NotStarted,
		Turn:      0,
		Stake:     commitment * 2,
	}, nil
}

// Cancel validates that caller may abandon an unjoined match and returns the refund owed.
// Destroying the record is left to the store.
func Cancel(rec *GameRecord, caller PlayerID) (PayoutPlan, error) {
	if caller != rec.Player0 {
		return nil, ErrInvalidPlayer
	}
	if rec.Phase != NotStarted {
		return nil, ErrGameStarted
	}
	return RefundPlan(rec), nil
}

// Join seats caller as player 1 once the matching commitment is offered.
func Join(rec *GameRecord, caller PlayerID, commitment uint64) error {
	if rec.HasPlayer1() || rec.Phase != NotStarted {
		return ErrGameFull
	}
	if caller == "" || caller == rec.Player0 {
		return ErrInvalidPlayer
	}
	if commitment != rec.Stake/2 {
		return ErrInvalidCommitment
	}

	rec.Player1 = caller
	rec.Phase = InProgress
	return nil
}
