// Package store keeps game records and makes every change to one record a single
// serialized step.
package store

import (
	"context"

	"github.com/kollektive-hackathon/stakefour-backend/internal/pkg/connectfour"
)

// Confirm runs while the store holds the record. Returning an error aborts the change.
type Confirm func(rec *connectfour.GameRecord) error

// GameStore is keyed by reference. Insert, Update and Delete hold the record for their
// whole duration, so concurrent operations on one reference are applied one after another.
type GameStore interface {
	// Insert stores rec if no record with its reference exists. The record becomes
	// visible only after confirm succeeds.
	Insert(ctx context.Context, rec *connectfour.GameRecord, confirm Confirm) error
	Get(ctx context.Context, reference string) (*connectfour.GameRecord, error)
	// Update hands mutate a copy of the record and persists it when mutate returns nil.
	Update(ctx context.Context, reference string, mutate Confirm) (*connectfour.GameRecord, error)
	// Delete removes the record once confirm accepts it and returns what was removed.
	Delete(ctx context.Context, reference string, confirm Confirm) (*connectfour.GameRecord, error)
	Moves(ctx context.Context, reference string, offset, limit int) ([]connectfour.Move, int64, error)
	// OpenStakes is the amount escrow should hold for matches that have not settled.
	OpenStakes(ctx context.Context) (uint64, error)
}

func openStake(rec *connectfour.GameRecord) uint64 {
	switch rec.Phase {
	case connectfour.NotStarted:
		return rec.Stake / 2
	case connectfour.InProgress:
		return rec.Stake
	default:
		return 0
	}
}

func page(moves []connectfour.Move, offset, limit int) []connectfour.Move {
	if offset >= len(moves) {
		return []connectfour.Move{}
	}
	end := len(moves)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]connectfour.Move, end-offset)
	copy(out, moves[offset:end])
	return out
}
