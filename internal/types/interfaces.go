package types

import (
	"context"

	"github.com/shopspring/decimal"
)

// RecordStore is the persistence collaborator used by the assistant.
// Every record carries a user_id; callers never query across users.
type RecordStore interface {
	// Insert stores rec and returns it with generated fields (id,
	// created_at) filled in.
	Insert(ctx context.Context, collection Collection, rec Record) (Record, error)
	// FindOne returns the first record, in insertion order, matching
	// filter. It returns (nil, nil) when nothing matches.
	FindOne(ctx context.Context, collection Collection, filter Filter) (Record, error)
	// Update applies patch to the record with the given id and returns
	// the updated record.
	Update(ctx context.Context, collection Collection, id string, patch Record) (Record, error)
}

// Incrementer is an optional interface for stores that can add a delta to a
// numeric field as one atomic operation. Use NewBalanceWriter for a wrapper
// that falls back to read-modify-write when the store lacks it.
type Incrementer interface {
	Increment(ctx context.Context, collection Collection, id, field string, delta decimal.Decimal) (Record, error)
}

// PointsAwarder credits gamification points to a user.
type PointsAwarder interface {
	AwardPoints(ctx context.Context, userID string, amount int, reason string) error
}
