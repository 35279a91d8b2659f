package claims

import (
	"context"
	"time"
)

// FetchValueFunc retrieves a fresh claim value from its source of truth.
// A nil value means the user has no value for this claim; errors propagate
// to the caller unchanged, no retry or suppression happens here.
type FetchValueFunc func(ctx context.Context, userID string, userCtx UserContext) (any, error)

// SessionClaim identifies a claim by a unique key and knows how to fetch a
// fresh value and how to read a cached value back out of a payload.
//
// Claims are constructed once at application configuration time and shared
// read-only across all sessions.
type SessionClaim interface {
	// Key returns the claim's unique payload key. Immutable after construction.
	Key() string

	// FetchValue retrieves a fresh value from the application-supplied source.
	// Concurrent calls for unrelated sessions are independent.
	FetchValue(ctx context.Context, userID string, userCtx UserContext) (any, error)

	// ValueFromPayload reads the claim's cached value from the payload.
	// It returns nil when the key is absent or tombstoned and
	// ErrMalformedPayload when the entry is not a {v, t} record.
	ValueFromPayload(payload Payload, userCtx UserContext) (any, error)

	// AddToPayload writes the {v, t} record for value with t = now, mutating
	// the payload in place and returning it for chaining.
	AddToPayload(payload Payload, value any, userCtx UserContext) Payload
}

// TimestampedClaim is a SessionClaim whose payload entry records the time of
// the last refetch, enabling freshness checks and the tombstone-vs-delete
// removal distinction. Freshness validators require this capability at
// compile time.
type TimestampedClaim interface {
	SessionClaim

	// LastRefetchTime returns the stored write time in milliseconds since
	// epoch. ok is false when the key is absent or tombstoned.
	LastRefetchTime(payload Payload, userCtx UserContext) (ts int64, ok bool, err error)

	// RemoveFromPayload deletes the key entirely. It returns ErrClaimMissing
	// when the key is not present.
	RemoveFromPayload(payload Payload, userCtx UserContext) (Payload, error)

	// RemoveFromPayloadByMerge sets the key to nil. Merge-patch updates use
	// the explicit nil to distinguish "delete" from "no change".
	RemoveFromPayloadByMerge(payload Payload, userCtx UserContext) Payload
}

// claimSettings holds constructor options shared by all claim kinds.
type claimSettings struct {
	fetch FetchValueFunc
	now   Clock
}

// ClaimOption configures a claim at construction time.
type ClaimOption func(*claimSettings)

// WithFetchValue supplies the function used to fetch a fresh claim value from
// its source of truth. Without it the claim fetches nil, which is useful for
// claims whose values are only ever written by the application directly.
func WithFetchValue(fn FetchValueFunc) ClaimOption {
	return func(s *claimSettings) {
		s.fetch = fn
	}
}

// WithClock overrides the time source used for payload timestamps and
// freshness checks. Intended for tests.
func WithClock(now Clock) ClaimOption {
	return func(s *claimSettings) {
		s.now = now
	}
}

func newClaimSettings(opts ...ClaimOption) claimSettings {
	s := claimSettings{
		now: time.Now,
		fetch: func(ctx context.Context, userID string, userCtx UserContext) (any, error) {
			return nil, nil
		},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
