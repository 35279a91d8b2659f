package claimsource

import (
	"context"
	"errors"

	"github.com/dmitrymomot/claimkit/pkg/claims"
)

// Source is a backend holding the authoritative value of claims per user.
// Implementations must be safe for concurrent use.
type Source interface {
	// Get returns the stored value for (claimKey, userID) or ErrNotFound.
	Get(ctx context.Context, claimKey, userID string) (any, error)

	// Set stores the value for (claimKey, userID), overwriting any previous one.
	Set(ctx context.Context, claimKey, userID string, value any) error

	// Delete removes the value for (claimKey, userID). Deleting an absent
	// value is a no-op.
	Delete(ctx context.Context, claimKey, userID string) error
}

// Fetcher adapts a Source lookup for one claim key into the fetch function
// the claims framework expects. ErrNotFound becomes a nil value, so "user has
// no value" is distinct from a backend failure, which propagates unchanged.
func Fetcher(src Source, claimKey string) claims.FetchValueFunc {
	return func(ctx context.Context, userID string, _ claims.UserContext) (any, error) {
		value, err := src.Get(ctx, claimKey, userID)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return value, nil
	}
}

// validateKey guards backend operations against empty identifiers that would
// otherwise collide in composite storage keys.
func validateKey(claimKey, userID string) error {
	if claimKey == "" || userID == "" {
		return ErrInvalidKey
	}
	return nil
}
