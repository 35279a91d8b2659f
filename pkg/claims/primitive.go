package claims

import (
	"context"
	"fmt"
)

// PrimitiveClaim is a claim whose value is a JSON primitive (string, number,
// boolean or null), cached in the payload as a {v, t} record.
type PrimitiveClaim struct {
	key   string
	fetch FetchValueFunc
	now   Clock
}

// NewPrimitiveClaim creates a claim identified by key. Use WithFetchValue to
// wire the claim to its source of truth.
func NewPrimitiveClaim(key string, opts ...ClaimOption) *PrimitiveClaim {
	s := newClaimSettings(opts...)
	return &PrimitiveClaim{
		key:   key,
		fetch: s.fetch,
		now:   s.now,
	}
}

// Key returns the claim's payload key.
func (c *PrimitiveClaim) Key() string {
	return c.key
}

// FetchValue retrieves a fresh value via the configured fetch function.
func (c *PrimitiveClaim) FetchValue(ctx context.Context, userID string, userCtx UserContext) (any, error) {
	return c.fetch(ctx, userID, userCtx)
}

// ValueFromPayload returns the cached value, or nil when the key is absent or
// tombstoned.
func (c *PrimitiveClaim) ValueFromPayload(payload Payload, _ UserContext) (any, error) {
	v, _, ok, err := decodeEntry(payload, c.key)
	if err != nil || !ok {
		return nil, err
	}
	return v, nil
}

// LastRefetchTime returns the stored write time in milliseconds since epoch.
func (c *PrimitiveClaim) LastRefetchTime(payload Payload, _ UserContext) (int64, bool, error) {
	_, ts, ok, err := decodeEntry(payload, c.key)
	if err != nil || !ok {
		return 0, false, err
	}
	return ts, true, nil
}

// AddToPayload writes the {v, t} record with t = now. The payload is mutated
// in place and returned for chaining; a nil payload is allocated first.
func (c *PrimitiveClaim) AddToPayload(payload Payload, value any, _ UserContext) Payload {
	if payload == nil {
		payload = Payload{}
	}
	payload[c.key] = map[string]any{
		"v": value,
		"t": timestampMS(c.now()),
	}
	return payload
}

// RemoveFromPayloadByMerge tombstones the key by setting it to nil, which
// merge-patch session updates interpret as an explicit delete.
func (c *PrimitiveClaim) RemoveFromPayloadByMerge(payload Payload, _ UserContext) Payload {
	if payload == nil {
		payload = Payload{}
	}
	payload[c.key] = nil
	return payload
}

// RemoveFromPayload deletes the key entirely. Unlike the merge variant it
// requires the key to be present and returns ErrClaimMissing otherwise.
func (c *PrimitiveClaim) RemoveFromPayload(payload Payload, _ UserContext) (Payload, error) {
	if _, ok := payload[c.key]; !ok {
		return payload, fmt.Errorf("%w: %q", ErrClaimMissing, c.key)
	}
	delete(payload, c.key)
	return payload, nil
}

// Build fetches a fresh value and returns a payload fragment containing it,
// ready to be merged into the session payload by the refresh pipeline.
// An empty payload is returned when the source has no value for the user.
func (c *PrimitiveClaim) Build(ctx context.Context, userID string, userCtx UserContext) (Payload, error) {
	value, err := c.FetchValue(ctx, userID, userCtx)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return Payload{}, nil
	}
	return c.AddToPayload(Payload{}, value, userCtx), nil
}

// Validators returns the validator factory bound to this claim.
func (c *PrimitiveClaim) Validators() PrimitiveClaimValidators {
	return PrimitiveClaimValidators{claim: c, now: c.now}
}
