// Package claims provides a typed, extensible framework for attaching
// verifiable assertions ("claims") to a session payload, validating them
// against application-defined rules and deciding when a cached claim value is
// stale enough to require a refetch from its source of truth.
//
// A claim is a named assertion about a user (role, email-verified flag,
// granted permissions, ...) cached inside the session's custom payload
// together with the time it was last fetched. Validators are rule objects
// bound to one claim: they tell the session layer whether the cached value
// must be refetched before it can be trusted, and whether the current value
// satisfies the application's expectation.
//
// The package owns no I/O. Fetching fresh values is delegated to an
// application-supplied FetchValueFunc, and payloads are caller-owned maps
// mutated in place. Signing, transport and persistence of the surrounding
// session are external concerns.
//
// # Architecture
//
//	┌─────────────┐  Validators()  ┌──────────────────────┐
//	│  Claim      │ ─────────────► │  Validator factory   │
//	│ (Primitive, │                └──────────────────────┘
//	│  Boolean,   │                        │ HasValue / HasFreshValue / ...
//	│  Array)     │                        ▼
//	└─────────────┘                ┌──────────────────────┐
//	   ▲  FetchValue               │ SessionClaimValidator │
//	   │  AddToPayload             └──────────────────────┘
//	   │                              │ ShouldRefetch / Validate
//	┌─────────────┐                   ▼
//	│   Payload   │ ◄──────── session layer drives the check loop
//	└─────────────┘
//
// # Payload encoding
//
// Inside the payload every claim key maps either to nil (a merge tombstone,
// meaning "delete" in merge-patch updates) or to a two-field record:
//
//	{"v": <JSON primitive or array>, "t": <milliseconds since epoch>}
//
// The field names "v" and "t" and the nil-tombstone convention are part of
// the wire contract with external session-refresh protocols and must not be
// changed.
//
// # Usage
//
//	roleClaim := claims.NewPrimitiveClaim("st-role",
//	    claims.WithFetchValue(func(ctx context.Context, userID string, _ claims.UserContext) (any, error) {
//	        return lookupRole(ctx, userID)
//	    }),
//	)
//
//	validator := roleClaim.Validators().HasFreshValue("admin", 300)
//
//	refetch, err := validator.ShouldRefetch(payload, nil)
//	if refetch {
//	    value, err := roleClaim.FetchValue(ctx, userID, nil)
//	    // ...
//	    roleClaim.AddToPayload(payload, value, nil)
//	}
//	result, err := validator.Validate(ctx, payload, nil)
//	if !result.IsValid {
//	    // result.Reason explains: value absent, expired, or wrong value
//	}
//
// Several validators can be checked in one pass:
//
//	failures, err := claims.ValidateAll(ctx, validators, payload, nil)
//
// # Concurrency
//
// Claims and validators are immutable after construction and safe for
// concurrent use across sessions. Payloads are caller-owned; if the embedding
// system shares one payload across concurrent validations the caller must
// serialize writes.
//
// # Error Handling
//
// Negative validation outcomes (value absent, expired, wrong value) are
// ValidationResult values, never errors. Errors are reserved for genuine
// faults: ErrMalformedPayload for corrupt entries, ErrClaimMissing for a hard
// delete of an absent key, and whatever the application's fetch function
// returns, propagated unchanged.
package claims
