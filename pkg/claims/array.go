package claims

import (
	"context"
	"fmt"
	"time"
)

// PrimitiveArrayClaim is a claim whose value is a JSON array of primitives
// (e.g. granted permissions), cached under the same {v, t} envelope as a
// primitive claim.
type PrimitiveArrayClaim struct {
	*PrimitiveClaim
}

// NewPrimitiveArrayClaim creates an array claim identified by key.
func NewPrimitiveArrayClaim(key string, opts ...ClaimOption) *PrimitiveArrayClaim {
	return &PrimitiveArrayClaim{PrimitiveClaim: NewPrimitiveClaim(key, opts...)}
}

// Validators returns the containment validator factory bound to this claim.
func (c *PrimitiveArrayClaim) Validators() PrimitiveArrayClaimValidators {
	return PrimitiveArrayClaimValidators{claim: c.PrimitiveClaim, now: c.now}
}

// containmentMode selects the membership rule an array validator applies.
type containmentMode int

const (
	modeIncludes containmentMode = iota
	modeExcludes
	modeIncludesAll
	modeIncludesAny
	modeExcludesAll
)

// ArrayClaimValidator checks membership of the expected value(s) in the
// claim's cached array, optionally gated by a freshness window.
type ArrayClaimValidator struct {
	id       string
	claim    TimestampedClaim
	mode     containmentMode
	expected []any
	maxAge   *int64
	now      Clock
}

// ID returns the validator's identifier.
func (v *ArrayClaimValidator) ID() string {
	return v.id
}

// Claim returns the bound claim.
func (v *ArrayClaimValidator) Claim() SessionClaim {
	return v.claim
}

// ShouldRefetch is true when the claim has no cached value or, if a max age
// is configured, when the stored write time is older than the window.
func (v *ArrayClaimValidator) ShouldRefetch(payload Payload, userCtx UserContext) (bool, error) {
	value, err := v.claim.ValueFromPayload(payload, userCtx)
	if err != nil {
		return false, err
	}
	if value == nil {
		return true, nil
	}
	if v.maxAge == nil {
		return false, nil
	}

	_, ts, ok, err := decodeEntry(payload, v.claim.Key())
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return ts < timestampMS(v.now())-*v.maxAge*1000, nil
}

// Validate checks existence, then freshness (when configured), then the
// containment rule, in that order.
func (v *ArrayClaimValidator) Validate(_ context.Context, payload Payload, userCtx UserContext) (ValidationResult, error) {
	value, err := v.claim.ValueFromPayload(payload, userCtx)
	if err != nil {
		return ValidationResult{}, err
	}
	if value == nil {
		reason := FailureReason{Message: msgValueMissing, ActualValue: nil}
		v.setExpectation(&reason)
		return invalid(reason), nil
	}

	items, ok := value.([]any)
	if !ok {
		return ValidationResult{}, fmt.Errorf("%w: entry %q does not hold an array value", ErrMalformedPayload, v.claim.Key())
	}

	if v.maxAge != nil {
		lastRefetch, ok, err := v.claim.LastRefetchTime(payload, userCtx)
		if err != nil {
			return ValidationResult{}, err
		}
		if !ok {
			lastRefetch = 0
		}
		ageInSec := float64(timestampMS(v.now())-lastRefetch) / 1000
		if ageInSec > float64(*v.maxAge) {
			return invalid(FailureReason{
				Message:         msgExpired,
				AgeInSeconds:    ageInSec,
				MaxAgeInSeconds: *v.maxAge,
			}), nil
		}
	}

	if v.holds(items) {
		return valid(), nil
	}

	reason := FailureReason{Message: msgWrongValue, ActualValue: items}
	v.setExpectation(&reason)
	return invalid(reason), nil
}

// holds applies the containment rule to the cached array.
func (v *ArrayClaimValidator) holds(items []any) bool {
	switch v.mode {
	case modeIncludes:
		return contains(items, v.expected[0])
	case modeExcludes:
		return !contains(items, v.expected[0])
	case modeIncludesAll:
		for _, want := range v.expected {
			if !contains(items, want) {
				return false
			}
		}
		return true
	case modeIncludesAny:
		for _, want := range v.expected {
			if contains(items, want) {
				return true
			}
		}
		return false
	case modeExcludesAll:
		for _, want := range v.expected {
			if contains(items, want) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// setExpectation fills the mode-specific expectation field of a reason.
func (v *ArrayClaimValidator) setExpectation(reason *FailureReason) {
	switch v.mode {
	case modeIncludes:
		reason.ExpectedToInclude = v.expected[0]
	case modeExcludes:
		reason.ExpectedToNotInclude = v.expected[0]
	case modeIncludesAll:
		reason.ExpectedToInclude = v.expected
	case modeIncludesAny:
		reason.ExpectedToIncludeAtLeastOne = v.expected
	case modeExcludesAll:
		reason.ExpectedToNotIncludeAnyOf = v.expected
	}
}

func contains(items []any, want any) bool {
	for _, item := range items {
		if primitiveEquals(item, want) {
			return true
		}
	}
	return false
}

// PrimitiveArrayClaimValidators builds containment validators for an array
// claim. Every method accepts WithValidatorID and WithMaxAge options; the
// default ids carry a per-rule suffix so the rules can be combined in one
// validation run without id collisions.
type PrimitiveArrayClaimValidators struct {
	claim TimestampedClaim
	now   Clock
}

// Includes requires the cached array to contain expected.
func (f PrimitiveArrayClaimValidators) Includes(expected any, opts ...ValidatorOption) SessionClaimValidator {
	return f.build(modeIncludes, "-includes", []any{expected}, opts)
}

// Excludes requires the cached array to not contain expected.
func (f PrimitiveArrayClaimValidators) Excludes(expected any, opts ...ValidatorOption) SessionClaimValidator {
	return f.build(modeExcludes, "-excludes", []any{expected}, opts)
}

// IncludesAll requires the cached array to contain every expected value.
func (f PrimitiveArrayClaimValidators) IncludesAll(expected []any, opts ...ValidatorOption) SessionClaimValidator {
	return f.build(modeIncludesAll, "-includes-all", expected, opts)
}

// IncludesAny requires the cached array to contain at least one expected value.
func (f PrimitiveArrayClaimValidators) IncludesAny(expected []any, opts ...ValidatorOption) SessionClaimValidator {
	return f.build(modeIncludesAny, "-includes-any", expected, opts)
}

// ExcludesAll requires the cached array to contain none of the expected values.
func (f PrimitiveArrayClaimValidators) ExcludesAll(expected []any, opts ...ValidatorOption) SessionClaimValidator {
	return f.build(modeExcludesAll, "-excludes-all", expected, opts)
}

func (f PrimitiveArrayClaimValidators) build(mode containmentMode, suffix string, expected []any, opts []ValidatorOption) SessionClaimValidator {
	s := newValidatorSettings(opts...)
	id := s.id
	if id == "" {
		id = f.claim.Key() + suffix
	}
	now := f.now
	if now == nil {
		now = time.Now
	}
	return &ArrayClaimValidator{
		id:       id,
		claim:    f.claim,
		mode:     mode,
		expected: expected,
		maxAge:   s.maxAge,
		now:      now,
	}
}
