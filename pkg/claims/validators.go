package claims

import (
	"context"
	"time"
)

// Failure messages shared by the concrete validators. The wording is part of
// the contract with session layers that branch on reason messages.
const (
	msgValueMissing = "value does not exist"
	msgExpired      = "expired"
	msgWrongValue   = "wrong value"
)

// validatorSettings holds options shared by all validator factory methods.
type validatorSettings struct {
	id     string
	maxAge *int64
}

// ValidatorOption configures a validator produced by a claim's factory.
type ValidatorOption func(*validatorSettings)

// WithValidatorID overrides the validator's default id. Distinct ids let
// several validators share one claim in the same validation run.
func WithValidatorID(id string) ValidatorOption {
	return func(s *validatorSettings) {
		s.id = id
	}
}

// WithMaxAge adds a freshness window in seconds to factory methods that
// support an optional one (boolean and array validators). Methods with an
// explicit max-age parameter ignore it.
func WithMaxAge(seconds int64) ValidatorOption {
	return func(s *validatorSettings) {
		s.maxAge = &seconds
	}
}

func newValidatorSettings(opts ...ValidatorOption) validatorSettings {
	var s validatorSettings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// HasValueValidator accepts a payload iff the claim's cached value exactly
// equals the expected primitive, with no freshness requirement.
type HasValueValidator struct {
	id       string
	claim    SessionClaim
	expected any
}

// NewHasValueValidator builds an exact-match validator bound to claim.
func NewHasValueValidator(id string, claim SessionClaim, expected any) *HasValueValidator {
	return &HasValueValidator{id: id, claim: claim, expected: expected}
}

// ID returns the validator's identifier.
func (v *HasValueValidator) ID() string {
	return v.id
}

// Claim returns the bound claim.
func (v *HasValueValidator) Claim() SessionClaim {
	return v.claim
}

// ShouldRefetch is true iff the claim has no cached value. Any present value,
// including false or 0, counts as cached.
func (v *HasValueValidator) ShouldRefetch(payload Payload, userCtx UserContext) (bool, error) {
	value, err := v.claim.ValueFromPayload(payload, userCtx)
	if err != nil {
		return false, err
	}
	return value == nil, nil
}

// Validate compares the cached value against the expected one with
// type-sensitive equality: "1" does not equal 1.
func (v *HasValueValidator) Validate(_ context.Context, payload Payload, userCtx UserContext) (ValidationResult, error) {
	value, err := v.claim.ValueFromPayload(payload, userCtx)
	if err != nil {
		return ValidationResult{}, err
	}
	if primitiveEquals(value, v.expected) {
		return valid(), nil
	}
	return invalid(FailureReason{
		Message:       msgWrongValue,
		ExpectedValue: v.expected,
		ActualValue:   value,
	}), nil
}

// HasFreshValueValidator accepts a payload iff the claim's cached value
// exactly equals the expected primitive and was written within the last
// MaxAgeSeconds. It requires a TimestampedClaim, which the compiler enforces.
type HasFreshValueValidator struct {
	id        string
	claim     TimestampedClaim
	expected  any
	maxAgeSec int64
	now       Clock
}

// NewHasFreshValueValidator builds an exact-match validator with a freshness
// window of maxAgeSec seconds.
func NewHasFreshValueValidator(id string, claim TimestampedClaim, expected any, maxAgeSec int64) *HasFreshValueValidator {
	return &HasFreshValueValidator{
		id:        id,
		claim:     claim,
		expected:  expected,
		maxAgeSec: maxAgeSec,
		now:       time.Now,
	}
}

// ID returns the validator's identifier.
func (v *HasFreshValueValidator) ID() string {
	return v.id
}

// Claim returns the bound claim.
func (v *HasFreshValueValidator) Claim() SessionClaim {
	return v.claim
}

// ShouldRefetch is true when the claim has no cached value or the stored
// write time is older than the freshness window.
//
// This check reads the raw payload record directly while Validate recomputes
// age through the claim's LastRefetchTime accessor. The two paths are kept
// separate so a claim kind can override the accessor without changing the
// cheap pre-fetch check.
func (v *HasFreshValueValidator) ShouldRefetch(payload Payload, userCtx UserContext) (bool, error) {
	value, err := v.claim.ValueFromPayload(payload, userCtx)
	if err != nil {
		return false, err
	}
	if value == nil {
		return true, nil
	}

	_, ts, ok, err := decodeEntry(payload, v.claim.Key())
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return ts < timestampMS(v.now())-v.maxAgeSec*1000, nil
}

// Validate checks existence, then freshness, then value equality, in that
// order: an expired claim is reported as expired even when its stale value
// matches the expectation.
func (v *HasFreshValueValidator) Validate(_ context.Context, payload Payload, userCtx UserContext) (ValidationResult, error) {
	value, err := v.claim.ValueFromPayload(payload, userCtx)
	if err != nil {
		return ValidationResult{}, err
	}
	if value == nil {
		return invalid(FailureReason{
			Message:       msgValueMissing,
			ExpectedValue: v.expected,
			ActualValue:   nil,
		}), nil
	}

	lastRefetch, ok, err := v.claim.LastRefetchTime(payload, userCtx)
	if err != nil {
		return ValidationResult{}, err
	}
	if !ok {
		lastRefetch = 0
	}

	ageInSec := float64(timestampMS(v.now())-lastRefetch) / 1000
	if ageInSec > float64(v.maxAgeSec) {
		return invalid(FailureReason{
			Message:         msgExpired,
			AgeInSeconds:    ageInSec,
			MaxAgeInSeconds: v.maxAgeSec,
		}), nil
	}

	if !primitiveEquals(value, v.expected) {
		return invalid(FailureReason{
			Message:       msgWrongValue,
			ExpectedValue: v.expected,
			ActualValue:   value,
		}), nil
	}

	return valid(), nil
}

// PrimitiveClaimValidators builds the standard validators for a primitive
// claim with sensible default ids. It is a pure factory: no shared mutable
// state beyond the claim reference.
type PrimitiveClaimValidators struct {
	claim TimestampedClaim
	now   Clock
}

// HasValue returns an exact-match validator. Default id is the claim's key.
func (f PrimitiveClaimValidators) HasValue(expected any, opts ...ValidatorOption) SessionClaimValidator {
	s := newValidatorSettings(opts...)
	id := s.id
	if id == "" {
		id = f.claim.Key()
	}
	return NewHasValueValidator(id, f.claim, expected)
}

// HasFreshValue returns an exact-match validator with a freshness window.
// Default id is the claim's key suffixed with "-fresh-val".
func (f PrimitiveClaimValidators) HasFreshValue(expected any, maxAgeSec int64, opts ...ValidatorOption) SessionClaimValidator {
	s := newValidatorSettings(opts...)
	id := s.id
	if id == "" {
		id = f.claim.Key() + "-fresh-val"
	}
	v := NewHasFreshValueValidator(id, f.claim, expected, maxAgeSec)
	if f.now != nil {
		v.now = f.now
	}
	return v
}
