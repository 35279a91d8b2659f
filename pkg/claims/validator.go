package claims

import (
	"context"
	"fmt"
	"strings"
)

// FailureReason describes why a validator rejected a payload. Message is
// always set; the remaining fields carry diagnostics that vary by failure
// kind (expected/actual value, age versus max age, containment expectations).
type FailureReason struct {
	Message         string  `json:"message"`
	ExpectedValue   any     `json:"expectedValue,omitempty"`
	ActualValue     any     `json:"actualValue,omitempty"`
	AgeInSeconds    float64 `json:"ageInSeconds,omitempty"`
	MaxAgeInSeconds int64   `json:"maxAgeInSeconds,omitempty"`

	// Containment diagnostics used by array-claim validators.
	ExpectedToInclude           any   `json:"expectedToInclude,omitempty"`
	ExpectedToNotInclude        any   `json:"expectedToNotInclude,omitempty"`
	ExpectedToIncludeAtLeastOne []any `json:"expectedToIncludeAtLeastOneOf,omitempty"`
	ExpectedToNotIncludeAnyOf   []any `json:"expectedToNotIncludeAnyOf,omitempty"`
}

// ValidationResult is a validator's verdict. Negative outcomes are values,
// not errors: callers branch on IsValid and inspect Reason.
type ValidationResult struct {
	IsValid bool           `json:"isValid"`
	Reason  *FailureReason `json:"reason,omitempty"`
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(reason FailureReason) ValidationResult {
	return ValidationResult{IsValid: false, Reason: &reason}
}

// SessionClaimValidator is a rule bound to one claim. Many validators may
// reference the same claim under distinct ids.
type SessionClaimValidator interface {
	// ID identifies this validator instance, e.g. in validation failures.
	ID() string

	// Claim returns the claim this validator is bound to.
	Claim() SessionClaim

	// ShouldRefetch reports whether the session layer must refetch the
	// claim's value before trusting Validate. It must be conservative:
	// answering "fresh" for a stale value is a correctness bug, an extra
	// refetch only a performance cost. The error carries malformed-payload
	// decode failures only.
	ShouldRefetch(payload Payload, userCtx UserContext) (bool, error)

	// Validate checks the cached value. It is total over well-formed
	// payloads: absent, expired and mismatched values are ValidationResult
	// outcomes, never errors. The context allows future validator kinds to
	// perform I/O; the validators in this package never do.
	Validate(ctx context.Context, payload Payload, userCtx UserContext) (ValidationResult, error)
}

// ClaimValidationError records one failed validator in a multi-validator run.
type ClaimValidationError struct {
	ID     string         `json:"id"`
	Reason *FailureReason `json:"reason,omitempty"`
}

// ValidateAll runs every validator against the payload and collects the
// failures. A non-nil error aborts the run and reports a malformed payload
// or a validator fault, not a negative verdict.
func ValidateAll(ctx context.Context, validators []SessionClaimValidator, payload Payload, userCtx UserContext) ([]ClaimValidationError, error) {
	var failures []ClaimValidationError
	for _, v := range validators {
		result, err := v.Validate(ctx, payload, userCtx)
		if err != nil {
			return nil, fmt.Errorf("validator %q: %w", v.ID(), err)
		}
		if !result.IsValid {
			failures = append(failures, ClaimValidationError{ID: v.ID(), Reason: result.Reason})
		}
	}
	return failures, nil
}

// AssertClaims runs every validator and converts failures into a single
// error wrapping ErrClaimValidationFailed. The typed *ClaimValidationFailure
// carries the individual failures for callers that need them.
func AssertClaims(ctx context.Context, validators []SessionClaimValidator, payload Payload, userCtx UserContext) error {
	failures, err := ValidateAll(ctx, validators, payload, userCtx)
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		return nil
	}
	return &ClaimValidationFailure{Failures: failures}
}

// ClaimValidationFailure is the error returned by AssertClaims when one or
// more validators reject the payload. It unwraps to ErrClaimValidationFailed.
type ClaimValidationFailure struct {
	Failures []ClaimValidationError
}

func (e *ClaimValidationFailure) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ID
	}
	return fmt.Sprintf("%s: %s", ErrClaimValidationFailed, strings.Join(ids, ", "))
}

func (e *ClaimValidationFailure) Unwrap() error {
	return ErrClaimValidationFailed
}
