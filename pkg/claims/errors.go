package claims

import "errors"

var (
	// ErrClaimMissing indicates a hard delete was requested for a key that is
	// not present in the payload
	ErrClaimMissing = errors.New("claims.claim_missing")

	// ErrMalformedPayload indicates a payload entry exists but does not match
	// the expected {v, t} record shape
	ErrMalformedPayload = errors.New("claims.malformed_payload")

	// ErrClaimValidationFailed indicates one or more claim validators rejected
	// the payload
	ErrClaimValidationFailed = errors.New("claims.validation_failed")
)
