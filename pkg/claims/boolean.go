package claims

// BooleanClaim is a PrimitiveClaim specialized to boolean values, e.g. an
// email-verified or MFA-completed flag.
type BooleanClaim struct {
	*PrimitiveClaim
}

// NewBooleanClaim creates a boolean claim identified by key.
func NewBooleanClaim(key string, opts ...ClaimOption) *BooleanClaim {
	return &BooleanClaim{PrimitiveClaim: NewPrimitiveClaim(key, opts...)}
}

// Validators returns the boolean validator factory bound to this claim.
func (c *BooleanClaim) Validators() BooleanClaimValidators {
	return BooleanClaimValidators{PrimitiveClaimValidators: c.PrimitiveClaim.Validators()}
}

// BooleanClaimValidators extends the primitive validator factory with
// shorthands for the two boolean expectations.
type BooleanClaimValidators struct {
	PrimitiveClaimValidators
}

// IsTrue returns a validator requiring the claim value to be true.
// WithMaxAge upgrades it to the freshness-checking variant.
func (f BooleanClaimValidators) IsTrue(opts ...ValidatorOption) SessionClaimValidator {
	return f.hasBoolValue(true, opts...)
}

// IsFalse returns a validator requiring the claim value to be false.
// WithMaxAge upgrades it to the freshness-checking variant.
func (f BooleanClaimValidators) IsFalse(opts ...ValidatorOption) SessionClaimValidator {
	return f.hasBoolValue(false, opts...)
}

func (f BooleanClaimValidators) hasBoolValue(expected bool, opts ...ValidatorOption) SessionClaimValidator {
	s := newValidatorSettings(opts...)
	if s.maxAge != nil {
		return f.HasFreshValue(expected, *s.maxAge, opts...)
	}
	return f.HasValue(expected, opts...)
}
