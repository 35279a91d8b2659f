package claims_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/claimkit/pkg/claims"
)

func TestBooleanClaimValidators_IsTrue(t *testing.T) {
	ctx := context.Background()
	claim := claims.NewBooleanClaim("st-ev")
	validator := claim.Validators().IsTrue()

	t.Run("true value passes", func(t *testing.T) {
		payload := claim.AddToPayload(claims.Payload{}, true, nil)

		result, err := validator.Validate(ctx, payload, nil)
		require.NoError(t, err)
		assert.True(t, result.IsValid)
	})

	t.Run("false value fails", func(t *testing.T) {
		payload := claim.AddToPayload(claims.Payload{}, false, nil)

		result, err := validator.Validate(ctx, payload, nil)
		require.NoError(t, err)
		require.False(t, result.IsValid)
		assert.Equal(t, "wrong value", result.Reason.Message)
		assert.Equal(t, true, result.Reason.ExpectedValue)
		assert.Equal(t, false, result.Reason.ActualValue)
	})
}

func TestBooleanClaimValidators_IsFalse(t *testing.T) {
	ctx := context.Background()
	claim := claims.NewBooleanClaim("st-mfa")
	payload := claim.AddToPayload(claims.Payload{}, false, nil)

	result, err := claim.Validators().IsFalse().Validate(ctx, payload, nil)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestBooleanClaimValidators_WithMaxAge(t *testing.T) {
	ctx := context.Background()
	clock, advance := movableClock(time.Unix(1_700_000_000, 0))
	claim := claims.NewBooleanClaim("st-ev", claims.WithClock(clock))
	validator := claim.Validators().IsTrue(claims.WithMaxAge(100))

	payload := claim.AddToPayload(claims.Payload{}, true, nil)

	result, err := validator.Validate(ctx, payload, nil)
	require.NoError(t, err)
	assert.True(t, result.IsValid)

	advance(150 * time.Second)

	result, err = validator.Validate(ctx, payload, nil)
	require.NoError(t, err)
	require.False(t, result.IsValid)
	assert.Equal(t, "expired", result.Reason.Message)

	refetch, err := validator.ShouldRefetch(payload, nil)
	require.NoError(t, err)
	assert.True(t, refetch)
}

func TestBooleanClaimValidators_IDs(t *testing.T) {
	claim := claims.NewBooleanClaim("st-ev")
	factory := claim.Validators()

	assert.Equal(t, "st-ev", factory.IsTrue().ID())
	assert.Equal(t, "st-ev-fresh-val", factory.IsTrue(claims.WithMaxAge(60)).ID())
	assert.Equal(t, "mfa-check", factory.IsFalse(claims.WithValidatorID("mfa-check")).ID())
}
