package claims_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/claimkit/pkg/claims"
)

func TestArrayClaimValidators_Containment(t *testing.T) {
	ctx := context.Background()
	claim := claims.NewPrimitiveArrayClaim("st-perms")
	factory := claim.Validators()
	payload := claim.AddToPayload(claims.Payload{}, []any{"read", "write"}, nil)

	tests := []struct {
		name      string
		validator claims.SessionClaimValidator
		valid     bool
	}{
		{"includes present", factory.Includes("read"), true},
		{"includes missing", factory.Includes("delete"), false},
		{"excludes missing", factory.Excludes("delete"), true},
		{"excludes present", factory.Excludes("write"), false},
		{"includes all present", factory.IncludesAll([]any{"read", "write"}), true},
		{"includes all partial", factory.IncludesAll([]any{"read", "delete"}), false},
		{"includes any overlap", factory.IncludesAny([]any{"delete", "write"}), true},
		{"includes any disjoint", factory.IncludesAny([]any{"delete", "admin"}), false},
		{"excludes all disjoint", factory.ExcludesAll([]any{"delete", "admin"}), true},
		{"excludes all overlap", factory.ExcludesAll([]any{"delete", "write"}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.validator.Validate(ctx, payload, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.IsValid)
		})
	}
}

func TestArrayClaimValidators_FailureReasons(t *testing.T) {
	ctx := context.Background()
	claim := claims.NewPrimitiveArrayClaim("st-perms")
	factory := claim.Validators()
	payload := claim.AddToPayload(claims.Payload{}, []any{"read"}, nil)

	t.Run("includes names the missing value", func(t *testing.T) {
		result, err := factory.Includes("write").Validate(ctx, payload, nil)
		require.NoError(t, err)
		require.False(t, result.IsValid)
		assert.Equal(t, "wrong value", result.Reason.Message)
		assert.Equal(t, "write", result.Reason.ExpectedToInclude)
		assert.Equal(t, []any{"read"}, result.Reason.ActualValue)
	})

	t.Run("excludes names the forbidden value", func(t *testing.T) {
		result, err := factory.Excludes("read").Validate(ctx, payload, nil)
		require.NoError(t, err)
		require.False(t, result.IsValid)
		assert.Equal(t, "read", result.Reason.ExpectedToNotInclude)
	})

	t.Run("includes any lists the alternatives", func(t *testing.T) {
		result, err := factory.IncludesAny([]any{"write", "admin"}).Validate(ctx, payload, nil)
		require.NoError(t, err)
		require.False(t, result.IsValid)
		assert.Equal(t, []any{"write", "admin"}, result.Reason.ExpectedToIncludeAtLeastOne)
	})

	t.Run("excludes all lists the forbidden set", func(t *testing.T) {
		result, err := factory.ExcludesAll([]any{"read", "admin"}).Validate(ctx, payload, nil)
		require.NoError(t, err)
		require.False(t, result.IsValid)
		assert.Equal(t, []any{"read", "admin"}, result.Reason.ExpectedToNotIncludeAnyOf)
	})

	t.Run("absent value reports missing with the expectation", func(t *testing.T) {
		result, err := factory.Includes("read").Validate(ctx, claims.Payload{}, nil)
		require.NoError(t, err)
		require.False(t, result.IsValid)
		assert.Equal(t, "value does not exist", result.Reason.Message)
		assert.Equal(t, "read", result.Reason.ExpectedToInclude)
	})
}

func TestArrayClaimValidators_Freshness(t *testing.T) {
	ctx := context.Background()
	clock, advance := movableClock(time.Unix(1_700_000_000, 0))
	claim := claims.NewPrimitiveArrayClaim("st-perms", claims.WithClock(clock))
	validator := claim.Validators().Includes("read", claims.WithMaxAge(100))

	payload := claim.AddToPayload(claims.Payload{}, []any{"read"}, nil)

	refetch, err := validator.ShouldRefetch(payload, nil)
	require.NoError(t, err)
	assert.False(t, refetch)

	advance(150 * time.Second)

	refetch, err = validator.ShouldRefetch(payload, nil)
	require.NoError(t, err)
	assert.True(t, refetch)

	result, err := validator.Validate(ctx, payload, nil)
	require.NoError(t, err)
	require.False(t, result.IsValid)
	assert.Equal(t, "expired", result.Reason.Message)
	assert.InDelta(t, 150, result.Reason.AgeInSeconds, 0.001)
	assert.Equal(t, int64(100), result.Reason.MaxAgeInSeconds)
}

func TestArrayClaimValidators_NoMaxAgeNeverRefetchesPresentValue(t *testing.T) {
	clock, advance := movableClock(time.Unix(1_700_000_000, 0))
	claim := claims.NewPrimitiveArrayClaim("st-perms", claims.WithClock(clock))
	validator := claim.Validators().Includes("read")

	payload := claim.AddToPayload(claims.Payload{}, []any{"read"}, nil)
	advance(24 * time.Hour)

	refetch, err := validator.ShouldRefetch(payload, nil)
	require.NoError(t, err)
	assert.False(t, refetch)
}

func TestArrayClaimValidators_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	claim := claims.NewPrimitiveArrayClaim("st-codes")
	payload := claim.AddToPayload(claims.Payload{}, []any{1, 2, 3}, nil)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	var decoded claims.Payload
	require.NoError(t, json.Unmarshal(raw, &decoded))

	// Elements decode as float64; numeric membership still matches.
	result, err := claim.Validators().Includes(2).Validate(ctx, decoded, nil)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
}

func TestArrayClaimValidators_DefaultIDs(t *testing.T) {
	claim := claims.NewPrimitiveArrayClaim("st-perms")
	factory := claim.Validators()

	assert.Equal(t, "st-perms-includes", factory.Includes("read").ID())
	assert.Equal(t, "st-perms-excludes", factory.Excludes("read").ID())
	assert.Equal(t, "st-perms-includes-all", factory.IncludesAll([]any{"read"}).ID())
	assert.Equal(t, "st-perms-includes-any", factory.IncludesAny([]any{"read"}).ID())
	assert.Equal(t, "st-perms-excludes-all", factory.ExcludesAll([]any{"read"}).ID())
	assert.Equal(t, "custom", factory.Includes("read", claims.WithValidatorID("custom")).ID())
}

func TestArrayClaim_NonArrayValueIsMalformed(t *testing.T) {
	ctx := context.Background()
	claim := claims.NewPrimitiveArrayClaim("st-perms")
	payload := claims.Payload{"st-perms": map[string]any{"v": "not-an-array", "t": int64(1)}}

	_, err := claim.Validators().Includes("read").Validate(ctx, payload, nil)
	assert.ErrorIs(t, err, claims.ErrMalformedPayload)
}
