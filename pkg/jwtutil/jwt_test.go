package jwtutil_test

import (
	"testing"

	"voltwise-api/internal/model"
	"voltwise-api/pkg/config"
	"voltwise-api/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(key string, hours int) *jwtutil.Issuer {
	return jwtutil.NewIssuer(&config.JWTConfig{SigningKey: key, ExpirationHours: hours})
}

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	issuer := newIssuer("super-secret", 1)
	user := &model.User{ID: 42, Email: "a@x.com", SubscriptionTier: model.TierPro}

	token, err := issuer.Generate(user)
	require.NoError(t, err)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, model.TierPro, claims.Tier)
	require.NotNil(t, claims.ExpiresAt, "tokens must always carry an expiry")
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	issuer := newIssuer("super-secret", -1)
	token, err := issuer.Generate(&model.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, jwtutil.ErrTokenExpired)
}

func TestValidate_WrongKey(t *testing.T) {
	t.Parallel()

	token, err := newIssuer("right-key", 1).Generate(&model.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = newIssuer("wrong-key", 1).Validate(token)
	assert.ErrorIs(t, err, jwtutil.ErrTokenInvalid)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	issuer := newIssuer("super-secret", 1)

	for _, token := range []string{"", "not.a.jwt", "a.b"} {
		_, err := issuer.Validate(token)
		assert.ErrorIs(t, err, jwtutil.ErrTokenInvalid)
	}
}

func TestValidate_Tampered(t *testing.T) {
	t.Parallel()

	issuer := newIssuer("super-secret", 1)
	token, err := issuer.Generate(&model.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = issuer.Validate(token + "x")
	assert.ErrorIs(t, err, jwtutil.ErrTokenInvalid)
}
