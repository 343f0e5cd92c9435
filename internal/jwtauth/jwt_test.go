package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "givebridge/pkg/domain-errors"
)

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	svc := NewService("test-signing-key", "givebridge", "givebridge-api")

	token, err := svc.GenerateToken("org-123", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "org-123", claims.CallerID)
	assert.Equal(t, "givebridge", claims.Issuer)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-signing-key", "givebridge", "givebridge-api")

	token, err := svc.GenerateToken("org-123", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer := NewService("key-one", "givebridge", "givebridge-api")
	verifier := NewService("key-two", "givebridge", "givebridge-api")

	token, err := issuer.GenerateToken("org-123", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-signing-key", "givebridge", "givebridge-api")
	_, err := svc.Validate("not-a-token")
	require.Error(t, err)
}

func TestAdapterExposesCallerID(t *testing.T) {
	svc := NewService("test-signing-key", "givebridge", "givebridge-api")
	adapter := NewAdapter(svc)

	token, err := svc.GenerateToken("donor-9", time.Hour)
	require.NoError(t, err)

	claims, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "donor-9", claims.CallerID)
}
