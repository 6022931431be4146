package utils

import (
	"testing"

	"skillnexis/backend/config"
	"skillnexis/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}

	token, err := GenerateJWTToken(SessionClaims{SessionID: "s1", UserID: "u1", Role: models.RoleAdmin}, cfg)
	require.NoError(t, err)

	claims, err := ParseJWTToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.SessionID)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	token, err := GenerateJWTToken(SessionClaims{SessionID: "s1", UserID: "u1"}, &config.Config{JWTSecret: "one"})
	require.NoError(t, err)

	_, err = ParseJWTToken(token, &config.Config{JWTSecret: "two"})
	assert.Error(t, err)
}

func TestJWTRejectsMissingSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: "testsecret"}
	token, err := GenerateJWTToken(SessionClaims{UserID: "u1"}, cfg)
	require.NoError(t, err)

	_, err = ParseJWTToken(token, cfg)
	assert.Error(t, err)
}
