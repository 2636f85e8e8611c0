package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prettystyles/booking-api/internal/model"
)

func testService() JWTService {
	return NewJWTService(JWTConfig{
		Secret:             "access-secret",
		RefreshSecret:      "refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
}

func testUser() *model.User {
	return &model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "ada@example.com",
	}
}

func TestAccessTokenRoundtrip(t *testing.T) {
	svc := testService()
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestRefreshTokenRoundtrip(t *testing.T) {
	svc := testService()
	user := testUser()

	token, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestTokenSecretsAreDistinct(t *testing.T) {
	svc := testService()
	user := testUser()

	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(refresh)
	assert.Error(t, err, "refresh token must not pass as an access token")

	access, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	expired := NewJWTService(JWTConfig{
		Secret:      "access-secret",
		ExpiryHours: -1,
	})

	token, err := expired.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = expired.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := testService()

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
