package security

import (
	"testing"
	"time"

	"rentdesk-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, "https://auth.example.com", "authenticated")
	p := domain.Principal{UserID: uuid.New(), Email: "owner@example.com"}

	token, err := m.IssueAccessToken(p, time.Hour)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)

	got, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager(testSecret, "https://auth.example.com", "authenticated")
	p := domain.Principal{UserID: uuid.New()}

	t.Run("Expired", func(t *testing.T) {
		token, err := m.IssueAccessToken(p, -time.Minute)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", "https://auth.example.com", "authenticated")
		token, err := other.IssueAccessToken(p, time.Hour)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong Audience", func(t *testing.T) {
		other := NewTokenManager(testSecret, "https://auth.example.com", "service_role")
		token, err := other.IssueAccessToken(p, time.Hour)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong Issuer", func(t *testing.T) {
		other := NewTokenManager(testSecret, "https://evil.example.com", "authenticated")
		token, err := other.IssueAccessToken(p, time.Hour)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Unsigned", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   p.UserID.String(),
				Audience:  jwt.ClaimStrings{"authenticated"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.ValidateToken(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestUserClaims_Principal(t *testing.T) {
	c := &UserClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}}
	_, err := c.Principal()
	assert.ErrorIs(t, err, ErrInvalidToken)
}
