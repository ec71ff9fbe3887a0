package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leavetrack/auth"
	"github.com/warp/leavetrack/leave"
	"github.com/warp/leavetrack/leave/store"
)

var issuedAt = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newIssuer(secret string) *auth.TokenIssuer {
	tokens := auth.NewTokenIssuer(secret, time.Hour)
	tokens.Now = func() time.Time { return issuedAt }
	return tokens
}

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, auth.CheckPassword(hash, "s3cret"))
	assert.False(t, auth.CheckPassword(hash, "S3cret"))
	assert.False(t, auth.CheckPassword("", "s3cret"))

	_, err = auth.HashPassword("")
	assert.ErrorIs(t, err, leave.ErrValidation)
}

func TestToken_IssueAndParse(t *testing.T) {
	tokens := newIssuer("secret")
	user := &leave.User{ID: "u1", Role: leave.RoleAdmin}

	token, expires, err := tokens.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), expires)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, leave.RoleAdmin, claims.Role)
	assert.Equal(t, "u1", claims.Subject)
}

func TestToken_Rejected(t *testing.T) {
	tokens := newIssuer("secret")
	token, _, err := tokens.Issue(&leave.User{ID: "u1", Role: leave.RoleMember})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newIssuer("secret")
		later.Now = func() time.Time { return issuedAt.Add(2 * time.Hour) }

		_, err := later.Parse(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := newIssuer("other").Parse(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := tokens.Parse("  ")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := &auth.Claims{UserID: "u1", Role: leave.RoleAdmin}
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Parse(none)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		claims := &auth.Claims{
			UserID: "u1",
			Role:   "owner",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = tokens.Parse(forged)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestAuthenticator_Login(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory(leave.DefaultSettings())
	hash, err := auth.HashPassword("password")
	require.NoError(t, err)
	require.NoError(t, repo.SaveUser(ctx, leave.User{
		ID: "u1", FirstName: "Maria", LastName: "Garcia", Email: "maria@example.com",
		Role: leave.RoleAdmin, PasswordHash: hash,
	}))
	require.NoError(t, repo.SaveUser(ctx, leave.User{
		ID: "u2", FirstName: "No", LastName: "Password", Email: "nopass@example.com", Role: leave.RoleMember,
	}))

	authn := &auth.Authenticator{Users: repo, Tokens: newIssuer("secret")}

	// GIVEN: Correct credentials, with the email typed differently
	session, err := authn.Login(ctx, " Maria@Example.com ", "password")

	// THEN: A session for the user without its hash
	require.NoError(t, err)
	assert.Equal(t, "u1", session.User.ID)
	assert.Empty(t, session.User.PasswordHash)
	assert.Equal(t, issuedAt.Add(time.Hour), session.ExpiresAt)

	claims, err := authn.Tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, leave.RoleAdmin, claims.Role)

	stored, err := repo.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, hash, stored.PasswordHash, "stored hash is untouched")

	// Failures are indistinguishable
	for _, tc := range []struct{ email, password string }{
		{"maria@example.com", "wrong"},
		{"nobody@example.com", "password"},
		{"nopass@example.com", ""},
		{"nopass@example.com", "anything"},
		{"", "password"},
	} {
		_, err := authn.Login(ctx, tc.email, tc.password)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "email %q", tc.email)
	}
}
