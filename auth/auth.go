/*
Package auth verifies passwords and issues session tokens.

PURPOSE:
  Replaces a mock sign-in with a real one: users log in with email and
  password, the bcrypt hash on the user record is checked, and a signed
  HS256 token carrying the user ID and role is returned. The HTTP layer
  reloads the user named by a valid token and builds the leave.Actor from
  the stored record; the role claim is informational.

TOKEN CLAIMS:
  user_id  leave.User.ID
  role     "admin" | "member"
  exp/iat  standard registered claims

SEE ALSO:
  - api/middleware.go: Bearer token extraction
  - leave/access.go: What an Actor may do
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/warp/leavetrack/leave"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password; callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned for malformed, expired or forged tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// =============================================================================
// PASSWORDS
// =============================================================================

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", &leave.ValidationError{Field: "password", Message: "password is required"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. An empty hash
// never matches.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// =============================================================================
// TOKENS
// =============================================================================

type Claims struct {
	UserID string     `json:"user_id"`
	Role   leave.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Issue returns a signed token for user and its expiry.
func (t *TokenIssuer) Issue(user *leave.User) (string, time.Time, error) {
	now := t.Now()
	expires := now.Add(t.TTL)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies a token and returns its claims.
func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.Secret, nil
	}, jwt.WithTimeFunc(t.Now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// =============================================================================
// LOGIN
// =============================================================================

// UserFinder is the slice of leave.Repository login needs.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*leave.User, error)
}

// Authenticator checks credentials and hands out tokens.
type Authenticator struct {
	Users  UserFinder
	Tokens *TokenIssuer
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *leave.User
}

// Login verifies email and password. The returned user has its password
// hash cleared.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.Users.GetUserByEmail(ctx, email)
	if leave.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := a.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return &Session{Token: token, ExpiresAt: expires, User: user}, nil
}
