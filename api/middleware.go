package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/warp/leavetrack/auth"
	"github.com/warp/leavetrack/leave"
)

type contextKey string

const actorContextKey contextKey = "actor"

// UserLookup resolves the subject of a session token.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*leave.User, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the caller as a leave.Actor in the request context. The user is
// reloaded on every request, so the actor carries the stored role and a
// deleted account is locked out even while its token is unexpired. What the
// actor may do is decided by the service, not here.
func Authenticate(tokens *auth.TokenIssuer, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				writeError(w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token", err)
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserID)
			if leave.IsNotFound(err) {
				writeError(w, http.StatusUnauthorized, "Account no longer exists", nil)
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to load account", err)
				return
			}

			actor := leave.Actor{UserID: user.ID, Role: user.Role}
			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// actorFrom returns the authenticated caller, or the zero Actor which every
// service check refuses.
func actorFrom(ctx context.Context) leave.Actor {
	actor, _ := ctx.Value(actorContextKey).(leave.Actor)
	return actor
}

// Latency delays each request by d, mimicking a remote backend in demos.
// A cancelled request stops waiting immediately.
func Latency(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				next.ServeHTTP(w, r)
			case <-r.Context().Done():
			}
		})
	}
}
