package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/sakif/campus-connect/internal/model"
)

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// SessionSource reports the repository's current user.
// *repository.Repository satisfies it.
type SessionSource interface {
	CurrentUser() (*model.User, bool)
}

// contextKey keeps our context values out of reach of other packages.
type contextKey string

const userKey contextKey = "user"

const unauthorizedBody = `{"error":"no_active_session","message":"no user is logged in"}`

// RequireSession rejects requests when nobody is logged in.
//
// With a non-nil tokens, the request must also carry a valid token cookie
// whose subject is the current user's id. With tokens == nil the
// repository session alone decides.
//
// On success the current user is stored in the request context; read it
// with UserFromContext.
func RequireSession(sessions SessionSource, tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := sessions.CurrentUser()
			if !ok {
				unauthorized(w)
				return
			}

			if tokens != nil {
				subject, err := subjectFromCookie(r, tokens)
				if err != nil || subject != u.ID {
					unauthorized(w)
					return
				}
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user stored by RequireSession.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// SetSessionCookie issues a token for userID and writes it as an HttpOnly
// cookie. It does nothing when tokens is nil.
func SetSessionCookie(w http.ResponseWriter, tokens *TokenService, userID string) error {
	if tokens == nil {
		return nil
	}
	token, err := tokens.Issue(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokens.TTL() / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSessionCookie expires the token cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func subjectFromCookie(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(unauthorizedBody))
}
