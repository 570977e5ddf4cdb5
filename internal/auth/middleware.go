package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/sakif/nutrition-tracker/internal/model"
)

// CookieName is the name of the HttpOnly cookie carrying the session token.
const CookieName = "session"

// contextKey is unexported so no other package can read or overwrite the
// session stored under it.
type contextKey string

const sessionKey contextKey = "session"

// LoadSession is a middleware that decodes the session cookie into a
// model.Session and stores it in the request context.
//
// It never rejects a request. A missing, expired or forged cookie simply
// yields the anonymous session; the services decide which operations need an
// authenticated one.
func LoadSession(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := model.Anonymous()
			if cookie, err := r.Cookie(CookieName); err == nil {
				sess = tokens.Session(cookie.Value)
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext returns the request's session, or the anonymous
// session if none was stored.
func SessionFromContext(ctx context.Context) model.Session {
	sess, _ := ctx.Value(sessionKey).(model.Session)
	return sess
}

// SetSessionCookie stores a signed token in the session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
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
