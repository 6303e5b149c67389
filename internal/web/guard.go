package web

import (
	"errors"
	"net/http"

	"portal/internal/auth"
	"portal/internal/metrics"
	"portal/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// CookieClearer expires the session cookie
type CookieClearer interface {
	ClearSessionCookie(c *gin.Context)
}

// RequireSession serves the wrapped route only to clients with a live
// session; everyone else is redirected to /login. The decision is made on
// every request.
func RequireSession(svc auth.Service, cookies CookieClearer, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(auth.CookieName)
		if err != nil || sessionID == "" {
			m.Guard(false)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		sess, err := svc.Current(c.Request.Context(), sessionID)
		if err != nil {
			// A store outage keeps the cookie; the session may still be live
			if isSessionMissing(err) {
				cookies.ClearSessionCookie(c)
			} else {
				_ = c.Error(err)
			}
			m.Guard(false)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		m.Guard(true)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session stored by RequireSession
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

func isSessionMissing(err error) bool {
	return errors.Is(err, session.ErrSessionNotFound) ||
		errors.Is(err, session.ErrSessionExpired) ||
		errors.Is(err, session.ErrInvalidSession)
}
