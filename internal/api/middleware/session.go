package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/secure-items-api/internal/api/metrics"
	"github.com/sirpyerre/secure-items-api/internal/core/domain"
)

const (
	userKey      = "user"
	sessionIDKey = "session_id"
)

// Authenticator resolves a session id to the user behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*domain.User, error)
}

// Session resolves the session cookie and injects the user into context.
// Requests without a valid session are rejected with 401.
func Session(auth Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				metrics.SessionsRejectedTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			}

			user, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.SessionsRejectedTotal.WithLabelValues("unknown").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
				}
				metrics.SessionsRejectedTotal.WithLabelValues("error").Inc()
				return err
			}

			c.Set(userKey, user)
			c.Set(sessionIDKey, cookie.Value)
			return next(c)
		}
	}
}

// OptionalSession injects the user when a valid session cookie is present and
// lets every request through otherwise.
func OptionalSession(auth Authenticator, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err == nil && cookie.Value != "" {
				if user, err := auth.Authenticate(c.Request().Context(), cookie.Value); err == nil {
					c.Set(userKey, user)
					c.Set(sessionIDKey, cookie.Value)
				}
			}
			return next(c)
		}
	}
}

// UserFrom returns the user injected by Session or OptionalSession.
func UserFrom(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userKey).(*domain.User)
	return user, ok && user != nil
}

// SessionIDFrom returns the id of the session that authenticated the request.
func SessionIDFrom(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}
