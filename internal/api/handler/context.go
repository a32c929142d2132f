package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/secure-items-api/internal/api/middleware"
	"github.com/sirpyerre/secure-items-api/internal/core/domain"
)

// currentUser returns the acting user injected by the session middleware.
// Its absence means the route was wired without the middleware; reject with
// 401 rather than act anonymously.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	}
	return user, nil
}
