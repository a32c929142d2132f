package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/secure-items-api/internal/api/metrics"
	"github.com/sirpyerre/secure-items-api/internal/api/middleware"
	"github.com/sirpyerre/secure-items-api/internal/core/domain"
	"github.com/sirpyerre/secure-items-api/internal/core/ports"
)

// CookieConfig describes the session cookie handed out on login.
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	userService ports.UserService
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, userService ports.UserService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService, cookie: cookie}
}

// Register creates a new user account. Requesting the ADMIN role requires an
// administrator session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  ports.UserOutput
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	roles, err := domain.ParseRoles(req.Roles)
	if err != nil {
		return err
	}
	if roles.Can(domain.CapManageUsers) {
		caller, ok := middleware.UserFrom(c)
		if !ok || !caller.Roles.Can(domain.CapManageUsers) {
			return domain.ErrForbidden
		}
	}

	ctx := c.Request().Context()

	// Friendly pre-checks; the unique indexes are what actually guarantee uniqueness.
	if exists, err := h.userService.UsernameExists(ctx, req.Username); err != nil {
		return err
	} else if exists {
		return domain.ErrUsernameExists
	}
	if exists, err := h.userService.EmailExists(ctx, req.Email); err != nil {
		return err
	} else if exists {
		return domain.ErrEmailExists
	}

	user, err := h.userService.Register(ctx, ports.UserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
		Roles:    roles,
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, h.userService.ToOutput(user))
}

// Login authenticates a user and starts a session carried by a cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthLoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.sessionCookie(session.ID, session.ExpiresAt))
	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    h.userService.ToOutput(user),
	})
}

// Logout ends the current session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Security     SessionCookie
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), middleware.SessionIDFrom(c)); err != nil {
		return err
	}

	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  ports.UserOutput
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.userService.ToOutput(user))
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
