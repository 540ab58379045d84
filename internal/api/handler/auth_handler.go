package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobox/jobox-api/internal/api/metrics"
	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionService
	tokens   *TokenIssuer
}

func NewAuthHandler(sessions ports.SessionService, tokens *TokenIssuer) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens}
}

// Login authenticates credentials and returns a bearer token plus the
// resolved identity.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	identity, err := h.sessions.Login(c.Request().Context(), req.Email, req.Secret)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	token, err := h.tokens.Issue(identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, Identity: identity})
}

// Signup registers a new identity and authenticates it.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	identity, err := h.sessions.Signup(c.Request().Context(), ports.RegistrationInput{
		Email:       req.Email,
		Secret:      req.Secret,
		Name:        req.Name,
		Role:        domain.Role(req.Role),
		Title:       req.Title,
		Location:    req.Location,
		Experience:  req.Experience,
		Skills:      req.Skills,
		CompanyName: req.CompanyName,
		CompanySize: req.CompanySize,
		Industry:    req.Industry,
	})
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(req.Role, "failure").Inc()
		return err
	}
	metrics.SignupsTotal.WithLabelValues(req.Role, "success").Inc()

	token, err := h.tokens.Issue(identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, authResponse{Token: token, Identity: identity})
}

// Logout clears the caller's session. Idempotent: logging out twice is
// safe and both calls succeed.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identityID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	h.sessions.Logout(c.Request().Context(), identityID)
	return c.NoContent(http.StatusNoContent)
}

// Session returns the caller's current session snapshot, restoring it from
// the persisted record when the process has not seen this client yet.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	identityID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	session := h.sessions.Session(c.Request().Context(), identityID)
	return c.JSON(http.StatusOK, sessionResponse{State: session.State, Identity: session.Identity})
}

// UpdateProfile merges a partial role-specific payload into the caller's
// identity.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      profileUpdateRequest  true  "Partial profile fields"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/profile [patch]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	identityID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	identity, err := h.sessions.UpdateProfile(c.Request().Context(), identityID, req.toDomain())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Identity: identity})
}
