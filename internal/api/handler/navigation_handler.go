package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobox/jobox-api/internal/api/metrics"
	"github.com/jobox/jobox-api/internal/core/domain"
	"github.com/jobox/jobox-api/internal/core/ports"
	"github.com/jobox/jobox-api/internal/core/service"
	"github.com/jobox/jobox-api/internal/routes"
)

// NavigationHandler serves the shell's navigation menu and route access
// decisions, both derived from the caller's current session.
type NavigationHandler struct {
	sessions ports.SessionService
	policy   *service.AccessPolicy
	composer *service.NavigationComposer
	registry *routes.Registry
}

func NewNavigationHandler(sessions ports.SessionService, policy *service.AccessPolicy, composer *service.NavigationComposer, registry *routes.Registry) *NavigationHandler {
	return &NavigationHandler{
		sessions: sessions,
		policy:   policy,
		composer: composer,
		registry: registry,
	}
}

// Menu returns the ordered navigation entries for the caller's role.
//
// @Summary      Navigation menu
// @Tags         navigation
// @Produce      json
// @Success      200  {object}  navigationResponse
// @Failure      401  {object}  errorResponse
// @Router       /navigation [get]
func (h *NavigationHandler) Menu(c echo.Context) error {
	identityID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	session := h.sessions.Session(c.Request().Context(), identityID)
	entries := h.composer.Compose(session)
	if entries == nil {
		entries = []service.NavigationEntry{}
	}
	return c.JSON(http.StatusOK, navigationResponse{Entries: entries})
}

// Decision evaluates the access policy for a concrete path against the
// caller's session. Unauthenticated callers are evaluated as anonymous;
// this endpoint deliberately carries no auth requirement of its own.
//
// @Summary      Route access decision
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  true  "Concrete route path, e.g. /messages"
// @Success      200   {object}  decisionResponse
// @Failure      400   {object}  errorResponse
// @Router       /routes/decision [get]
func (h *NavigationHandler) Decision(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "path query parameter is required"})
	}

	route, _ := h.registry.Match(path)

	session := domain.Session{State: domain.StateAnonymous}
	if identityID, _ := c.Get("identity_id").(string); identityID != "" {
		session = h.sessions.Session(c.Request().Context(), identityID)
	}

	decision := h.policy.Evaluate(route, session)
	metrics.RouteDecisionsTotal.WithLabelValues(string(decision.Kind)).Inc()

	return c.JSON(http.StatusOK, decisionResponse{Route: route.Name, Decision: decision})
}
