package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a missing identity
// id means the middleware did not run or the token was unusable.
func ctxIdentity(c echo.Context) (identityID, role string, err error) {
	identityID, _ = c.Get("identity_id").(string)
	if identityID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ = c.Get("role").(string)
	return identityID, role, nil
}
