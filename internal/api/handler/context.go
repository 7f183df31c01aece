package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlink/devlink-api/internal/api/middleware"
)

// ctxUserID extracts the authenticated user id injected by the Auth
// middleware. An empty id on a private route means the middleware did not
// run; fail fast with 401 instead of calling a service with no identity.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Token is not valid")
	}
	return id, nil
}
