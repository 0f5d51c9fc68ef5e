// Package router wires handlers to their routes.  The API splits into
// four surfaces: unauthenticated health and auth endpoints, public
// station browsing, the driver surface under /v1, and the operator
// surface under /v1/operator.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ev-charge-booking/internal/handler"
	"github.com/iliyamo/ev-charge-booking/internal/middleware"
	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints.  Register, login,
// refresh and logout live under /v1/auth and need no token; /v1/me
// requires a valid access token of either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleOperator, model.RoleDriver))
	auth.GET("/me", a.Me)
}
