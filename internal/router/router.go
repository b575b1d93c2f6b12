// Package router wires HTTP routes for each back-office service.
// Read endpoints are open so that sibling services can run their
// existence checks without credentials; every write requires a JWT
// with an ADMIN or AGENT role.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
)

// passthrough is used where an optional middleware was not supplied.
func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error { return next(c) }
}

// orPassthrough guards optional middleware slots.
func orPassthrough(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	if mw == nil {
		return passthrough
	}
	return mw
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register,
// login and refresh live under /v1/auth without a session; /v1/me
// requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout authenticates via the body's refresh token or the
	// Authorization header itself, so no middleware here.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "AGENT"),
	)
	auth.GET("/me", a.Me)
}
