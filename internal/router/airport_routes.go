package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
)

// RegisterAirports wires airport endpoints plus the nested terminal
// and runway collections.
func RegisterAirports(e *echo.Echo, h *handler.AirportHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	read := e.Group("/v1", orPassthrough(cacheMW))
	read.GET("/airports", h.List)
	read.GET("/airports/code/:code", h.GetByCode)
	read.GET("/airports/:id", h.Get)
	read.GET("/airports/:id/terminals", h.ListTerminals)
	read.GET("/airports/:id/runways", h.ListRunways)

	write := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "AGENT"),
	)
	write.POST("/airports", h.Create)
	write.PUT("/airports/:id", h.Update)
	write.DELETE("/airports/:id", h.Delete)
	write.POST("/airports/:id/terminals", h.CreateTerminal)
	write.POST("/airports/:id/runways", h.CreateRunway)
}
