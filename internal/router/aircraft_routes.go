package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
)

// RegisterAircraft wires the fleet registry endpoints.
func RegisterAircraft(e *echo.Echo, h *handler.AircraftHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	read := e.Group("/v1", orPassthrough(cacheMW))
	read.GET("/aircraft", h.List)
	read.GET("/aircraft/tail/:tail", h.GetByTailNumber)
	read.GET("/aircraft/status/:status", h.ListByStatus)
	read.GET("/aircraft/:id", h.Get)

	write := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "AGENT"),
	)
	write.POST("/aircraft", h.Create)
	write.PUT("/aircraft/:id", h.Update)
	write.PUT("/aircraft/:id/maintenance", h.StartMaintenance)
	write.DELETE("/aircraft/:id", h.Delete)
}
