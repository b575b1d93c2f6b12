package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
)

// RegisterLayovers wires the layover endpoints.
func RegisterLayovers(e *echo.Echo, h *handler.LayoverHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	read := e.Group("/v1", orPassthrough(cacheMW))
	read.GET("/layovers", h.List)
	read.GET("/layovers/airport/:airportID", h.ListByAirport)
	read.GET("/layovers/:id", h.Get)

	write := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "AGENT"),
	)
	write.POST("/layovers", h.Create)
	write.PUT("/layovers/:id", h.Update)
	write.PATCH("/layovers/:id/status", h.UpdateStatus)
	write.DELETE("/layovers/:id", h.Delete)
}
