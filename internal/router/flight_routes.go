package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
)

// RegisterFlights wires the flight schedule endpoints including crew
// assignments.
func RegisterFlights(e *echo.Echo, h *handler.FlightHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	read := e.Group("/v1", orPassthrough(cacheMW))
	read.GET("/flights", h.List)
	read.GET("/flights/number/:number", h.GetByNumber)
	read.GET("/flights/status/:status", h.ListByStatus)
	read.GET("/flights/:id", h.Get)
	read.GET("/flights/:id/crew", h.ListCrew)

	write := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "AGENT"),
	)
	write.POST("/flights", h.Create)
	write.PUT("/flights/:id", h.Update)
	write.DELETE("/flights/:id", h.Delete)
	write.POST("/flights/:id/crew", h.AssignCrew)
	write.DELETE("/flights/:id/crew/:crewID", h.RemoveCrew)
}
