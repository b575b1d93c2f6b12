package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
)

// RegisterPassengers wires the passenger registry endpoints. Reads
// are open (the reservations service resolves passenger IDs here);
// cacheMW, when non-nil, caches them.
func RegisterPassengers(e *echo.Echo, h *handler.PassengerHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	read := e.Group("/v1", orPassthrough(cacheMW))
	read.GET("/passengers", h.List)
	read.GET("/passengers/:id", h.Get)

	write := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "AGENT"),
	)
	write.POST("/passengers", h.Create)
	write.PUT("/passengers/:id", h.Update)
	write.DELETE("/passengers/:id", h.Delete)
}
