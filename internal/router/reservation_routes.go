package router

import (
	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
)

// RegisterReservations wires the reservation book. Reservation reads
// stay uncached: the seat map must never serve stale data to an agent
// deciding on a seat.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	e.GET("/v1/reservations", h.List)
	e.GET("/v1/reservations/:id", h.Get)
	e.GET("/v1/reservations/code/:code", h.GetByCode)

	write := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "AGENT"),
	)
	write.POST("/reservations", h.Create)
	write.PUT("/reservations/:id", h.Update)
	write.DELETE("/reservations/:id", h.Delete)
}
