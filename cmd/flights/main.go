// The flights service owns the schedule. It verifies airports and
// aircraft against their services before accepting a write and
// publishes flight.* events to the broker.
package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/client"
	"github.com/dcastano/airline-backoffice/internal/config"
	"github.com/dcastano/airline-backoffice/internal/database"
	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
	"github.com/dcastano/airline-backoffice/internal/queue"
	"github.com/dcastano/airline-backoffice/internal/repository"
	"github.com/dcastano/airline-backoffice/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("flights: open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Event emission is best effort; a dead broker must not stop the
	// schedule from being served.
	var events queue.Sink
	if pub, err := queue.NewPublisher(cfg.RabbitURL, cfg.EventExchange); err != nil {
		log.Printf("flights: broker unavailable, events disabled: %v", err)
	} else {
		defer pub.Close()
		events = pub
	}

	hc := client.New()
	airports := client.NewAirportClient(cfg.AirportsURL, hc)
	aircraft := client.NewAircraftClient(cfg.AircraftURL, hc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterFlights(e,
		handler.NewFlightHandler(repository.NewFlightRepo(db), airports, aircraft, events),
		cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("flights service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
