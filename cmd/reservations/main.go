// The reservations service owns the reservation book. Every create
// runs the admission check (remote passenger and flight lookups, then
// the local seat scan) before the insert transaction re-validates the
// seat under lock. It also hosts the audit consumer that tails
// reservation.* events into a log file.
package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/booking"
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
		log.Fatalf("reservations: open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	var events queue.Sink
	if pub, err := queue.NewPublisher(cfg.RabbitURL, cfg.EventExchange); err != nil {
		log.Printf("reservations: broker unavailable, events disabled: %v", err)
	} else {
		defer pub.Close()
		events = pub
		go func() {
			if err := queue.StartAuditConsumer(cfg.RabbitURL, cfg.EventExchange); err != nil {
				log.Printf("reservations: audit consumer stopped: %v", err)
			}
		}()
	}

	hc := client.New()
	passengers := client.NewPassengerClient(cfg.PassengersURL, hc)
	flights := client.NewFlightClient(cfg.FlightsURL, hc)

	resRepo := repository.NewReservationRepo(db)
	checker := booking.NewChecker(passengers, flights, resRepo, cfg.RejectDeparted)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterReservations(e, handler.NewReservationHandler(resRepo, checker, events), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("reservations service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
