// The layovers service owns intermediate stops. Each write verifies
// the referenced flight and airport against their services.
package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/client"
	"github.com/dcastano/airline-backoffice/internal/config"
	"github.com/dcastano/airline-backoffice/internal/database"
	"github.com/dcastano/airline-backoffice/internal/handler"
	"github.com/dcastano/airline-backoffice/internal/middleware"
	"github.com/dcastano/airline-backoffice/internal/repository"
	"github.com/dcastano/airline-backoffice/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("layovers: open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	hc := client.New()
	flights := client.NewFlightClient(cfg.FlightsURL, hc)
	airports := client.NewAirportClient(cfg.AirportsURL, hc)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterLayovers(e,
		handler.NewLayoverHandler(repository.NewLayoverRepo(db), flights, airports),
		cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("layovers service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
