// The passengers service owns the passenger registry and exposes the
// lookup endpoint the reservations service depends on.
package main

import (
	"log"

	"github.com/labstack/echo/v4"

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
		log.Fatalf("passengers: open database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterPassengers(e, handler.NewPassengerHandler(repository.NewPassengerRepo(db)), cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("passengers service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
