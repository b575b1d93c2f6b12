// The airports service owns airports with their terminals and
// runways.
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
		log.Fatalf("airports: open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterAirports(e, handler.NewAirportHandler(repository.NewAirportRepo(db)), cfg.JWTSecret, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("airports service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
