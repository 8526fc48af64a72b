package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/flight-boarding/internal/boarding"
	"github.com/iliyamo/flight-boarding/internal/config"
	"github.com/iliyamo/flight-boarding/internal/database"
	"github.com/iliyamo/flight-boarding/internal/handler"
	appmw "github.com/iliyamo/flight-boarding/internal/middleware"
	"github.com/iliyamo/flight-boarding/internal/queue"
	"github.com/iliyamo/flight-boarding/internal/repository"
	"github.com/iliyamo/flight-boarding/internal/router"
)

func main() {
	// Load .env in development; a missing file is fine in production where
	// the environment is injected directly.
	_ = godotenv.Load()

	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true
	// Panics inside handlers become generic 500s; full detail goes to the log.
	e.Use(echomw.Recover())

	// Redis is optional: when unreachable, caching and rate limiting are off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	// The bucket runs globally so login and register are throttled too; its
	// default key strategy is IP+route, which needs no identity.
	e.Use(appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	// The response cache keys on the authenticated subject, so it must sit
	// behind JWTAuth on the manifest group rather than run globally.
	cacheMW := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	// MySQL is optional too: without it the service sequences uploads but
	// keeps no history and cannot register agents.
	var boardingH *handler.BoardingHandler
	seq := boarding.New()
	db, err := database.Open(cfg)
	if err != nil {
		log.Printf("mysql unavailable (%v); running without history", err)
		boardingH = handler.NewBoardingHandler(seq, nil, cfg.MaxUploadBytes)
	} else {
		boardingH = handler.NewBoardingHandler(seq, repository.NewManifestRepo(db), cfg.MaxUploadBytes)
		authH := handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))
		router.RegisterAuth(e, authH, cfg.JWTSecret)
	}

	router.RegisterRoutes(e)
	router.RegisterBoarding(e, boardingH, cfg.JWTSecret, cacheMW)

	// Background consumer mirrors sequencing events into logs/boarding.log.
	go func() {
		if err := queue.StartBoardingConsumer(); err != nil {
			log.Printf("boarding consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
