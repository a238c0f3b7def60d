package main

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ThakurMayank5/LastSnack-Server/internal/clock"
	"github.com/ThakurMayank5/LastSnack-Server/internal/config"
	"github.com/ThakurMayank5/LastSnack-Server/internal/engine"
	"github.com/ThakurMayank5/LastSnack-Server/internal/logger"
	"github.com/ThakurMayank5/LastSnack-Server/internal/random"
	"github.com/ThakurMayank5/LastSnack-Server/internal/rooms"
	"github.com/ThakurMayank5/LastSnack-Server/internal/transport"
)

// server is the wired object graph behind one listener.
type server struct {
	router *gin.Engine
	rooms  *rooms.Manager
}

func newServer(cfg config.Config, clk clock.Clock, rng random.Source) *server {
	timers := engine.NewTimers(clk)
	manager := rooms.NewManager(
		rooms.NewStore(),
		rooms.NewTokens(cfg.ReconnectTTL, clk),
		timers,
		rng,
		clk,
		rooms.Settings{
			SpeedMode:     cfg.SpeedMode,
			SpeedTurnSec:  cfg.SpeedTurnSec,
			NormalTurnSec: cfg.NormalTurnSec,
		},
	)
	hub := transport.NewHub()

	opts := engine.DefaultOptions()
	opts.AvatarBaseURL = cfg.AvatarBaseURL
	eng := engine.New(manager, timers, hub, rng, clk, opts)

	handler := transport.NewHandler(eng, manager, hub, transport.Options{
		RateLimitPerSec: cfg.RateLimitPerSec,
		AllowedOrigins:  cfg.AllowedOrigins,
	})
	return &server{router: setupRouter(cfg, handler), rooms: manager}
}

func setupRouter(cfg config.Config, handler *transport.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.RegisterRoutes(router)
	return router
}

func main() {
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.Production)
	gin.SetMode(cfg.GinMode)

	srv := newServer(cfg, clock.System(), random.New(uint64(time.Now().UnixNano())))
	go srv.rooms.RunSweeper(context.Background(), cfg.SweepInterval, cfg.RoomIdleTTL)

	log.Info().Str("port", cfg.Port).Msg("🚀 Starting server")
	if err := srv.router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
