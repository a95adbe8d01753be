package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LovationAdmin/finance-api/config"
	"github.com/LovationAdmin/finance-api/handlers"
	"github.com/LovationAdmin/finance-api/routes"
	"github.com/LovationAdmin/finance-api/services"
	"github.com/LovationAdmin/finance-api/store"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ConfigureLogging(os.Stdout, "info", false)
		utils.Logger.Fatal().Err(err).Msg("invalid configuration")
	}
	utils.ConfigureLogging(os.Stdout, cfg.LogLevel, cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DatabaseURL)
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	utils.SafeInfo("database connected")

	if err := config.RunMigrations(db); err != nil {
		utils.Logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	cipher, err := utils.NewCipher(cfg.DataEncryptionKey)
	if err != nil {
		utils.Logger.Fatal().Err(err).Msg("invalid DATA_ENCRYPTION_KEY")
	}
	if cipher == nil {
		utils.SafeWarn("DATA_ENCRYPTION_KEY not set, documents are stored unencrypted")
	}
	pg := store.NewPostgres(db, cipher)

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	wsHandler := handlers.NewWSHandler(tokens)
	svc := routes.NewServices(pg, pg, tokens, wsHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scheduleBonusSweep(ctx, svc.Bonuses, pg, cfg.BonusSweepEvery)

	router := routes.NewRouter(svc, wsHandler, tokens, routes.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RateWindow:     cfg.RateWindow,
		Done:           ctx.Done(),
	})

	for _, origin := range cfg.AllowedOrigins {
		utils.SafeInfo("CORS allows %s", origin)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogStartup("finance-api", "1.0.0", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	utils.SafeInfo("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := wsHandler.Close(); err != nil {
		utils.SafeWarn("closing websocket hub: %v", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.SafeError("graceful shutdown failed: %v", err)
	}
}

// scheduleBonusSweep expires lapsed sign-up bonuses and pushes pending
// alerts, once at start and then every interval.
func scheduleBonusSweep(ctx context.Context, bonuses *services.BonusService, users store.UserLister, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	sweepBonuses(ctx, bonuses, users)
	for {
		select {
		case <-ticker.C:
			sweepBonuses(ctx, bonuses, users)
		case <-ctx.Done():
			return
		}
	}
}

func sweepBonuses(ctx context.Context, bonuses *services.BonusService, users store.UserLister) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	expired, err := bonuses.Sweep(ctx, users)
	if err != nil {
		utils.SafeError("bonus sweep failed: %v", err)
		return
	}
	if expired > 0 {
		utils.SafeInfo("expired %d sign-up bonuses", expired)
	}
}
