package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tomlord1122/taskboard-backend/internal/config"
	"github.com/Tomlord1122/taskboard-backend/internal/database"
	"github.com/Tomlord1122/taskboard-backend/internal/logger"
	"github.com/Tomlord1122/taskboard-backend/internal/repository"
	"github.com/Tomlord1122/taskboard-backend/internal/server"
	"github.com/Tomlord1122/taskboard-backend/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, log zerolog.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := dbService.Close(); err != nil {
		log.Error().Err(err).Msg("closing database connection pool")
	}

	log.Info().Msg("server exiting")
	done <- true
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.IsDevelopment())
	zerolog.DefaultContextLogger = &log

	dbService, err := database.New(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	if cfg.Database.AutoMigrate {
		if err := dbService.Migrate(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("failed to auto-migrate database")
		}
	}

	gormDB := dbService.GetDB()
	userRepo := repository.NewGormUserRepository(gormDB)
	taskRepo := repository.NewGormTaskRepository(gormDB)
	store := repository.NewGormStore(gormDB)

	services := server.Services{
		Users:    service.NewUserService(userRepo, taskRepo),
		Tasks:    service.NewTaskService(taskRepo, userRepo),
		Deletion: service.NewDeletionPolicy(store),
	}
	apiServer := server.NewServer(cfg.Server, services, dbService, log)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, log, done)

	log.Info().Str("addr", apiServer.Addr).Str("env", cfg.Server.Environment).Msg("starting server")
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("http server ListenAndServe error")
		os.Exit(1)
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
}
