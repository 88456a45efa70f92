package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Tomlord1122/taskboard-backend/internal/config"
	"github.com/Tomlord1122/taskboard-backend/internal/domain"
	"github.com/Tomlord1122/taskboard-backend/internal/logger"
)

// Service exposes the shared gorm handle plus the operational hooks the
// server and CLI need around it.
type Service interface {
	Health() map[string]string
	Close() error
	GetDB() *gorm.DB
	Migrate(ctx context.Context) error
}

type service struct {
	db   *gorm.DB
	name string
	log  zerolog.Logger
}

// New opens a pooled PostgreSQL connection described by cfg.
func New(cfg config.DatabaseConfig, log zerolog.Logger) (Service, error) {
	level := gormlogger.Warn
	if log.GetLevel() <= zerolog.DebugLevel {
		level = gormlogger.Info
	}
	newLogger := gormlogger.New(
		logger.GormWriter{Logger: log},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &service{db: db, name: cfg.Database, log: log}, nil
}

// FromDB wraps an already opened gorm handle, e.g. one backed by SQLite in tests.
func FromDB(db *gorm.DB, name string, log zerolog.Logger) Service {
	return &service{db: db, name: name, log: log}
}

// AutoMigrate creates or updates the users and tasks tables. Users must be
// migrated first so the tasks.owner_id foreign key has a target.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Task{})
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

func (s *service) Migrate(ctx context.Context) error {
	s.log.Info().Str("database", s.name).Msg("running schema migration")
	if err := AutoMigrate(s.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	s.log.Info().Str("database", s.name).Msg("schema migration complete")
	return nil
}

// Health pings the database and reports pool statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("health check: db down")
		return map[string]string{
			"status": "down",
			"error":  fmt.Sprintf("db down: %v", err),
		}
	}

	dbStats := sqlDB.Stats()
	stats := map[string]string{
		"status":               "up",
		"message":              poolMessage(dbStats),
		"max_open_connections": strconv.Itoa(dbStats.MaxOpenConnections),
		"open_connections":     strconv.Itoa(dbStats.OpenConnections),
		"in_use":               strconv.Itoa(dbStats.InUse),
		"idle":                 strconv.Itoa(dbStats.Idle),
		"wait_count":           strconv.FormatInt(dbStats.WaitCount, 10),
		"wait_duration":        dbStats.WaitDuration.String(),
	}
	return stats
}

// poolMessage flags a pool whose configured limit is exhausted. An
// unlimited pool (MaxOpenConnections 0) is never reported as busy.
func poolMessage(stats sql.DBStats) string {
	if stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections {
		return fmt.Sprintf("All %d connections are in use, requests are waiting for the pool.", stats.MaxOpenConnections)
	}
	return "It's healthy"
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get underlying sql.DB: %w", err)
	}
	s.log.Info().Str("database", s.name).Msg("closing connection pool")
	return sqlDB.Close()
}
