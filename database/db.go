package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog" // use slog for structured logging

	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB bundles the gorm handle with the pgx pool underneath it so both can be
// released together.
type DB struct {
	Gorm *gorm.DB
	pool *pgxpool.Pool
	sql  *sql.DB
}

// ConnectDB opens a pgx pool, hands it to gorm and applies migrations when enabled.
func ConnectDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify the connection
	if err := pool.Ping(ctx); err != nil {
		// close the pool if ping fails to avoid resource leak
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	if cfg.DBAutoMigrate {
		if err := Migrate(gdb, logger); err != nil {
			sqlDB.Close()
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Info("Connected to the database successfully", "max_conns", poolCfg.MaxConns)
	return &DB{Gorm: gdb, pool: pool, sql: sqlDB}, nil
}

// Close releases the sql handle and then the pool.
func (d *DB) Close() {
	if d == nil {
		return
	}
	if d.sql != nil {
		d.sql.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// Migrate creates or updates the schema and seeds the role reference data.
func Migrate(db *gorm.DB, logger *slog.Logger) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := SeedRoles(db); err != nil {
		return err
	}
	logger.Info("Database migrations applied successfully")
	return nil
}

// SeedRoles inserts any missing role rows. Safe to run repeatedly.
func SeedRoles(db *gorm.DB) error {
	for _, name := range models.AllRoles {
		var role models.Role
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}

// Ping checks the pool can still reach the server.
func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.pool == nil {
		return fmt.Errorf("database not connected")
	}
	return d.pool.Ping(ctx)
}
