package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/gbgcf/crp-questionnaire/internal/config"
)

// trackingTxOptions applies to every tracking transaction. Get-or-create is
// serialised by the subject row lock, not by the isolation level.
var trackingTxOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// DB is the tracking database pool
type DB struct {
	*sqlx.DB
	name   string
	logger *logrus.Logger
}

// Initialize opens the tracking database and verifies it is reachable
func Initialize(cfg *config.DatabaseConfig, logger *logrus.Logger) (*DB, error) {
	driver := cfg.Type
	if driver == "" {
		driver = "mysql"
	}

	log := logger.WithFields(logrus.Fields{
		"driver":   driver,
		"hostname": cfg.Hostname,
		"port":     cfg.Port,
		"database": cfg.Database,
	})
	log.Info("Connecting to tracking database...")

	conn, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open tracking database: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to reach tracking database %s: %w", cfg.Database, err)
	}

	log.Info("Tracking database connected")

	db := New(conn, logger)
	db.name = cfg.Database
	return db, nil
}

// New wraps an already opened connection
func New(conn *sqlx.DB, logger *logrus.Logger) *DB {
	return &DB{DB: conn, logger: logger}
}

// Close closes the pool
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	db.logger.WithField("database", db.name).Info("Closing tracking database")
	return db.DB.Close()
}

// HealthCheck pings the tracking database
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// WithTransaction runs fn in one read-committed transaction. It commits when
// fn returns nil and rolls back when fn fails or panics.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, trackingTxOptions)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			db.rollback(tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		db.rollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		db.logger.WithError(err).WithField("database", db.name).Error("Failed to rollback tracking transaction")
	}
}

// LogStats logs the pool usage of the tracking database. Wait counts grow
// when concurrent GetForm calls queue behind one subject's row lock.
func (db *DB) LogStats() {
	stats := db.Stats()
	db.logger.WithFields(logrus.Fields{
		"database":         db.name,
		"open_connections": stats.OpenConnections,
		"max_open":         stats.MaxOpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
		"wait_duration":    stats.WaitDuration,
	}).Info("Tracking database pool stats")
}
