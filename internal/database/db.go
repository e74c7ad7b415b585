// Package database archives scan results in PostgreSQL. The archive is
// write-only from the screener's point of view; transition detection reads
// snapshots, never the database.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Alias1177/Screener/models"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection and ensures the schema exists
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_results (
			market TEXT NOT NULL,
			as_of DATE NOT NULL,
			symbol TEXT NOT NULL,
			signal TEXT NOT NULL,
			reason TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			ema_fast DOUBLE PRECISION NOT NULL,
			ema_mid DOUBLE PRECISION NOT NULL,
			ema_slow DOUBLE PRECISION NOT NULL,
			support DOUBLE PRECISION,
			resistance DOUBLE PRECISION,
			PRIMARY KEY (market, as_of, symbol)
		)
	`)
	return err
}

// ArchiveSnapshot inserts every classification of a scan run. Re-running a
// scan for the same market and date overwrites the earlier rows.
func (db *DB) ArchiveSnapshot(snap *models.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting archive transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO scan_results
			(market, as_of, symbol, signal, reason, price, ema_fast, ema_mid, ema_slow, support, resistance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (market, as_of, symbol) DO UPDATE SET
			signal = EXCLUDED.signal,
			reason = EXCLUDED.reason,
			price = EXCLUDED.price,
			ema_fast = EXCLUDED.ema_fast,
			ema_mid = EXCLUDED.ema_mid,
			ema_slow = EXCLUDED.ema_slow,
			support = EXCLUDED.support,
			resistance = EXCLUDED.resistance
	`)
	if err != nil {
		return fmt.Errorf("preparing archive insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range snap.Results {
		var support, resistance sql.NullFloat64
		if r.Levels.Valid {
			support = sql.NullFloat64{Float64: r.Levels.Support, Valid: true}
			resistance = sql.NullFloat64{Float64: r.Levels.Resistance, Valid: true}
		}
		if _, err := stmt.Exec(
			snap.Market, snap.AsOf, r.Symbol, string(r.Signal), r.Reason, r.Price,
			r.EMAs.Fast, r.EMAs.Mid, r.EMAs.Slow, support, resistance,
		); err != nil {
			return fmt.Errorf("archiving %s: %w", r.Symbol, err)
		}
	}

	return tx.Commit()
}
