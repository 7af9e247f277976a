// Package store persists canonical shops in Postgres for downstream SQL
// analysis. Connection settings come from the usual PG* environment
// variables.
package store

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/aargau-farmshops/internal/config"
	"github.com/aargau-farmshops/internal/record"
)

// Store wraps the database connection.
type Store struct {
	DB *sql.DB
}

// Open connects to Postgres using PG* environment variables.
func Open() (*Store, error) {
	host := config.GetEnv("PGHOST", "localhost")
	port := config.GetEnv("PGPORT", "5432")
	user := config.GetEnv("PGUSER", "farmshops")
	password := config.GetEnv("PGPASSWORD", "farmshops")
	dbname := config.GetEnv("PGDATABASE", "farmshops")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &Store{DB: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Init creates the farmshop table when it does not exist yet.
func (s *Store) Init() error {
	_, err := s.DB.Exec(`
		CREATE TABLE IF NOT EXISTS farmshop (
			id            INTEGER PRIMARY KEY,
			name          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			address       TEXT NOT NULL DEFAULT '',
			canton        TEXT NOT NULL DEFAULT '',
			phone         TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL DEFAULT '',
			website       TEXT NOT NULL DEFAULT '',
			opening_hours TEXT NOT NULL DEFAULT '',
			products      TEXT[] NOT NULL DEFAULT '{}',
			organic       BOOLEAN NOT NULL DEFAULT FALSE,
			lat           DOUBLE PRECISION NOT NULL DEFAULT 0,
			lng           DOUBLE PRECISION NOT NULL DEFAULT 0,
			image         TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create farmshop table: %w", err)
	}
	return nil
}

// ReplaceAll truncates the farmshop table and loads the given shops,
// returning the number of rows inserted.
func (s *Store) ReplaceAll(shops []record.Shop) (int, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("TRUNCATE TABLE farmshop"); err != nil {
		return 0, fmt.Errorf("failed to truncate farmshop: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO farmshop (
			id, name, description, address, canton, phone, email, website,
			opening_hours, products, organic, lat, lng, image
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, shop := range shops {
		_, err := stmt.Exec(
			shop.ID, shop.Name, shop.Description, shop.Address, shop.Canton,
			shop.Phone, shop.Email, shop.Website, shop.OpeningHours,
			pq.Array(shop.Products), shop.Organic, shop.Lat, shop.Lng, shop.Image,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert shop %d (%s): %w", shop.ID, shop.Name, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}
