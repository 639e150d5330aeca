package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"perfume-dashboard/models"
	"perfume-dashboard/utils"
)

const insertColumns = 12

// PostgresWriter publishes the normalized table to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS perfume_listings (
			id           SERIAL PRIMARY KEY,
			row_index    INTEGER       NOT NULL,
			category     VARCHAR(10)   NOT NULL,
			brand        TEXT,
			title        TEXT,
			price_text   TEXT,
			available    TEXT,
			sold_text    TEXT,
			location     TEXT,
			price        DOUBLE PRECISION NOT NULL DEFAULT 0,
			sold         BIGINT           NOT NULL DEFAULT 0,
			price_parsed BOOLEAN          NOT NULL DEFAULT FALSE,
			sold_parsed  BOOLEAN          NOT NULL DEFAULT FALSE,
			loaded_at    TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		ALTER TABLE perfume_listings ALTER COLUMN price TYPE DOUBLE PRECISION;
		ALTER TABLE perfume_listings ALTER COLUMN sold TYPE BIGINT;

		CREATE INDEX IF NOT EXISTS idx_perfume_listings_category ON perfume_listings(category);
		CREATE INDEX IF NOT EXISTS idx_perfume_listings_brand    ON perfume_listings(brand);
		CREATE INDEX IF NOT EXISTS idx_perfume_listings_price    ON perfume_listings(price);
	`)
	return err
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Write replaces the table contents with listings in one transaction, so a
// failed batch leaves the previous contents in place.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	if err := replaceAll(tx, listings); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func replaceAll(ex execer, listings []*models.Listing) error {
	if _, err := ex.Exec("DELETE FROM perfume_listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 200
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := buildInsert(listings[i:end])
		if _, err := ex.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}
	return nil
}

func buildInsert(batch []*models.Listing) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		base := idx * insertColumns
		placeholders := make([]string, insertColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.Row, string(l.Category), l.Brand, l.Title, l.PriceText, l.Available,
			l.SoldText, l.Location, l.Price, l.Sold, l.PriceParsed, l.SoldParsed)
	}

	query := `
		INSERT INTO perfume_listings (row_index, category, brand, title, price_text, available,
			sold_text, location, price, sold, price_parsed, sold_parsed)
		VALUES ` + strings.Join(valueStrings, ",")

	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings in table order.
func (pw *PostgresWriter) FetchAll() ([]*models.Listing, error) {
	rows, err := pw.db.Query(`
		SELECT row_index, category, brand, title, price_text, available, sold_text,
			location, price, sold, price_parsed, sold_parsed
		FROM perfume_listings
		ORDER BY row_index
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	listings := []*models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(s scanner) (*models.Listing, error) {
	l := &models.Listing{}
	var category string
	if err := s.Scan(
		&l.Row, &category, &l.Brand, &l.Title, &l.PriceText, &l.Available, &l.SoldText,
		&l.Location, &l.Price, &l.Sold, &l.PriceParsed, &l.SoldParsed,
	); err != nil {
		return nil, fmt.Errorf("postgres: scan row: %w", err)
	}
	cat, ok := models.ParseCategory(category)
	if !ok || cat == models.CategoryAll {
		return nil, fmt.Errorf("postgres: row %d: unknown category %q", l.Row, category)
	}
	l.Category = cat
	return l, nil
}
