package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"elbyte/core/types"
	"elbyte/internal/errors"
)

// SQLiteStore implements Store on a local SQLite file. It backs the CLI,
// where a per-user cache file beats a database server.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite-backed store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.Config("sqlite store path is required")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, errors.Storage("create store directory", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Storage("open sqlite", err)
	}

	// SQLite does not benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Storage("ping sqlite", err)
	}

	store := &SQLiteStore{db: db, path: path}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tariff_cache (
			supplier_key TEXT NOT NULL,
			area         TEXT NOT NULL,
			tariff       TEXT NOT NULL,
			updated_at   TIMESTAMP NOT NULL,
			PRIMARY KEY (supplier_key, area)
		)`,
		`CREATE TABLE IF NOT EXISTS providers (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			monthly_fee     TEXT NOT NULL,
			energy_price    TEXT NOT NULL,
			free_months     INTEGER NOT NULL DEFAULT 0,
			contract_length INTEGER NOT NULL DEFAULT 0,
			is_active       BOOLEAN NOT NULL DEFAULT 1,
			metadata        TEXT NOT NULL DEFAULT '{}'
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Storage("migrate schema", err)
		}
	}
	return nil
}

// GetTariff returns the cached tariff for a key
func (s *SQLiteStore) GetTariff(ctx context.Context, supplierKey string, area types.PriceArea) (*types.NormalizedTariff, time.Time, error) {
	var raw []byte
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT tariff, updated_at FROM tariff_cache WHERE supplier_key = ? AND area = ?`,
		supplierKey, string(area)).Scan(&raw, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, errors.CacheMiss(supplierKey, string(area))
	}
	if err != nil {
		return nil, time.Time{}, errors.Storage("read tariff cache", err)
	}

	var tariff types.NormalizedTariff
	if err := json.Unmarshal(raw, &tariff); err != nil {
		return nil, time.Time{}, errors.Storage("decode cached tariff", err)
	}
	return &tariff, updatedAt.UTC(), nil
}

// PutTariff upserts the tariff for a key
func (s *SQLiteStore) PutTariff(ctx context.Context, supplierKey string, area types.PriceArea, tariff *types.NormalizedTariff) (time.Time, error) {
	raw, err := json.Marshal(tariff)
	if err != nil {
		return time.Time{}, errors.Storage("encode tariff", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tariff_cache (supplier_key, area, tariff, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (supplier_key, area)
		DO UPDATE SET tariff = excluded.tariff, updated_at = excluded.updated_at`,
		supplierKey, string(area), raw, now)
	if err != nil {
		return time.Time{}, errors.Storage("write tariff cache", err)
	}
	return now, nil
}

// ListTariffs returns all cache rows
func (s *SQLiteStore) ListTariffs(ctx context.Context) ([]CachedTariff, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT supplier_key, area, tariff, updated_at FROM tariff_cache ORDER BY supplier_key, area`)
	if err != nil {
		return nil, errors.Storage("list tariff cache", err)
	}
	defer rows.Close()

	var entries []CachedTariff
	for rows.Next() {
		var entry CachedTariff
		var areaStr string
		var raw []byte
		if err := rows.Scan(&entry.SupplierKey, &areaStr, &raw, &entry.UpdatedAt); err != nil {
			return nil, errors.Storage("scan tariff cache row", err)
		}
		if err := json.Unmarshal(raw, &entry.Tariff); err != nil {
			return nil, errors.Storage("decode cached tariff", err)
		}
		entry.Area = types.PriceArea(areaStr)
		entry.UpdatedAt = entry.UpdatedAt.UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListProviders returns the provider catalog
func (s *SQLiteStore) ListProviders(ctx context.Context) ([]types.ElectricityProvider, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, monthly_fee, energy_price, free_months, contract_length, is_active, metadata
		FROM providers ORDER BY name`)
	if err != nil {
		return nil, errors.Storage("list providers", err)
	}
	defer rows.Close()

	var providers []types.ElectricityProvider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, provider)
	}
	return providers, rows.Err()
}

// UpsertProvider creates or replaces a catalog row
func (s *SQLiteStore) UpsertProvider(ctx context.Context, provider types.ElectricityProvider) error {
	if err := provider.Validate(); err != nil {
		return err
	}

	metadata, err := json.Marshal(providerMetadata{
		Features:   provider.Features,
		LogoURL:    provider.LogoURL,
		WebsiteURL: provider.WebsiteURL,
		Phone:      provider.Phone,
	})
	if err != nil {
		return errors.Storage("encode provider metadata", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO providers (id, name, monthly_fee, energy_price, free_months, contract_length, is_active, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			monthly_fee = excluded.monthly_fee,
			energy_price = excluded.energy_price,
			free_months = excluded.free_months,
			contract_length = excluded.contract_length,
			is_active = excluded.is_active,
			metadata = excluded.metadata`,
		provider.ID, provider.Name,
		provider.MonthlyFee.String(), provider.EnergyPrice.String(),
		provider.FreeMonths, provider.ContractLength, provider.IsActive, metadata)
	if err != nil {
		return errors.Storage("upsert provider", err)
	}
	return nil
}

// Close closes the database file
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file location
func (s *SQLiteStore) Path() string {
	return s.path
}
