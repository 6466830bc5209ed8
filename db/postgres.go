package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver

	"elbyte/core/types"
	"elbyte/internal/errors"
)

const (
	defaultTariffTable   = "tariff_cache"
	defaultProviderTable = "providers"
)

// PostgresStore implements Store on Postgres
type PostgresStore struct {
	db            *sql.DB
	tariffTable   string
	providerTable string
}

// PostgresOption configures the store
type PostgresOption func(*PostgresStore)

// WithTariffTable overrides the tariff cache table name
func WithTariffTable(table string) PostgresOption {
	return func(s *PostgresStore) {
		if table != "" {
			s.tariffTable = table
		}
	}
}

// WithProviderTable overrides the provider catalog table name
func WithProviderTable(table string) PostgresOption {
	return func(s *PostgresStore) {
		if table != "" {
			s.providerTable = table
		}
	}
}

// NewPostgresStore opens a Postgres-backed store and ensures its schema
func NewPostgresStore(ctx context.Context, dsn string, opts ...PostgresOption) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, errors.Storage("open postgres", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Storage("ping postgres", err)
	}

	store := &PostgresStore{
		db:            db,
		tariffTable:   defaultTariffTable,
		providerTable: defaultProviderTable,
	}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			supplier_key TEXT NOT NULL,
			area         TEXT NOT NULL,
			tariff       JSONB NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (supplier_key, area)
		)`, s.tariffTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			monthly_fee     NUMERIC NOT NULL,
			energy_price    NUMERIC NOT NULL,
			free_months     INT NOT NULL DEFAULT 0,
			contract_length INT NOT NULL DEFAULT 0,
			is_active       BOOLEAN NOT NULL DEFAULT TRUE,
			metadata        JSONB NOT NULL DEFAULT '{}'
		)`, s.providerTable),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Storage("migrate schema", err)
		}
	}
	return nil
}

// GetTariff returns the cached tariff for a key
func (s *PostgresStore) GetTariff(ctx context.Context, supplierKey string, area types.PriceArea) (*types.NormalizedTariff, time.Time, error) {
	query := fmt.Sprintf(`SELECT tariff, updated_at FROM %s WHERE supplier_key = $1 AND area = $2`, s.tariffTable)

	var raw []byte
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, query, supplierKey, string(area)).Scan(&raw, &updatedAt)
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
func (s *PostgresStore) PutTariff(ctx context.Context, supplierKey string, area types.PriceArea, tariff *types.NormalizedTariff) (time.Time, error) {
	raw, err := json.Marshal(tariff)
	if err != nil {
		return time.Time{}, errors.Storage("encode tariff", err)
	}

	now := time.Now().UTC()
	query := fmt.Sprintf(`INSERT INTO %s (supplier_key, area, tariff, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (supplier_key, area)
		DO UPDATE SET tariff = EXCLUDED.tariff, updated_at = EXCLUDED.updated_at`, s.tariffTable)

	if _, err := s.db.ExecContext(ctx, query, supplierKey, string(area), raw, now); err != nil {
		return time.Time{}, errors.Storage("write tariff cache", err)
	}
	return now, nil
}

// ListTariffs returns all cache rows
func (s *PostgresStore) ListTariffs(ctx context.Context) ([]CachedTariff, error) {
	query := fmt.Sprintf(`SELECT supplier_key, area, tariff, updated_at FROM %s ORDER BY supplier_key, area`, s.tariffTable)

	rows, err := s.db.QueryContext(ctx, query)
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
func (s *PostgresStore) ListProviders(ctx context.Context) ([]types.ElectricityProvider, error) {
	query := fmt.Sprintf(`SELECT id, name, monthly_fee, energy_price, free_months, contract_length, is_active, metadata
		FROM %s ORDER BY name`, s.providerTable)

	rows, err := s.db.QueryContext(ctx, query)
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
func (s *PostgresStore) UpsertProvider(ctx context.Context, provider types.ElectricityProvider) error {
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

	query := fmt.Sprintf(`INSERT INTO %s (id, name, monthly_fee, energy_price, free_months, contract_length, is_active, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			monthly_fee = EXCLUDED.monthly_fee,
			energy_price = EXCLUDED.energy_price,
			free_months = EXCLUDED.free_months,
			contract_length = EXCLUDED.contract_length,
			is_active = EXCLUDED.is_active,
			metadata = EXCLUDED.metadata`, s.providerTable)

	_, err = s.db.ExecContext(ctx, query,
		provider.ID, provider.Name,
		provider.MonthlyFee.String(), provider.EnergyPrice.String(),
		provider.FreeMonths, provider.ContractLength, provider.IsActive, metadata)
	if err != nil {
		return errors.Storage("upsert provider", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
