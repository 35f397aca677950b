package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/db"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

// ISiteConfigRepository defines the interface for the site_config key/value table
type ISiteConfigRepository interface {
	GetAll(ctx context.Context) ([]*models.SiteConfig, error)
	GetByKeys(ctx context.Context, keys []string) ([]*models.SiteConfig, error)
	UpsertMany(ctx context.Context, entries []models.SiteConfig) error
	InsertDefaults(ctx context.Context, entries []models.SiteConfig) error
}

// SiteConfigRepository handles site_config database operations
type SiteConfigRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ ISiteConfigRepository = (*SiteConfigRepository)(nil)

// NewSiteConfigRepository creates a new SiteConfigRepository
func NewSiteConfigRepository(db *pgxpool.Pool) *SiteConfigRepository {
	return &SiteConfigRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *SiteConfigRepository) query(ctx context.Context, q squirrel.SelectBuilder) ([]*models.SiteConfig, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building site config SQL")
		return nil, fmt.Errorf("failed to build site config query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing site config query")
		return nil, fmt.Errorf("error querying site config: %w", err)
	}
	defer rows.Close()

	entries := []*models.SiteConfig{}
	for rows.Next() {
		e := &models.SiteConfig{}
		if err := rows.Scan(&e.Key, &e.Value, &e.Label, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning site config row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating site config rows: %w", err)
	}
	return entries, nil
}

// GetAll returns every setting ordered by key
func (r *SiteConfigRepository) GetAll(ctx context.Context) ([]*models.SiteConfig, error) {
	return r.query(ctx, r.sb.Select("key", "value", "label", "updated_at").
		From("site_config").
		OrderBy("key"))
}

// GetByKeys returns the settings among keys that exist
func (r *SiteConfigRepository) GetByKeys(ctx context.Context, keys []string) ([]*models.SiteConfig, error) {
	return r.query(ctx, r.sb.Select("key", "value", "label", "updated_at").
		From("site_config").
		Where(squirrel.Eq{"key": keys}).
		OrderBy("key"))
}

// UpsertMany writes all entries in one transaction
func (r *SiteConfigRepository) UpsertMany(ctx context.Context, entries []models.SiteConfig) error {
	if len(entries) == 0 {
		return nil
	}
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		for _, e := range entries {
			sql, args, err := r.sb.Insert("site_config").
				Columns("key", "value", "label", "updated_at").
				Values(e.Key, e.Value, e.Label, squirrel.Expr("NOW()")).
				Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, label = EXCLUDED.label, updated_at = NOW()").
				ToSql()
			if err != nil {
				logger.Error().Err(err).Msg("Error building site config upsert SQL")
				return fmt.Errorf("failed to build site config upsert: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				logger.Error().Err(err).Str("key", e.Key).Msg("Error upserting site config")
				return fmt.Errorf("error upserting site config %s: %w", e.Key, err)
			}
		}
		return nil
	})
}

// InsertDefaults creates missing keys and leaves existing values untouched
func (r *SiteConfigRepository) InsertDefaults(ctx context.Context, entries []models.SiteConfig) error {
	if len(entries) == 0 {
		return nil
	}
	q := r.sb.Insert("site_config").Columns("key", "value", "label")
	for _, e := range entries {
		q = q.Values(e.Key, e.Value, e.Label)
	}
	sql, args, err := q.Suffix("ON CONFLICT (key) DO NOTHING").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building site config defaults SQL")
		return fmt.Errorf("failed to build site config defaults: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error inserting site config defaults")
		return fmt.Errorf("error inserting site config defaults: %w", err)
	}
	return nil
}
