package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/pkg/dberrors"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

// IConferenceRepository defines the interface for conference persistence
type IConferenceRepository interface {
	Create(ctx context.Context, conference *models.Conference) (int64, error)
	Update(ctx context.Context, conference *models.Conference) error
	GetByID(ctx context.Context, id int64) (*models.Conference, error)
	GetBySlug(ctx context.Context, slug string) (*models.Conference, error)
	List(ctx context.Context) ([]*models.Conference, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ConferenceRepository handles conference database operations
type ConferenceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ IConferenceRepository = (*ConferenceRepository)(nil)

// NewConferenceRepository creates a new ConferenceRepository
func NewConferenceRepository(db *pgxpool.Pool) *ConferenceRepository {
	return &ConferenceRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

var conferenceColumns = []string{
	"id", "name", "slug", "description", "start_date", "end_date",
	"registration_open_date", "registration_close_date", "fee",
	"test_required", "test_prompt_url", "created_at", "updated_at",
}

func scanConference(row pgx.Row) (*models.Conference, error) {
	c := &models.Conference{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.StartDate, &c.EndDate,
		&c.RegistrationOpenDate, &c.RegistrationCloseDate, &c.Fee,
		&c.TestRequired, &c.TestPromptURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func mapConferenceWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, constraintConferencesName):
		return ErrDuplicateConferenceName
	case dberrors.IsDuplicateConstraintError(err, constraintConferencesSlug):
		return ErrDuplicateConferenceSlug
	}
	return nil
}

// Create inserts a new conference
func (r *ConferenceRepository) Create(ctx context.Context, c *models.Conference) (int64, error) {
	sql, args, err := r.sb.Insert("conferences").
		Columns("name", "slug", "description", "start_date", "end_date",
			"registration_open_date", "registration_close_date", "fee",
			"test_required", "test_prompt_url").
		Values(c.Name, c.Slug, c.Description, c.StartDate, c.EndDate,
			c.RegistrationOpenDate, c.RegistrationCloseDate, c.Fee,
			c.TestRequired, c.TestPromptURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create conference SQL")
		return 0, fmt.Errorf("failed to build create conference query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if mapped := mapConferenceWriteError(err); mapped != nil {
			return 0, mapped
		}
		logger.Error().Err(err).Str("slug", c.Slug).Msg("Error executing create conference query")
		return 0, fmt.Errorf("error creating conference: %w", err)
	}
	return c.ID, nil
}

// Update overwrites every editable column of a conference
func (r *ConferenceRepository) Update(ctx context.Context, c *models.Conference) error {
	sql, args, err := r.sb.Update("conferences").
		Set("name", c.Name).
		Set("slug", c.Slug).
		Set("description", c.Description).
		Set("start_date", c.StartDate).
		Set("end_date", c.EndDate).
		Set("registration_open_date", c.RegistrationOpenDate).
		Set("registration_close_date", c.RegistrationCloseDate).
		Set("fee", c.Fee).
		Set("test_required", c.TestRequired).
		Set("test_prompt_url", c.TestPromptURL).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update conference SQL")
		return fmt.Errorf("failed to build update conference query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if mapped := mapConferenceWriteError(err); mapped != nil {
			return mapped
		}
		logger.Error().Err(err).Int64("conferenceID", c.ID).Msg("Error executing update conference query")
		return fmt.Errorf("error updating conference: %w", err)
	}
	return nil
}

func (r *ConferenceRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Conference, error) {
	sql, args, err := r.sb.Select(conferenceColumns...).
		From("conferences").
		Where(where).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get conference SQL")
		return nil, fmt.Errorf("failed to build get conference query: %w", err)
	}

	c, err := scanConference(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning conference row")
		return nil, fmt.Errorf("error getting conference: %w", err)
	}
	return c, nil
}

// GetByID retrieves a conference by ID
func (r *ConferenceRepository) GetByID(ctx context.Context, id int64) (*models.Conference, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySlug retrieves a conference by its URL slug
func (r *ConferenceRepository) GetBySlug(ctx context.Context, slug string) (*models.Conference, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

// List returns all conferences, most recent start date first
func (r *ConferenceRepository) List(ctx context.Context) ([]*models.Conference, error) {
	sql, args, err := r.sb.Select(conferenceColumns...).
		From("conferences").
		OrderBy("start_date DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list conferences SQL")
		return nil, fmt.Errorf("failed to build list conferences query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list conferences query")
		return nil, fmt.Errorf("error querying conferences: %w", err)
	}
	defer rows.Close()

	conferences := []*models.Conference{}
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning conference row during list")
			return nil, fmt.Errorf("error scanning conference row: %w", err)
		}
		conferences = append(conferences, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conference rows: %w", err)
	}
	return conferences, nil
}

func (r *ConferenceRepository) exists(ctx context.Context, column, value string, excludeID int64) (bool, error) {
	q := r.sb.Select("1").From("conferences").Where(squirrel.Eq{column: value})
	if excludeID > 0 {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}
	sql, args, err := q.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building conference exists SQL")
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error executing conference exists query")
		return false, fmt.Errorf("error checking conference %s: %w", column, err)
	}
	return exists, nil
}

// ExistsByName reports whether another conference already uses name
func (r *ConferenceRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.exists(ctx, "name", name, excludeID)
}

// ExistsBySlug reports whether another conference already uses slug
func (r *ConferenceRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	return r.exists(ctx, "slug", slug, excludeID)
}

// Count returns the number of conferences
func (r *ConferenceRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("conferences"))
}
