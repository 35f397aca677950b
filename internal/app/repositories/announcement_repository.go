package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

// IAnnouncementRepository defines the interface for announcement persistence
type IAnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) (int64, error)
	Update(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	List(ctx context.Context, publishedOnly bool) ([]*models.Announcement, error)
	Count(ctx context.Context) (int64, error)
}

// AnnouncementRepository handles announcement database operations
type AnnouncementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ IAnnouncementRepository = (*AnnouncementRepository)(nil)

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func (r *AnnouncementRepository) selectWithAuthor() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.title", "a.content", "a.status", "a.published_at",
		"a.author_id", "COALESCE(u.name, '')", "a.created_at", "a.updated_at",
	).
		From("announcements a").
		LeftJoin("users u ON u.id = a.author_id")
}

func scanAnnouncement(row pgx.Row) (*models.Announcement, error) {
	a := &models.Announcement{}
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Status, &a.PublishedAt,
		&a.AuthorID, &a.AuthorName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new announcement
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) (int64, error) {
	sql, args, err := r.sb.Insert("announcements").
		Columns("title", "content", "status", "published_at", "author_id").
		Values(a.Title, a.Content, a.Status, a.PublishedAt, a.AuthorID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create announcement SQL")
		return 0, fmt.Errorf("failed to build create announcement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		logger.Error().Err(err).Msg("Error executing create announcement query")
		return 0, fmt.Errorf("error creating announcement: %w", err)
	}
	return a.ID, nil
}

// Update writes title, content, status and publishedAt
func (r *AnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	sql, args, err := r.sb.Update("announcements").
		Set("title", a.Title).
		Set("content", a.Content).
		Set("status", a.Status).
		Set("published_at", a.PublishedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update announcement SQL")
		return fmt.Errorf("failed to build update announcement query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		logger.Error().Err(err).Int64("announcementID", a.ID).Msg("Error executing update announcement query")
		return fmt.Errorf("error updating announcement: %w", err)
	}
	return nil
}

// GetByID retrieves an announcement with its author name
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	sql, args, err := r.selectWithAuthor().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get announcement SQL")
		return nil, fmt.Errorf("failed to build get announcement query: %w", err)
	}

	a, err := scanAnnouncement(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("announcementID", id).Msg("Error scanning announcement row")
		return nil, fmt.Errorf("error getting announcement: %w", err)
	}
	return a, nil
}

// List returns announcements. With publishedOnly it returns the public feed
// ordered by publication time, otherwise every announcement by creation time.
func (r *AnnouncementRepository) List(ctx context.Context, publishedOnly bool) ([]*models.Announcement, error) {
	q := r.selectWithAuthor()
	if publishedOnly {
		q = q.Where(squirrel.Eq{"a.status": models.AnnouncementPublished}).
			OrderBy("a.published_at DESC", "a.id DESC")
	} else {
		q = q.OrderBy("a.created_at DESC", "a.id DESC")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list announcements SQL")
		return nil, fmt.Errorf("failed to build list announcements query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list announcements query")
		return nil, fmt.Errorf("error querying announcements: %w", err)
	}
	defer rows.Close()

	announcements := []*models.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning announcement row during list")
			return nil, fmt.Errorf("error scanning announcement row: %w", err)
		}
		announcements = append(announcements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcement rows: %w", err)
	}
	return announcements, nil
}

// Count returns the number of announcements
func (r *AnnouncementRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("announcements"))
}
