package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/db"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

// seatInsertBatchSize bounds the rows per INSERT statement (6 params each)
const seatInsertBatchSize = 500

// ISeatAssignmentRepository defines the interface for the seat dataset
type ISeatAssignmentRepository interface {
	ReplaceAll(ctx context.Context, rows []models.SeatAssignment) (int64, error)
	FindMatches(ctx context.Context, query models.SeatQuery) ([]*models.SeatAssignment, error)
	List(ctx context.Context, offset, limit uint64) ([]*models.SeatAssignment, int64, error)
}

// SeatAssignmentRepository handles seat_assignments database operations
type SeatAssignmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ ISeatAssignmentRepository = (*SeatAssignmentRepository)(nil)

// NewSeatAssignmentRepository creates a new SeatAssignmentRepository
func NewSeatAssignmentRepository(db *pgxpool.Pool) *SeatAssignmentRepository {
	return &SeatAssignmentRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

var seatColumns = []string{"id", "serial_number", "name", "phone", "venue", "seat", "qq_group"}

func scanSeat(row pgx.Row) (*models.SeatAssignment, error) {
	s := &models.SeatAssignment{}
	if err := row.Scan(&s.ID, &s.SerialNumber, &s.Name, &s.Phone, &s.Venue, &s.Seat, &s.QQGroup); err != nil {
		return nil, err
	}
	return s, nil
}

// seatInsertBatch is one multi-row INSERT of the replace
type seatInsertBatch struct {
	start int
	sql   string
	args  []interface{}
}

// buildInsertBatches splits rows into INSERT statements of at most
// seatInsertBatchSize rows each
func (r *SeatAssignmentRepository) buildInsertBatches(rows []models.SeatAssignment) ([]seatInsertBatch, error) {
	batches := make([]seatInsertBatch, 0, (len(rows)+seatInsertBatchSize-1)/seatInsertBatchSize)
	for start := 0; start < len(rows); start += seatInsertBatchSize {
		end := min(start+seatInsertBatchSize, len(rows))

		q := r.sb.Insert("seat_assignments").
			Columns("serial_number", "name", "phone", "venue", "seat", "qq_group")
		for _, s := range rows[start:end] {
			q = q.Values(s.SerialNumber, s.Name, s.Phone, s.Venue, s.Seat, s.QQGroup)
		}
		sql, args, err := q.Suffix("ON CONFLICT ON CONSTRAINT " + constraintSeatAssignmentsPersonVn + " DO NOTHING").ToSql()
		if err != nil {
			logger.Error().Err(err).Int("batchStart", start).Msg("Error building seat batch insert SQL")
			return nil, fmt.Errorf("failed to build seat insert query: %w", err)
		}
		batches = append(batches, seatInsertBatch{start: start, sql: sql, args: args})
	}
	return batches, nil
}

// ReplaceAll swaps the whole dataset for rows inside one transaction.
// Rows colliding on (name, phone, venue) are skipped; the returned count is
// the number of rows actually inserted.
func (r *SeatAssignmentRepository) ReplaceAll(ctx context.Context, rows []models.SeatAssignment) (int64, error) {
	batches, err := r.buildInsertBatches(rows)
	if err != nil {
		return 0, err
	}

	var inserted int64
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM seat_assignments"); err != nil {
			logger.Error().Err(err).Msg("Error clearing seat assignments")
			return fmt.Errorf("error clearing seat assignments: %w", err)
		}

		for _, b := range batches {
			cmdTag, err := tx.Exec(ctx, b.sql, b.args...)
			if err != nil {
				logger.Error().Err(err).Int("batchStart", b.start).Msg("Error inserting seat batch")
				return fmt.Errorf("error inserting seat assignments: %w", err)
			}
			inserted += cmdTag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// FindMatches returns the rows whose name equals query.Name ignoring case and
// whose phone ends with query.PhoneLastFour, in insertion order.
func (r *SeatAssignmentRepository) FindMatches(ctx context.Context, query models.SeatQuery) ([]*models.SeatAssignment, error) {
	sql, args, err := r.sb.Select(seatColumns...).
		From("seat_assignments").
		Where(squirrel.Expr("LOWER(name) = LOWER(?)", strings.TrimSpace(query.Name))).
		Where(squirrel.Like{"phone": "%" + query.PhoneLastFour}).
		OrderBy("id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building seat lookup SQL")
		return nil, fmt.Errorf("failed to build seat lookup query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing seat lookup query")
		return nil, fmt.Errorf("error querying seat assignments: %w", err)
	}
	defer rows.Close()

	var matches []*models.SeatAssignment
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning seat row: %w", err)
		}
		matches = append(matches, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seat rows: %w", err)
	}
	return matches, nil
}

// List returns a page of the seat dataset ordered by serial number
func (r *SeatAssignmentRepository) List(ctx context.Context, offset, limit uint64) ([]*models.SeatAssignment, int64, error) {
	total, err := countRows(ctx, r.db, r.sb.Select("COUNT(*)").From("seat_assignments"))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := r.sb.Select(seatColumns...).
		From("seat_assignments").
		OrderBy("serial_number NULLS LAST", "id").
		Offset(offset).
		Limit(limit).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list seats SQL")
		return nil, 0, fmt.Errorf("failed to build list seats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list seats query")
		return nil, 0, fmt.Errorf("error querying seat assignments: %w", err)
	}
	defer rows.Close()

	seats := []*models.SeatAssignment{}
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning seat row: %w", err)
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating seat rows: %w", err)
	}
	return seats, total, nil
}
