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

// IRegistrationRepository defines the interface for registration persistence
type IRegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
	GetByUserAndConference(ctx context.Context, userID, conferenceID int64) (*models.Registration, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Registration, error)
	List(ctx context.Context, filter models.RegistrationFilter) ([]*models.Registration, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.RegistrationStatus) error
	UpdatePayment(ctx context.Context, id int64, status models.PaymentStatus, transactionID *string) error
	UpdateTestScore(ctx context.Context, id int64, score int) error
	UpdateAcademicTestURL(ctx context.Context, id int64, url string) error
	Count(ctx context.Context, status *models.RegistrationStatus) (int64, error)
}

// RegistrationRepository handles registration database operations
type RegistrationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

var _ IRegistrationRepository = (*RegistrationRepository)(nil)

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

var registrationColumns = []string{
	"r.id", "r.user_id", "r.conference_id", "r.registration_status", "r.payment_status",
	"r.payment_transaction_id", "r.test_score", "r.academic_test_url", "r.registered_at", "r.updated_at",
}

func registrationDest(reg *models.Registration) []any {
	return []any{
		&reg.ID, &reg.UserID, &reg.ConferenceID, &reg.RegistrationStatus, &reg.PaymentStatus,
		&reg.PaymentTransactionID, &reg.TestScore, &reg.AcademicTestURL, &reg.RegisteredAt, &reg.UpdatedAt,
	}
}

// conferenceSummaryColumns is the conference projection joined onto registrations
var conferenceSummaryColumns = []string{
	"c.id", "c.name", "c.slug", "c.start_date", "c.end_date", "c.fee", "c.test_required", "c.test_prompt_url",
}

func conferenceSummaryDest(c *models.Conference) []any {
	return []any{&c.ID, &c.Name, &c.Slug, &c.StartDate, &c.EndDate, &c.Fee, &c.TestRequired, &c.TestPromptURL}
}

var userSummaryColumns = []string{"u.id", "u.email", "u.name", "u.school", "u.major", "u.phone", "u.role"}

func userSummaryDest(u *models.User) []any {
	return []any{&u.ID, &u.Email, &u.Name, &u.School, &u.Major, &u.Phone, &u.RoleType}
}

// Create inserts a PENDING/UNPAID registration
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) (int64, error) {
	sql, args, err := r.sb.Insert("registrations").
		Columns("user_id", "conference_id", "registration_status", "payment_status").
		Values(reg.UserID, reg.ConferenceID, reg.RegistrationStatus, reg.PaymentStatus).
		Suffix("RETURNING id, registered_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create registration SQL")
		return 0, fmt.Errorf("failed to build create registration query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&reg.ID, &reg.RegisteredAt, &reg.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintRegistrationsUserConf) {
			return 0, ErrDuplicateRegistration
		}
		logger.Error().Err(err).
			Int64("userID", reg.UserID).
			Int64("conferenceID", reg.ConferenceID).
			Msg("Error executing create registration query")
		return 0, fmt.Errorf("error creating registration: %w", err)
	}
	return reg.ID, nil
}

func (r *RegistrationRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Registration, error) {
	sql, args, err := r.sb.Select(registrationColumns...).
		From("registrations r").
		Where(where).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get registration SQL")
		return nil, fmt.Errorf("failed to build get registration query: %w", err)
	}

	reg := &models.Registration{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(registrationDest(reg)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning registration row")
		return nil, fmt.Errorf("error getting registration: %w", err)
	}
	return reg, nil
}

// GetByID retrieves a registration by ID
func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	return r.getOne(ctx, squirrel.Eq{"r.id": id})
}

// GetByUserAndConference retrieves the registration of a user for a conference
func (r *RegistrationRepository) GetByUserAndConference(ctx context.Context, userID, conferenceID int64) (*models.Registration, error) {
	return r.getOne(ctx, squirrel.Eq{"r.user_id": userID, "r.conference_id": conferenceID})
}

// ListByUser returns a user's registrations with their conference, newest first
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Registration, error) {
	cols := append(append([]string{}, registrationColumns...), conferenceSummaryColumns...)
	sql, args, err := r.sb.Select(cols...).
		From("registrations r").
		Join("conferences c ON c.id = r.conference_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.registered_at DESC", "r.id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list user registrations SQL")
		return nil, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list user registrations query")
		return nil, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	regs := []*models.Registration{}
	for rows.Next() {
		reg := &models.Registration{Conference: &models.Conference{}}
		dest := append(registrationDest(reg), conferenceSummaryDest(reg.Conference)...)
		if err := rows.Scan(dest...); err != nil {
			logger.Error().Err(err).Msg("Error scanning registration row during list")
			return nil, fmt.Errorf("error scanning registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return regs, nil
}

func applyRegistrationFilter(q squirrel.SelectBuilder, filter models.RegistrationFilter) squirrel.SelectBuilder {
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"r.registration_status": *filter.Status})
	}
	if filter.ConferenceID != nil {
		q = q.Where(squirrel.Eq{"r.conference_id": *filter.ConferenceID})
	}
	return q
}

// List returns a filtered page of registrations with user and conference
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]*models.Registration, int64, error) {
	total, err := countRows(ctx, r.db,
		applyRegistrationFilter(r.sb.Select("COUNT(*)").From("registrations r"), filter))
	if err != nil {
		return nil, 0, err
	}

	cols := append(append(append([]string{}, registrationColumns...), userSummaryColumns...), conferenceSummaryColumns...)
	q := r.sb.Select(cols...).
		From("registrations r").
		Join("users u ON u.id = r.user_id").
		Join("conferences c ON c.id = r.conference_id").
		OrderBy("r.registered_at DESC", "r.id DESC")
	q = applyRegistrationFilter(q, filter)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list registrations SQL")
		return nil, 0, fmt.Errorf("failed to build list registrations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list registrations query")
		return nil, 0, fmt.Errorf("error querying registrations: %w", err)
	}
	defer rows.Close()

	regs := []*models.Registration{}
	for rows.Next() {
		reg := &models.Registration{User: &models.User{}, Conference: &models.Conference{}}
		dest := registrationDest(reg)
		dest = append(dest, userSummaryDest(reg.User)...)
		dest = append(dest, conferenceSummaryDest(reg.Conference)...)
		if err := rows.Scan(dest...); err != nil {
			logger.Error().Err(err).Msg("Error scanning registration row during admin list")
			return nil, 0, fmt.Errorf("error scanning registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return regs, total, nil
}

func (r *RegistrationRepository) update(ctx context.Context, id int64, set map[string]any, what string) error {
	sql, args, err := r.sb.Update("registrations").
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("field", what).Msg("Error building update registration SQL")
		return fmt.Errorf("failed to build update registration %s query: %w", what, err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("registrationID", id).Str("field", what).Msg("Error executing update registration query")
		return fmt.Errorf("error updating registration %s: %w", what, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus overwrites the registration status
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id int64, status models.RegistrationStatus) error {
	return r.update(ctx, id, map[string]any{"registration_status": status}, "status")
}

// UpdatePayment overwrites the payment status and transaction id
func (r *RegistrationRepository) UpdatePayment(ctx context.Context, id int64, status models.PaymentStatus, transactionID *string) error {
	return r.update(ctx, id, map[string]any{
		"payment_status":         status,
		"payment_transaction_id": transactionID,
	}, "payment")
}

// UpdateTestScore records the academic test score
func (r *RegistrationRepository) UpdateTestScore(ctx context.Context, id int64, score int) error {
	return r.update(ctx, id, map[string]any{"test_score": score}, "test score")
}

// UpdateAcademicTestURL points the registration at a newly uploaded test file
func (r *RegistrationRepository) UpdateAcademicTestURL(ctx context.Context, id int64, url string) error {
	return r.update(ctx, id, map[string]any{"academic_test_url": url}, "academic test url")
}

// Count returns the number of registrations, optionally restricted to one status
func (r *RegistrationRepository) Count(ctx context.Context, status *models.RegistrationStatus) (int64, error) {
	return countRows(ctx, r.db,
		applyRegistrationFilter(r.sb.Select("COUNT(*)").From("registrations r"),
			models.RegistrationFilter{Status: status}))
}
