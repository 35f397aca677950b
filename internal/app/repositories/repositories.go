package repositories

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
)

// ErrNotFound is returned by every repository when a row does not exist
var ErrNotFound = fmt.Errorf("%w: record not found", apperrors.ErrResourceNotFound)

// Unique constraint violations surfaced by repositories
var (
	ErrDuplicateEmail          = errors.New("email already registered")
	ErrDuplicateConferenceName = errors.New("conference name already exists")
	ErrDuplicateConferenceSlug = errors.New("conference slug already exists")
	ErrDuplicateRegistration   = errors.New("registration already exists")
)

// Constraint names from migrations/001_init.sql
const (
	constraintUsersEmail              = "users_email_key"
	constraintConferencesName         = "conferences_name_key"
	constraintConferencesSlug         = "conferences_slug_key"
	constraintRegistrationsUserConf   = "registrations_user_conference_key"
	constraintSeatAssignmentsPersonVn = "seat_assignments_person_venue_key"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository           *UserRepository
	ConferenceRepository     *ConferenceRepository
	AnnouncementRepository   *AnnouncementRepository
	RegistrationRepository   *RegistrationRepository
	SeatAssignmentRepository *SeatAssignmentRepository
	SiteConfigRepository     *SiteConfigRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:           NewUserRepository(db),
		ConferenceRepository:     NewConferenceRepository(db),
		AnnouncementRepository:   NewAnnouncementRepository(db),
		RegistrationRepository:   NewRegistrationRepository(db),
		SeatAssignmentRepository: NewSeatAssignmentRepository(db),
		SiteConfigRepository:     NewSiteConfigRepository(db),
	}
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
