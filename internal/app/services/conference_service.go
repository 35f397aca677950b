package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/auth"
	"github.com/tjmun/confreg/internal/pkg/helpers"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

const (
	msgConferenceNotFound = "会议不存在"
	msgConferenceNameUsed = "会议名称已存在"
	msgConferenceSlugUsed = "URL标识已被使用"
)

// ConferenceService defines the interface for conference operations
type ConferenceService interface {
	Create(ctx context.Context, req *dto.ConferenceRequest) (*models.Conference, error)
	Update(ctx context.Context, id int64, req *dto.ConferenceRequest) (*models.Conference, error)
	GetByID(ctx context.Context, id int64) (*dto.ConferenceResponse, error)
	List(ctx context.Context) ([]dto.ConferenceResponse, error)
	// GetPublicBySlug returns the conference detail; when principal is non-nil
	// the caller's own registration is attached.
	GetPublicBySlug(ctx context.Context, slug string, principal *auth.Principal) (*dto.ConferenceDetailResponse, error)
}

type conferenceServiceImpl struct {
	conferenceRepo   repositories.IConferenceRepository
	registrationRepo repositories.IRegistrationRepository
	loc              *time.Location
	now              func() time.Time
}

// NewConferenceService creates a new conference service instance.
// Local date strings are interpreted in loc.
func NewConferenceService(
	conferenceRepo repositories.IConferenceRepository,
	registrationRepo repositories.IRegistrationRepository,
	loc *time.Location,
) ConferenceService {
	return &conferenceServiceImpl{
		conferenceRepo:   conferenceRepo,
		registrationRepo: registrationRepo,
		loc:              loc,
		now:              time.Now,
	}
}

func parseConferenceDate(field, value string, loc *time.Location) (time.Time, error) {
	t, err := helpers.ParseDateTime(value, loc)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field, err.Error())
	}
	return t, nil
}

// buildConference converts the request into a model, rejecting malformed dates
func (s *conferenceServiceImpl) buildConference(req *dto.ConferenceRequest) (*models.Conference, error) {
	if req.Fee < 0 {
		return nil, apperrors.NewValidationError("fee", "费用不能为负数")
	}

	c := &models.Conference{
		Name:          strings.TrimSpace(req.Name),
		Slug:          strings.TrimSpace(req.Slug),
		Description:   req.Description,
		Fee:           float64(req.Fee),
		TestRequired:  req.TestRequired,
		TestPromptURL: helpers.NullIfEmpty(req.TestPromptURL),
	}

	dates := []struct {
		field string
		value string
		dst   *time.Time
	}{
		{"startDate", req.StartDate, &c.StartDate},
		{"endDate", req.EndDate, &c.EndDate},
		{"registrationOpenDate", req.RegistrationOpenDate, &c.RegistrationOpenDate},
		{"registrationCloseDate", req.RegistrationCloseDate, &c.RegistrationCloseDate},
	}
	for _, d := range dates {
		t, err := parseConferenceDate(d.field, d.value, s.loc)
		if err != nil {
			return nil, err
		}
		*d.dst = t
	}

	return c, nil
}

// checkUnique rejects a name or slug already held by a conference other than excludeID
func (s *conferenceServiceImpl) checkUnique(ctx context.Context, c *models.Conference, checkName, checkSlug bool, excludeID int64) error {
	if checkName {
		exists, err := s.conferenceRepo.ExistsByName(ctx, c.Name, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError(msgConferenceNameUsed)
		}
	}
	if checkSlug {
		exists, err := s.conferenceRepo.ExistsBySlug(ctx, c.Slug, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError(msgConferenceSlugUsed)
		}
	}
	return nil
}

func mapConferenceRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError(msgConferenceNotFound)
	case errors.Is(err, repositories.ErrDuplicateConferenceName):
		return apperrors.NewConflictError(msgConferenceNameUsed)
	case errors.Is(err, repositories.ErrDuplicateConferenceSlug):
		return apperrors.NewConflictError(msgConferenceSlugUsed)
	}
	return err
}

func (s *conferenceServiceImpl) Create(ctx context.Context, req *dto.ConferenceRequest) (*models.Conference, error) {
	c, err := s.buildConference(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, c, true, true, 0); err != nil {
		return nil, err
	}

	if _, err := s.conferenceRepo.Create(ctx, c); err != nil {
		return nil, mapConferenceRepoError(err)
	}

	logger.Info().Int64("conferenceID", c.ID).Str("slug", c.Slug).Msg("Conference created")
	return c, nil
}

func (s *conferenceServiceImpl) Update(ctx context.Context, id int64, req *dto.ConferenceRequest) (*models.Conference, error) {
	existing, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapConferenceRepoError(err)
	}

	c, err := s.buildConference(req)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt

	if err := s.checkUnique(ctx, c, c.Name != existing.Name, c.Slug != existing.Slug, id); err != nil {
		return nil, err
	}

	if err := s.conferenceRepo.Update(ctx, c); err != nil {
		return nil, mapConferenceRepoError(err)
	}

	logger.Info().Int64("conferenceID", c.ID).Msg("Conference updated")
	return c, nil
}

func (s *conferenceServiceImpl) withState(c *models.Conference) dto.ConferenceResponse {
	return dto.ConferenceResponse{
		Conference:        c,
		RegistrationState: c.RegistrationStateAt(s.now()),
	}
}

func (s *conferenceServiceImpl) GetByID(ctx context.Context, id int64) (*dto.ConferenceResponse, error) {
	c, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapConferenceRepoError(err)
	}
	resp := s.withState(c)
	return &resp, nil
}

func (s *conferenceServiceImpl) List(ctx context.Context) ([]dto.ConferenceResponse, error) {
	conferences, err := s.conferenceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing conferences: %w", err)
	}

	out := make([]dto.ConferenceResponse, 0, len(conferences))
	for _, c := range conferences {
		out = append(out, s.withState(c))
	}
	return out, nil
}

func (s *conferenceServiceImpl) GetPublicBySlug(ctx context.Context, slug string, principal *auth.Principal) (*dto.ConferenceDetailResponse, error) {
	c, err := s.conferenceRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapConferenceRepoError(err)
	}

	resp := &dto.ConferenceDetailResponse{ConferenceResponse: s.withState(c)}
	if principal == nil {
		return resp, nil
	}

	reg, err := s.registrationRepo.GetByUserAndConference(ctx, principal.UserID, c.ID)
	switch {
	case err == nil:
		resp.MyRegistration = reg
	case errors.Is(err, repositories.ErrNotFound):
	default:
		return nil, fmt.Errorf("error loading registration: %w", err)
	}
	return resp, nil
}
