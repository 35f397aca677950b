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
	"github.com/tjmun/confreg/internal/pkg/logger"
)

const msgAnnouncementNotFound = "公告不存在"

// AnnouncementService defines the interface for announcement operations
type AnnouncementService interface {
	Create(ctx context.Context, author auth.Principal, req *dto.AnnouncementRequest) (*models.Announcement, error)
	Update(ctx context.Context, id int64, req *dto.AnnouncementRequest) (*models.Announcement, error)
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	ListAll(ctx context.Context) ([]*models.Announcement, error)
	ListPublished(ctx context.Context) ([]*models.Announcement, error)
	GetPublished(ctx context.Context, id int64) (*models.Announcement, error)
}

type announcementServiceImpl struct {
	announcementRepo repositories.IAnnouncementRepository
	now              func() time.Time
}

// NewAnnouncementService creates a new announcement service instance
func NewAnnouncementService(announcementRepo repositories.IAnnouncementRepository) AnnouncementService {
	return &announcementServiceImpl{
		announcementRepo: announcementRepo,
		now:              time.Now,
	}
}

func parseAnnouncementStatus(s string) (models.AnnouncementStatus, error) {
	status, err := models.ParseAnnouncementStatus(s)
	if err != nil {
		return "", apperrors.NewValidationError("status", "公告状态无效")
	}
	return status, nil
}

func (s *announcementServiceImpl) Create(ctx context.Context, author auth.Principal, req *dto.AnnouncementRequest) (*models.Announcement, error) {
	status, err := parseAnnouncementStatus(req.Status)
	if err != nil {
		return nil, err
	}

	a := &models.Announcement{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		AuthorID: author.UserID,
	}
	a.ApplyStatus(status, s.now())

	if _, err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("error creating announcement: %w", err)
	}

	logger.Info().Int64("announcementID", a.ID).Str("status", string(a.Status)).Msg("Announcement created")
	return a, nil
}

func (s *announcementServiceImpl) Update(ctx context.Context, id int64, req *dto.AnnouncementRequest) (*models.Announcement, error) {
	status, err := parseAnnouncementStatus(req.Status)
	if err != nil {
		return nil, err
	}

	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(msgAnnouncementNotFound)
		}
		return nil, fmt.Errorf("error loading announcement: %w", err)
	}

	a.Title = strings.TrimSpace(req.Title)
	a.Content = req.Content
	a.ApplyStatus(status, s.now())

	if err := s.announcementRepo.Update(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(msgAnnouncementNotFound)
		}
		return nil, fmt.Errorf("error updating announcement: %w", err)
	}
	return a, nil
}

func (s *announcementServiceImpl) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(msgAnnouncementNotFound)
		}
		return nil, fmt.Errorf("error loading announcement: %w", err)
	}
	return a, nil
}

func (s *announcementServiceImpl) ListAll(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcementRepo.List(ctx, false)
}

func (s *announcementServiceImpl) ListPublished(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcementRepo.List(ctx, true)
}

// GetPublished hides drafts behind NOT_FOUND
func (s *announcementServiceImpl) GetPublished(ctx context.Context, id int64) (*models.Announcement, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != models.AnnouncementPublished {
		return nil, apperrors.NewResourceNotFoundError(msgAnnouncementNotFound)
	}
	return a, nil
}
