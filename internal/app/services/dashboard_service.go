package services

import (
	"context"

	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/repositories"
)

// DashboardService aggregates admin overview counts
type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type dashboardServiceImpl struct {
	userRepo         repositories.IUserRepository
	conferenceRepo   repositories.IConferenceRepository
	announcementRepo repositories.IAnnouncementRepository
	registrationRepo repositories.IRegistrationRepository
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	userRepo repositories.IUserRepository,
	conferenceRepo repositories.IConferenceRepository,
	announcementRepo repositories.IAnnouncementRepository,
	registrationRepo repositories.IRegistrationRepository,
) DashboardService {
	return &dashboardServiceImpl{
		userRepo:         userRepo,
		conferenceRepo:   conferenceRepo,
		announcementRepo: announcementRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *dashboardServiceImpl) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		stats models.DashboardStats
		err   error
	)

	if stats.Users, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Conferences, err = s.conferenceRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Announcements, err = s.announcementRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Registrations, err = s.registrationRepo.Count(ctx, nil); err != nil {
		return nil, err
	}

	pending, approved := models.RegistrationPending, models.RegistrationApproved
	if stats.PendingRegistrations, err = s.registrationRepo.Count(ctx, &pending); err != nil {
		return nil, err
	}
	if stats.ApprovedRegistrations, err = s.registrationRepo.Count(ctx, &approved); err != nil {
		return nil, err
	}

	return &stats, nil
}
