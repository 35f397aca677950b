package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/apperrors"
	"github.com/tjmun/confreg/internal/pkg/helpers"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

// SettingsService manages the site_config key/value store
type SettingsService interface {
	Update(ctx context.Context, req *dto.UpdateSettingsRequest) ([]*models.SiteConfig, error)
	GetAll(ctx context.Context) ([]*models.SiteConfig, error)
	Contact(ctx context.Context) (map[string]string, error)
	Countdown(ctx context.Context) (*time.Time, error)
}

type settingsServiceImpl struct {
	siteConfigRepo repositories.ISiteConfigRepository
	loc            *time.Location
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(siteConfigRepo repositories.ISiteConfigRepository, loc *time.Location) SettingsService {
	return &settingsServiceImpl{
		siteConfigRepo: siteConfigRepo,
		loc:            loc,
	}
}

func settingEntry(key, value string) models.SiteConfig {
	return models.SiteConfig{Key: key, Value: value, Label: models.SiteConfigLabels[key]}
}

func (s *settingsServiceImpl) Update(ctx context.Context, req *dto.UpdateSettingsRequest) ([]*models.SiteConfig, error) {
	var entries []models.SiteConfig

	text := []struct {
		key   string
		value *string
	}{
		{models.ConfigContactEmail, req.ContactEmail},
		{models.ConfigContactPhone, req.ContactPhone},
		{models.ConfigContactAddress, req.ContactAddress},
		{models.ConfigContactWechat, req.ContactWechat},
	}
	for _, t := range text {
		if t.value != nil {
			entries = append(entries, settingEntry(t.key, strings.TrimSpace(*t.value)))
		}
	}

	if req.CountdownTarget != nil {
		value := strings.TrimSpace(*req.CountdownTarget)
		if value != "" {
			target, err := helpers.ParseDateTime(value, s.loc)
			if err != nil {
				return nil, apperrors.NewValidationError("countdown_target", err.Error())
			}
			value = target.Format(time.RFC3339)
		}
		entries = append(entries, settingEntry(models.ConfigCountdownTarget, value))
	}

	if err := s.siteConfigRepo.UpsertMany(ctx, entries); err != nil {
		return nil, fmt.Errorf("error saving settings: %w", err)
	}

	logger.Info().Int("keys", len(entries)).Msg("Site settings updated")
	return s.siteConfigRepo.GetAll(ctx)
}

func (s *settingsServiceImpl) GetAll(ctx context.Context) ([]*models.SiteConfig, error) {
	return s.siteConfigRepo.GetAll(ctx)
}

// Contact returns every contact key, empty when unset
func (s *settingsServiceImpl) Contact(ctx context.Context) (map[string]string, error) {
	entries, err := s.siteConfigRepo.GetByKeys(ctx, models.ContactConfigKeys)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(models.ContactConfigKeys))
	for _, k := range models.ContactConfigKeys {
		out[k] = ""
	}
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

// Countdown returns the configured countdown target, or nil when unset or unparseable
func (s *settingsServiceImpl) Countdown(ctx context.Context) (*time.Time, error) {
	entries, err := s.siteConfigRepo.GetByKeys(ctx, []string{models.ConfigCountdownTarget})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 || strings.TrimSpace(entries[0].Value) == "" {
		return nil, nil
	}

	target, err := helpers.ParseDateTime(entries[0].Value, s.loc)
	if err != nil {
		logger.Warn().Str("value", entries[0].Value).Msg("Stored countdown target is not a datetime")
		return nil, nil
	}
	return &target, nil
}
