package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/tjmun/confreg/internal/app/models"
	appRepos "github.com/tjmun/confreg/internal/app/repositories"
	"github.com/tjmun/confreg/internal/pkg/auth"
	"github.com/tjmun/confreg/internal/pkg/validation"
)

// AdminAccount describes the bootstrap administrator. An empty Email disables it.
type AdminAccount struct {
	Email    string
	Password string
	Name     string
	School   string
}

// defaultSiteConfig lists every known settings key with an empty value
func defaultSiteConfig() []appModels.SiteConfig {
	keys := []string{
		appModels.ConfigContactEmail,
		appModels.ConfigContactPhone,
		appModels.ConfigContactAddress,
		appModels.ConfigContactWechat,
		appModels.ConfigCountdownTarget,
	}
	entries := make([]appModels.SiteConfig, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, appModels.SiteConfig{Key: key, Label: appModels.SiteConfigLabels[key]})
	}
	return entries
}

// CreateDefaultData creates the site settings keys and the bootstrap
// administrator if they don't exist. Existing values are never overwritten.
func CreateDefaultData(
	ctx context.Context,
	siteConfigRepo appRepos.ISiteConfigRepository,
	userRepo appRepos.IUserRepository,
	admin AdminAccount,
	lgr zerolog.Logger,
) error {
	lgr.Info().Msg("Checking/Creating default data (site settings, administrator)...")
	var finalErr error

	if err := siteConfigRepo.InsertDefaults(ctx, defaultSiteConfig()); err != nil {
		lgr.Error().Err(err).Msg("Error creating default site settings")
		finalErr = errors.Join(finalErr, err)
	}

	if err := ensureAdmin(ctx, userRepo, admin, lgr); err != nil {
		lgr.Error().Err(err).Str("email", admin.Email).Msg("Error creating bootstrap administrator")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func ensureAdmin(ctx context.Context, userRepo appRepos.IUserRepository, admin AdminAccount, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" {
		return nil
	}

	existing, err := userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			lgr.Info().Str("email", email).Msg("Administrator already exists, skipping creation")
			return nil
		}
		if err := userRepo.UpdateRole(ctx, existing.ID, appModels.RoleAdmin); err != nil {
			return err
		}
		lgr.Info().Int64("userID", existing.ID).Msg("Existing account promoted to administrator")
		return nil
	case !errors.Is(err, appRepos.ErrNotFound):
		return err
	}

	if len(admin.Password) < validation.PasswordMinLength {
		return fmt.Errorf("seed admin password must be at least %d characters", validation.PasswordMinLength)
	}
	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	id, err := userRepo.Create(ctx, &appModels.User{
		Email:    email,
		Password: hashed,
		Name:     admin.Name,
		School:   admin.School,
		RoleType: appModels.RoleAdmin,
	})
	if err != nil {
		return err
	}
	lgr.Info().Int64("adminID", id).Msg("Default admin user created successfully")
	return nil
}
