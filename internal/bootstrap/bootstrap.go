package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/tjmun/confreg/internal/app/controllers"
	appMigrations "github.com/tjmun/confreg/internal/app/migrations"
	appRepos "github.com/tjmun/confreg/internal/app/repositories"
	appRoutes "github.com/tjmun/confreg/internal/app/routes"
	appServices "github.com/tjmun/confreg/internal/app/services"
	"github.com/tjmun/confreg/internal/config"
	"github.com/tjmun/confreg/internal/db"
	appMiddleware "github.com/tjmun/confreg/internal/middleware"
	pkgAuth "github.com/tjmun/confreg/internal/pkg/auth"
	"github.com/tjmun/confreg/internal/pkg/filestorage"
	"github.com/tjmun/confreg/internal/pkg/helpers"
	"github.com/tjmun/confreg/internal/pkg/logger"
	"github.com/tjmun/confreg/internal/pkg/validation"
	"github.com/tjmun/confreg/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Logger      zerolog.Logger

	AuthService         *appServices.AuthService
	UserService         appServices.UserService
	ConferenceService   appServices.ConferenceService
	AnnouncementService appServices.AnnouncementService
	RegistrationService appServices.RegistrationService
	SeatService         appServices.SeatService
	SettingsService     appServices.SettingsService
	DashboardService    appServices.DashboardService

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool without touching the schema.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database.Pool, nil
}

// SetupDatabase connects, applies migrations and seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	dbPool, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(dbPool)
	admin := seed.AdminAccount{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		Name:     cfg.Seed.AdminName,
		School:   cfg.Registration.DefaultSchool,
	}
	if err := seed.CreateDefaultData(ctx, repos.SiteConfigRepository, repos.UserRepository, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	loc := cfg.Location()

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.PublicURLPrefix)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 168*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, cfg.Registration.DefaultSchool, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository)
	deps.ConferenceService = appServices.NewConferenceService(deps.Repos.ConferenceRepository, deps.Repos.RegistrationRepository, loc)
	deps.AnnouncementService = appServices.NewAnnouncementService(deps.Repos.AnnouncementRepository)
	deps.RegistrationService = appServices.NewRegistrationService(
		deps.Repos.RegistrationRepository,
		deps.Repos.ConferenceRepository,
		deps.FileStorage,
		cfg.Upload.MaxTestFileSize,
	)
	deps.SeatService = appServices.NewSeatService(deps.Repos.SeatAssignmentRepository)
	deps.SettingsService = appServices.NewSettingsService(deps.Repos.SiteConfigRepository, loc)
	deps.DashboardService = appServices.NewDashboardService(
		deps.Repos.UserRepository,
		deps.Repos.ConferenceRepository,
		deps.Repos.AnnouncementRepository,
		deps.Repos.RegistrationRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, cfg.JWT.CookieName)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, cfg.JWT.CookieName, cfg.JWT.CookieSecure, lgr),
		Registration: appControllers.NewRegistrationController(deps.RegistrationService),
		Announcement: appControllers.NewAnnouncementController(deps.AnnouncementService),
		Conference:   appControllers.NewConferenceController(deps.ConferenceService),
		Seat:         appControllers.NewSeatController(deps.SeatService, cfg.Upload.MaxSheetSize),
		Settings:     appControllers.NewSettingsController(deps.SettingsService),
		User:         appControllers.NewUserController(deps.UserService, deps.DashboardService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.SetupGinValidator(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(),
		appMiddleware.CORS(cfg.Server.FrontendURL),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.Static(cfg.Server.PublicURLPrefix, cfg.Server.StoragePath)
	lgr.Info().
		Str("path", cfg.Server.StoragePath).
		Str("prefix", cfg.Server.PublicURLPrefix).
		Msg("Static file serving configured for uploads directory")

	return router, nil
}
