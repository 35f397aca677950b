package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tjmun/confreg/internal/app/controllers"
	"github.com/tjmun/confreg/internal/app/models"
	"github.com/tjmun/confreg/internal/app/models/dto"
	"github.com/tjmun/confreg/internal/middleware"
)

// Controllers groups every HTTP controller mounted by SetupRouter
type Controllers struct {
	Auth         *controllers.AuthController
	Registration *controllers.RegistrationController
	Announcement *controllers.AnnouncementController
	Conference   *controllers.ConferenceController
	Seat         *controllers.SeatController
	Settings     *controllers.SettingsController
	User         *controllers.UserController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/logout", c.Auth.Logout)
		auth.GET("/me", authMiddleware.RequireAuth(), c.Auth.Me)
	}

	// --- Public routes ---
	api.GET("/announcements", c.Announcement.ListPublishedAnnouncements)
	api.GET("/announcements/:id", c.Announcement.GetPublishedAnnouncement)
	api.GET("/conferences", c.Conference.ListConferences)
	// The detail view includes the caller's registration when a session is present
	api.GET("/conferences/:slug", authMiddleware.OptionalAuth(), c.Conference.GetConferenceBySlug)
	api.POST("/seat-query", c.Seat.QuerySeat)
	api.GET("/settings/contact", c.Settings.GetContact)
	api.GET("/settings/countdown", c.Settings.GetCountdown)

	// --- Signed-in registrant routes ---
	registrations := api.Group("/registrations")
	registrations.Use(authMiddleware.RequireAuth())
	{
		registrations.POST("", c.Registration.CreateRegistration)
		registrations.POST("/upload-test", c.Registration.UploadAcademicTest)
		registrations.GET("/mine", c.Registration.ListMyRegistrations)
	}

	// --- Administrator routes ---
	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", c.User.Dashboard)
		admin.GET("/users", c.User.ListUsers)

		admin.GET("/registrations", c.Registration.ListRegistrations)
		admin.PUT("/registrations/:id/status", c.Registration.UpdateStatus)
		admin.PUT("/registrations/:id/payment", c.Registration.UpdatePayment)
		admin.PUT("/registrations/:id/test-score", c.Registration.UpdateTestScore)

		admin.GET("/announcements", c.Announcement.AdminListAnnouncements)
		admin.GET("/announcements/:id", c.Announcement.AdminGetAnnouncement)
		admin.POST("/announcements", c.Announcement.CreateAnnouncement)
		admin.PUT("/announcements/:id", c.Announcement.UpdateAnnouncement)

		admin.GET("/conferences", c.Conference.ListConferences)
		admin.GET("/conferences/:id", c.Conference.AdminGetConference)
		admin.POST("/conferences", c.Conference.CreateConference)
		admin.PUT("/conferences/:id", c.Conference.UpdateConference)

		admin.POST("/seat-assignments/upload", c.Seat.UploadSeatAssignments)
		admin.GET("/seat-assignments", c.Seat.ListSeatAssignments)

		admin.GET("/settings", c.Settings.GetSettings)
		admin.PUT("/settings", c.Settings.UpdateSettings)
	}

	// Health check endpoint (public)
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, "pong"))
	})
}
