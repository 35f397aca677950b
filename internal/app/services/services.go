package services

// Services defined in this package:
// - AuthService: sign-up, login and session identity
// - UserService: admin account listing and role promotion
// - ConferenceService: conference CRUD and registration window state
// - AnnouncementService: announcement drafting and publishing
// - RegistrationService: registration workflow and academic test uploads
// - SeatService: seat spreadsheet import and lookup
// - SettingsService: contact and countdown site settings
// - DashboardService: admin overview counts
