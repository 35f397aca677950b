package models

import "time"

// Conference defines the model for the 'conferences' table
type Conference struct {
	ID                    int64     `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	Slug                  string    `json:"slug" db:"slug"`
	Description           string    `json:"description" db:"description"`
	StartDate             time.Time `json:"startDate" db:"start_date"`
	EndDate               time.Time `json:"endDate" db:"end_date"`
	RegistrationOpenDate  time.Time `json:"registrationOpenDate" db:"registration_open_date"`
	RegistrationCloseDate time.Time `json:"registrationCloseDate" db:"registration_close_date"`
	Fee                   float64   `json:"fee" db:"fee"`
	TestRequired          bool      `json:"testRequired" db:"test_required"`
	TestPromptURL         *string   `json:"testPromptUrl,omitempty" db:"test_prompt_url"`
	CreatedAt             time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time `json:"updatedAt" db:"updated_at"`
}

// RegistrationState describes where "now" falls relative to the registration window
type RegistrationState string

const (
	RegistrationNotOpen RegistrationState = "NOT_OPEN"
	RegistrationOpen    RegistrationState = "OPEN"
	RegistrationClosed  RegistrationState = "CLOSED"
)

// RegistrationStateAt returns the window state at t. Both bounds are inclusive.
func (c *Conference) RegistrationStateAt(t time.Time) RegistrationState {
	switch {
	case t.Before(c.RegistrationOpenDate):
		return RegistrationNotOpen
	case t.After(c.RegistrationCloseDate):
		return RegistrationClosed
	default:
		return RegistrationOpen
	}
}
