package models

import "time"

// Registration defines the model for the 'registrations' table.
// (user_id, conference_id) is unique.
type Registration struct {
	ID                   int64              `json:"id" db:"id"`
	UserID               int64              `json:"userId" db:"user_id"`
	ConferenceID         int64              `json:"conferenceId" db:"conference_id"`
	RegistrationStatus   RegistrationStatus `json:"registrationStatus" db:"registration_status"`
	PaymentStatus        PaymentStatus      `json:"paymentStatus" db:"payment_status"`
	PaymentTransactionID *string            `json:"paymentTransactionId,omitempty" db:"payment_transaction_id"`
	TestScore            *int               `json:"testScore,omitempty" db:"test_score"`
	AcademicTestURL      *string            `json:"academicTestUrl,omitempty" db:"academic_test_url"`
	RegisteredAt         time.Time          `json:"registeredAt" db:"registered_at"`
	UpdatedAt            time.Time          `json:"updatedAt" db:"updated_at"`

	User       *User       `json:"user,omitempty"`       // Relation, no db tag
	Conference *Conference `json:"conference,omitempty"` // Relation, no db tag
}

// RegistrationFilter narrows admin registration listings
type RegistrationFilter struct {
	Status       *RegistrationStatus
	ConferenceID *int64
	Offset       uint64
	Limit        uint64
}
