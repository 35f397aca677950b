package models

import "fmt"

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleAdmin   RoleType = "ADMIN"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	}
	return false
}

// RegistrationStatus is the admin-controlled review state of a registration.
// Any status may be overwritten by any other; there is no terminal state.
type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "PENDING"
	RegistrationApproved   RegistrationStatus = "APPROVED"
	RegistrationRejected   RegistrationStatus = "REJECTED"
	RegistrationWaitlisted RegistrationStatus = "WAITLISTED"
)

// RegistrationStatuses lists every registration status in display order
var RegistrationStatuses = []RegistrationStatus{
	RegistrationPending,
	RegistrationApproved,
	RegistrationRejected,
	RegistrationWaitlisted,
}

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected, RegistrationWaitlisted:
		return true
	}
	return false
}

// Label returns the Chinese display name
func (s RegistrationStatus) Label() string {
	switch s {
	case RegistrationPending:
		return "待审核"
	case RegistrationApproved:
		return "已通过"
	case RegistrationRejected:
		return "已拒绝"
	case RegistrationWaitlisted:
		return "候补"
	}
	return string(s)
}

// ParseRegistrationStatus converts s to a RegistrationStatus or fails
func ParseRegistrationStatus(s string) (RegistrationStatus, error) {
	status := RegistrationStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown registration status %q", s)
	}
	return status, nil
}

// PaymentStatus is recorded manually by administrators
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// Label returns the Chinese display name
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentUnpaid:
		return "未支付"
	case PaymentPaid:
		return "已支付"
	case PaymentRefunded:
		return "已退款"
	}
	return string(s)
}

// ParsePaymentStatus converts s to a PaymentStatus or fails
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown payment status %q", s)
	}
	return status, nil
}

// AnnouncementStatus controls public visibility of an announcement
type AnnouncementStatus string

const (
	AnnouncementDraft     AnnouncementStatus = "DRAFT"
	AnnouncementPublished AnnouncementStatus = "PUBLISHED"
)

func (s AnnouncementStatus) Valid() bool {
	switch s {
	case AnnouncementDraft, AnnouncementPublished:
		return true
	}
	return false
}

// ParseAnnouncementStatus converts s to an AnnouncementStatus or fails
func ParseAnnouncementStatus(s string) (AnnouncementStatus, error) {
	status := AnnouncementStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown announcement status %q", s)
	}
	return status, nil
}
