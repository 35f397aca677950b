package dto

// CreateRegistrationRequest registers the caller for a conference
type CreateRegistrationRequest struct {
	ConferenceID int64 `json:"conferenceId" binding:"required,gt=0" label:"会议ID"`
}

// UploadTestForm is the non-file part of the academic test upload
type UploadTestForm struct {
	ConferenceID int64 `form:"conferenceId" binding:"required,gt=0" label:"会议ID"`
}

// UpdateRegistrationStatusRequest overwrites the review status
type UpdateRegistrationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED WAITLISTED" label:"报名状态"`
}

// UpdatePaymentRequest records a manual payment state
type UpdatePaymentRequest struct {
	Status        string  `json:"status" binding:"required,oneof=UNPAID PAID REFUNDED" label:"支付状态"`
	TransactionID *string `json:"transactionId" binding:"omitempty,max=128" label:"交易号"`
}

// UpdateTestScoreRequest records an academic test score
type UpdateTestScoreRequest struct {
	Score *int `json:"score" binding:"required,min=0,max=100" label:"分数"`
}

// UploadTestResponse is returned after a test document is stored
type UploadTestResponse struct {
	RegistrationID  int64  `json:"registrationId"`
	AcademicTestURL string `json:"academicTestUrl"`
}

// RegistrationListQuery holds admin listing filters
type RegistrationListQuery struct {
	Status       string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED WAITLISTED" label:"报名状态"`
	ConferenceID int64  `form:"conferenceId" binding:"omitempty,gt=0" label:"会议ID"`
}
