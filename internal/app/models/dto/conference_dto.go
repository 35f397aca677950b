package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tjmun/confreg/internal/app/models"
)

// ConferenceRequest is the payload for creating or updating a conference.
// Dates are kept as strings and parsed by the service in the configured zone.
type ConferenceRequest struct {
	Name                  string        `json:"name" binding:"required" label:"会议名称"`
	Slug                  string        `json:"slug" binding:"required,slug" label:"URL标识"`
	Description           string        `json:"description" binding:"required" label:"会议描述"`
	StartDate             string        `json:"startDate" binding:"required" label:"开始时间"`
	EndDate               string        `json:"endDate" binding:"required" label:"结束时间"`
	RegistrationOpenDate  string        `json:"registrationOpenDate" binding:"required" label:"报名开始时间"`
	RegistrationCloseDate string        `json:"registrationCloseDate" binding:"required" label:"报名截止时间"`
	Fee                   FlexibleFloat `json:"fee" binding:"gte=0" label:"费用"`
	TestRequired          bool          `json:"testRequired"`
	TestPromptURL         string        `json:"testPromptUrl" binding:"omitempty,url" label:"测试题目链接"`
}

// ConferenceResponse adds the current registration window state
type ConferenceResponse struct {
	*models.Conference
	RegistrationState models.RegistrationState `json:"registrationState"`
}

// ConferenceDetailResponse is the public detail view; MyRegistration is set
// only when the caller is signed in and registered.
type ConferenceDetailResponse struct {
	ConferenceResponse
	MyRegistration *models.Registration `json:"myRegistration,omitempty"`
}

// FlexibleFloat accepts a JSON number, a numeric string, an empty string or null.
type FlexibleFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		*f = FlexibleFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexibleFloat(v)
	return nil
}
