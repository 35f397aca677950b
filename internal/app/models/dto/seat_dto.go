package dto

// SeatQueryRequest is the public seat lookup payload
type SeatQueryRequest struct {
	Name          string `json:"name" binding:"required" label:"姓名"`
	PhoneLastFour string `json:"phoneLastFour" binding:"required,digits4" label:"手机号后四位"`
}

// SeatQueryResponse exposes only what the attendee needs
type SeatQueryResponse struct {
	Venue   string `json:"venue"`
	Seat    string `json:"seat"`
	QQGroup string `json:"qqGroup"`
}

// SeatImportResponse reports how many rows were inserted
type SeatImportResponse struct {
	Imported int64 `json:"imported"`
}
