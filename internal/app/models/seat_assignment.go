package models

// SeatAssignment is one imported row of the seat lookup dataset.
// It is not linked to users or registrations.
type SeatAssignment struct {
	ID           int64  `json:"id" db:"id"`
	SerialNumber *int   `json:"serialNumber,omitempty" db:"serial_number"`
	Name         string `json:"name" db:"name"`
	Phone        string `json:"phone" db:"phone"`
	Venue        string `json:"venue" db:"venue"`
	Seat         string `json:"seat" db:"seat"`
	QQGroup      string `json:"qqGroup" db:"qq_group"`
}

// SeatQuery is the lookup key for a seat assignment
type SeatQuery struct {
	Name          string
	PhoneLastFour string
}
