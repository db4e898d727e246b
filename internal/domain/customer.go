package domain

import "time"

// Customer is identified at the till by a 10 digit mobile number.
type Customer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	MobileNumber string    `json:"mobileNumber"`
	Email        *string   `json:"email,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
