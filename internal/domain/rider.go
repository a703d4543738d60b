package domain

import "time"

// RiderStatus represents the state of a rider application.
//
//	pending -> approved
//	pending -> suspended
//	approved -> suspended
type RiderStatus string

const (
	RiderStatusPending   RiderStatus = "pending"
	RiderStatusApproved  RiderStatus = "approved"
	RiderStatusSuspended RiderStatus = "suspended"
)

// Valid reports whether s is one of the known rider states.
func (s RiderStatus) Valid() bool {
	switch s {
	case RiderStatusPending, RiderStatusApproved, RiderStatusSuspended:
		return true
	}
	return false
}

// Rider represents an application to deliver parcels.
type Rider struct {
	ID               string         `json:"_id,omitempty" bson:"-"`
	Name             string         `json:"name,omitempty" bson:"name,omitempty"`
	Email            string         `json:"email" bson:"email"`
	Age              int            `json:"age,omitempty" bson:"age,omitempty"`
	Phone            string         `json:"phone,omitempty" bson:"phone,omitempty"`
	Region           string         `json:"region,omitempty" bson:"region,omitempty"`
	District         string         `json:"district,omitempty" bson:"district,omitempty"`
	NID              string         `json:"nid,omitempty" bson:"nid,omitempty"`
	BikeBrand        string         `json:"bike_brand,omitempty" bson:"bike_brand,omitempty"`
	BikeRegistration string         `json:"bike_registration,omitempty" bson:"bike_registration,omitempty"`
	Status           RiderStatus    `json:"status" bson:"status"`
	CreatedAt        time.Time      `json:"created_at" bson:"created_at"`
	Details          map[string]any `json:"details,omitempty" bson:"details,omitempty"`
}
