package domain

import "time"

// PaymentStatus represents whether a parcel booking has been paid.
// The only transition is unpaid -> paid.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// Parcel represents a shipment booking.
type Parcel struct {
	ID              string         `json:"_id,omitempty" bson:"-"`
	CreatedBy       string         `json:"created_by" bson:"created_by"`
	Title           string         `json:"title,omitempty" bson:"title,omitempty"`
	Type            string         `json:"type,omitempty" bson:"type,omitempty"`
	Weight          float64        `json:"weight,omitempty" bson:"weight,omitempty"`
	Cost            float64        `json:"cost,omitempty" bson:"cost,omitempty"`
	SenderName      string         `json:"sender_name,omitempty" bson:"sender_name,omitempty"`
	SenderContact   string         `json:"sender_contact,omitempty" bson:"sender_contact,omitempty"`
	SenderRegion    string         `json:"sender_region,omitempty" bson:"sender_region,omitempty"`
	SenderAddress   string         `json:"sender_address,omitempty" bson:"sender_address,omitempty"`
	ReceiverName    string         `json:"receiver_name,omitempty" bson:"receiver_name,omitempty"`
	ReceiverContact string         `json:"receiver_contact,omitempty" bson:"receiver_contact,omitempty"`
	ReceiverRegion  string         `json:"receiver_region,omitempty" bson:"receiver_region,omitempty"`
	ReceiverAddress string         `json:"receiver_address,omitempty" bson:"receiver_address,omitempty"`
	TrackingID      string         `json:"tracking_id,omitempty" bson:"tracking_id,omitempty"`
	PaymentStatus   PaymentStatus  `json:"payment_status" bson:"payment_status"`
	DeliveryStatus  string         `json:"delivery_status,omitempty" bson:"delivery_status,omitempty"`
	TransactionID   string         `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CreatedAt       time.Time      `json:"createdAt" bson:"createdAt"`
	Details         map[string]any `json:"details,omitempty" bson:"details,omitempty"`
}
