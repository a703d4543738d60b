package domain

import "time"

// Payment is an append-only ledger entry for a parcel charge.
type Payment struct {
	ID            string    `json:"_id,omitempty" bson:"-"`
	ParcelID      string    `json:"parcelId" bson:"parcelId"`
	Email         string    `json:"email" bson:"email"`
	Amount        float64   `json:"amount,omitempty" bson:"amount,omitempty"`
	PaymentMethod []string  `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	TransactionID string    `json:"transactionId" bson:"transactionId"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}
