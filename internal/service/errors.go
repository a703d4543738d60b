package service

import "errors"

var (
	// ErrMissingEmail is returned when an email is required but empty.
	ErrMissingEmail = errors.New("email is required")

	// ErrMissingEmailQuery is returned when a user search has no query.
	ErrMissingEmailQuery = errors.New("missing email query")

	// ErrUserExists is returned when registering an email that is already taken.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidRole is returned when a role is not in the allow-list.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidParcelID is returned when parcel ID is empty.
	ErrInvalidParcelID = errors.New("invalid parcel id")

	// ErrMissingCreator is returned when a parcel has no created_by email.
	ErrMissingCreator = errors.New("created_by is required")

	// ErrInvalidPaymentStatus is returned when a new parcel is not unpaid.
	ErrInvalidPaymentStatus = errors.New("new parcels must be unpaid")

	// ErrParcelAlreadyPaid is returned when recording a payment for a paid parcel.
	ErrParcelAlreadyPaid = errors.New("parcel already paid")

	// ErrInvalidPaymentAmount is returned when payment amount is invalid.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrMissingTransactionID is returned when a payment has no transaction ID.
	ErrMissingTransactionID = errors.New("transactionId is required")

	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidRiderStatus is returned when a rider status is unknown.
	ErrInvalidRiderStatus = errors.New("invalid rider status")
)
