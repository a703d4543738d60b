package repository

import "context"

// Stores groups the repositories of one store, optionally bound to a transaction.
type Stores struct {
	Users    UserRepository
	Parcels  ParcelRepository
	Payments PaymentRepository
	Riders   RiderRepository
}

// TxRunner runs a multi-step write against a single store.
//
// Drivers that support multi-document transactions commit the steps
// atomically and roll back when fn returns an error. Drivers without that
// support run fn directly, so steps completed before a failure stay applied.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
