// Package metrics registers the Prometheus collectors for the workflows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// PaymentIntents counts gateway payment intent requests.
	PaymentIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parcel_payment_intents_total",
			Help: "Payment intents requested from the gateway, by result.",
		},
		[]string{"result"},
	)

	// PaymentsRecorded counts payment recording workflows.
	PaymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parcel_payments_recorded_total",
			Help: "Payment recording workflows (parcel marked paid plus ledger entry), by result.",
		},
		[]string{"result"},
	)

	// RiderStatusChanges counts rider status workflows.
	RiderStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parcel_rider_status_changes_total",
			Help: "Rider status workflows (rider status plus user role), by target status and result.",
		},
		[]string{"status", "result"},
	)

	// UserRoleChanges counts direct role updates.
	UserRoleChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parcel_user_role_changes_total",
			Help: "Direct user role updates, by role.",
		},
		[]string{"role"},
	)
)

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
