// Package gateway creates payment authorizations with the card processor.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// ErrNotConfigured is returned when no processor secret key was provided.
var ErrNotConfigured = errors.New("payment gateway not configured")

// StripeGateway creates PaymentIntents through the Stripe API.
type StripeGateway struct {
	api      *client.API
	currency stripe.Currency
}

// NewStripeGateway creates a gateway authenticated with secretKey.
func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:      api,
		currency: stripe.CurrencyUSD,
	}
}

// CreatePaymentIntent creates a PaymentIntent for amount in cents with
// automatic payment method selection and returns its client secret.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(g.currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// Disabled is used when no secret key is configured. Every call fails with
// ErrNotConfigured.
type Disabled struct{}

// CreatePaymentIntent implements service.PaymentGateway.
func (Disabled) CreatePaymentIntent(ctx context.Context, amount int64) (string, error) {
	return "", ErrNotConfigured
}
