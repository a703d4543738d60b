package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel/internal/gateway"
	"parcel/internal/tests"
)

func TestCreatePaymentIntent(t *testing.T) {
	gw := tests.NewMockGateway()
	s := newTestServer(t, gw)

	w := s.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"amount": 4500})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "pi_test_secret_123", decode(t, w)["clientSecret"])
	assert.Equal(t, int64(4500), gw.LastAmount.Load())

	for _, body := range []map[string]any{{"amount": 0}, {"amount": -5}, {}} {
		w = s.do(t, http.MethodPost, "/create-payment-intent", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Equal(t, int32(1), gw.CreateCallCount)
}

func TestCreatePaymentIntent_GatewayFailures(t *testing.T) {
	gw := tests.NewMockGateway()
	gw.CreateFunc = func(ctx context.Context, amount int64) (string, error) {
		return "", tests.ErrMockGateway
	}
	s := newTestServer(t, gw)

	w := s.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"amount": 100})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to create payment intent", decode(t, w)["message"])

	s = newTestServer(t, gateway.Disabled{})
	w = s.do(t, http.MethodPost, "/create-payment-intent", map[string]any{"amount": 100})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRecordPayment(t *testing.T) {
	s := newTestServer(t, tests.NewMockGateway())
	parcelID := s.createParcel(t, map[string]any{"created_by": "a@x.com", "cost": 45})

	payment := map[string]any{
		"parcelId":      parcelID,
		"email":         "a@x.com",
		"amount":        45,
		"paymentMethod": []string{"card"},
		"transactionId": "pi_abc",
	}

	w := s.do(t, http.MethodPost, "/payments", payment)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Payment processed successfully", body["message"])
	assert.Equal(t, float64(1), body["parcelUpdateResult"].(map[string]any)["modifiedCount"])
	assert.NotEmpty(t, body["paymentInsertResult"].(map[string]any)["insertedId"])

	w = s.do(t, http.MethodGet, "/parcels/"+parcelID, nil)
	parcel := decode(t, w)
	assert.Equal(t, "paid", parcel["payment_status"])
	assert.Equal(t, "pi_abc", parcel["transactionId"])

	w = s.do(t, http.MethodGet, "/payments?email=a@x.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	payments := decodeList(t, w)
	require.Len(t, payments, 1)
	assert.Equal(t, parcelID, payments[0]["parcelId"])
	assert.NotEmpty(t, payments[0]["createdAt"])

	w = s.do(t, http.MethodPost, "/payments", payment)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Parcel already paid", decode(t, w)["message"])
}

func TestRecordPayment_Errors(t *testing.T) {
	s := newTestServer(t, tests.NewMockGateway())

	w := s.do(t, http.MethodPost, "/payments", map[string]any{"parcelId": "missing", "transactionId": "pi_1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Parcel not found", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/payments", map[string]any{"parcelId": "p1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "transactionId is required", decode(t, w)["message"])

	w = s.do(t, http.MethodGet, "/payments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
