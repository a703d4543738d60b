package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel/internal/tests"
)

func (s *testServer) createParcel(t *testing.T, body map[string]any) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/parcels", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["insertedId"].(string)
}

func TestParcelLifecycle(t *testing.T) {
	s := newTestServer(t, tests.NewMockGateway())

	s.createParcel(t, map[string]any{"created_by": "a@x.com", "title": "old", "createdAt": "2024-01-01T00:00:00Z"})
	s.createParcel(t, map[string]any{"created_by": "b@x.com", "title": "theirs", "createdAt": "2024-01-02T00:00:00Z"})
	id := s.createParcel(t, map[string]any{"created_by": "a@x.com", "title": "new", "createdAt": "2024-01-03T00:00:00Z"})

	w := s.do(t, http.MethodGet, "/parcels?email=a@x.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	parcels := decodeList(t, w)
	require.Len(t, parcels, 2)
	assert.Equal(t, "new", parcels[0]["title"])
	assert.Equal(t, "old", parcels[1]["title"])
	assert.Equal(t, "unpaid", parcels[0]["payment_status"])

	w = s.do(t, http.MethodGet, "/parcels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 3)

	w = s.do(t, http.MethodGet, "/parcels/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["_id"])

	w = s.do(t, http.MethodDelete, "/parcels/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["deletedCount"])

	w = s.do(t, http.MethodDelete, "/parcels/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["deletedCount"])

	w = s.do(t, http.MethodGet, "/parcels/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Parcel not found", decode(t, w)["message"])
}

func TestCreateParcel_BadRequest(t *testing.T) {
	s := newTestServer(t, tests.NewMockGateway())

	w := s.do(t, http.MethodPost, "/parcels", map[string]any{"title": "orphan"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "created_by is required", decode(t, w)["message"])

	w = s.do(t, http.MethodPost, "/parcels", map[string]any{"created_by": "a@x.com", "payment_status": "paid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "New parcels must be unpaid", decode(t, w)["message"])
}
