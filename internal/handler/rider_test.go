package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel/internal/tests"
)

func (s *testServer) submitRider(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/riders", map[string]any{
		"name":   "Rider",
		"email":  email,
		"status": "pending",
		"region": "Dhaka",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["insertedId"].(string)
}

func TestRiderApprovalWorkflow(t *testing.T) {
	s := newTestServer(t, tests.NewMockGateway())
	s.createUser(t, "a@x.com")
	id := s.submitRider(t, "a@x.com")

	w := s.do(t, http.MethodGet, "/riders/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pending := decodeList(t, w)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0]["_id"])

	w = s.do(t, http.MethodPatch, "/riders/"+id, map[string]any{"status": "approved", "email": "a@x.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(1), body["riderUpdateResult"].(map[string]any)["modifiedCount"])
	assert.Equal(t, float64(1), body["userUpdateResult"].(map[string]any)["modifiedCount"])

	w = s.do(t, http.MethodGet, "/users/a@x.com/role", nil)
	assert.Equal(t, "rider", decode(t, w)["role"])

	w = s.do(t, http.MethodGet, "/riders/approved", nil)
	assert.Len(t, decodeList(t, w), 1)

	w = s.do(t, http.MethodGet, "/riders/pending", nil)
	assert.Equal(t, "[]", w.Body.String())

	w = s.do(t, http.MethodPatch, "/riders/suspend/"+id, map[string]any{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, float64(1), body["riderUpdateResult"].(map[string]any)["modifiedCount"])
	assert.Equal(t, float64(1), body["userUpdateResult"].(map[string]any)["modifiedCount"])

	w = s.do(t, http.MethodGet, "/users/a@x.com/role", nil)
	assert.Equal(t, "user", decode(t, w)["role"])

	w = s.do(t, http.MethodGet, "/riders", nil)
	riders := decodeList(t, w)
	require.Len(t, riders, 1)
	assert.Equal(t, "suspended", riders[0]["status"])
}

func TestSuspendRider_WithoutBody(t *testing.T) {
	s := newTestServer(t, tests.NewMockGateway())
	s.createUser(t, "a@x.com")
	id := s.submitRider(t, "a@x.com")

	w := s.do(t, http.MethodPatch, "/riders/suspend/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/users/a@x.com/role", nil)
	assert.Equal(t, "user", decode(t, w)["role"])
}

func TestSetRiderStatus_Errors(t *testing.T) {
	s := newTestServer(t, tests.NewMockGateway())
	id := s.submitRider(t, "a@x.com")

	w := s.do(t, http.MethodPatch, "/riders/"+id, map[string]any{"status": "retired"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid rider status", decode(t, w)["message"])

	w = s.do(t, http.MethodPatch, "/riders/"+id, map[string]any{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid rider status", decode(t, w)["message"])

	w = s.do(t, http.MethodPatch, "/riders/missing", map[string]any{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Rider not found", decode(t, w)["message"])

	w = s.do(t, http.MethodPatch, "/riders/suspend/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/riders", map[string]any{"name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is required", decode(t, w)["message"])
}
