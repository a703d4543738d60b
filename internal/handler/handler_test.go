package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parcel/internal/app"
	"parcel/internal/handler"
	"parcel/internal/repository/memory"
	"parcel/internal/service"
	"parcel/internal/tests"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	cache  *tests.MockRoleCache
}

func newTestServer(t *testing.T, gw service.PaymentGateway) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	cache := tests.NewMockRoleCache()
	stores := store.Stores()
	notifier := service.NewNotificationService(logger)

	router, err := app.NewRouter(app.RouterDeps{
		UserHandler:    handler.NewUserHandler(service.NewUserService(stores.Users, cache, nil, logger), logger),
		ParcelHandler:  handler.NewParcelHandler(service.NewParcelService(stores.Parcels), logger),
		PaymentHandler: handler.NewPaymentHandler(service.NewPaymentService(stores.Payments, store, gw, notifier), logger),
		RiderHandler:   handler.NewRiderHandler(service.NewRiderService(stores.Riders, store, cache, notifier, logger), logger),
		Logger:         logger,
	})
	require.NoError(t, err)

	return &testServer{router: router, store: store, cache: cache}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createUser(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/users", map[string]any{"email": email, "name": "Test"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["insertedId"].(string)
}

func TestHealthAndBanner(t *testing.T) {
	s := newTestServer(t, tests.NewMockGateway())

	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")

	w = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
