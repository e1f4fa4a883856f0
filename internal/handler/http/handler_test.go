package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/mock"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/internal/utils"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const validToken = "valid-token"

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type handlerFixture struct {
	router   http.Handler
	auth     *mock.MockAuthService
	tables   *mock.MockTableService
	payments *mock.MockPaymentService
	appInfo  *mock.MockAppInfoService
}

func newHandlerFixture(t *testing.T, realtime http.Handler) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &handlerFixture{
		auth:     mock.NewMockAuthService(ctrl),
		tables:   mock.NewMockTableService(ctrl),
		payments: mock.NewMockPaymentService(ctrl),
		appInfo:  mock.NewMockAppInfoService(ctrl),
	}
	f.auth.EXPECT().ParseToken(gomock.Any(), validToken).
		Return(models.Token{Login: "alice"}, nil).AnyTimes()

	h := NewHandler(&service.Services{
		AuthService:    f.auth,
		TableService:   f.tables,
		PaymentService: f.payments,
		AppInfoService: f.appInfo,
	}, realtime, logger.Nop())
	f.router = h.Init()
	return f
}

func (f *handlerFixture) do(method, path string, body any, authorized bool) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if authorized {
		req.Header.Set("Authorization", "Bearer "+validToken)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error
}

// ─────────────────────────────────────────────
// NewHandler / Init
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svcs := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svcs, nil, log)

	assert.Same(t, svcs, h.services)
	assert.Same(t, log, h.logger)
	assert.Nil(t, h.realtime)
}

func TestInit_ProtectedRoutesRequireToken(t *testing.T) {
	f := newHandlerFixture(t, nil)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/tables/tools"},
		{http.MethodPost, "/api/tables/tools"},
		{http.MethodPut, "/api/tables/tools/t-1"},
		{http.MethodDelete, "/api/tables/tools/t-1"},
		{http.MethodPost, "/api/payments"},
		{http.MethodGet, "/api/realtime"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := f.do(rt.method, rt.path, nil, false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/nonexistent", nil, false)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodListsAllowed(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/version", nil, false)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))

	rec = f.do(http.MethodPost, "/api/tables/tools/t-1", nil, true)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "PUT, DELETE", rec.Header().Get("Allow"))
}

func TestInit_SetsTraceID(t *testing.T) {
	f := newHandlerFixture(t, nil)
	f.appInfo.EXPECT().Version(gomock.Any()).Return(models.VersionResponse{})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(traceIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, "trace-42", rec.Header().Get(traceIDHeader))
}

// ─────────────────────────────────────────────
// App info
// ─────────────────────────────────────────────

func TestVersion(t *testing.T) {
	f := newHandlerFixture(t, nil)
	f.appInfo.EXPECT().Version(gomock.Any()).Return(models.VersionResponse{Version: "1.2.3", Date: "2026-01-01", Commit: "abc"})

	rec := f.do(http.MethodGet, "/api/version", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"1.2.3","date":"2026-01-01","commit":"abc"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		report models.HealthReport
		want   int
	}{
		{name: "ok", report: models.HealthReport{Status: models.HealthOK}, want: http.StatusOK},
		{name: "degraded", report: models.HealthReport{Status: models.HealthDegraded}, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, nil)
			f.appInfo.EXPECT().Health(gomock.Any()).Return(tt.report)

			rec := f.do(http.MethodGet, "/api/health", nil, false)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRealtime_DelegatesToHub(t *testing.T) {
	var gotLogin string
	hub := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLogin, _ = utils.GetLoginFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	f := newHandlerFixture(t, hub)

	rec := f.do(http.MethodGet, "/api/realtime", nil, true)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "alice", gotLogin)
}

func TestRealtime_Disabled(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.do(http.MethodGet, "/api/realtime", nil, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
