package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-life-keeper/internal/logger"
	"github.com/MKhiriev/go-life-keeper/internal/service"
	"github.com/MKhiriev/go-life-keeper/models"
)

// ─────────────────────────────────────────────
// Mocks
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService. Unset functions fall back
// to accepting everything, with "good-token" as the only valid token.
type mockAuthService struct {
	registerUserFn func(ctx context.Context, user models.User) (models.User, error)
	loginFn        func(ctx context.Context, user models.User) (models.User, error)
	createTokenFn  func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	if m.registerUserFn == nil {
		user.UserID = 1
		return user, nil
	}
	return m.registerUserFn(ctx, user)
}

func (m *mockAuthService) Login(ctx context.Context, user models.User) (models.User, error) {
	if m.loginFn == nil {
		user.UserID = 1
		return user, nil
	}
	return m.loginFn(ctx, user)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	if m.createTokenFn == nil {
		return models.Token{SignedString: "good-token", UserID: user.UserID}, nil
	}
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	if m.parseTokenFn == nil {
		if tokenString != "good-token" {
			return models.Token{}, service.ErrTokenIsExpiredOrInvalid
		}
		return models.Token{UserID: 1}, nil
	}
	return m.parseTokenFn(ctx, tokenString)
}

// mockDocumentService implements service.DocumentService and records the
// last query and document it was given.
type mockDocumentService struct {
	getFn func(ctx context.Context, query models.DocumentQuery) (models.RemoteDocument, error)
	putFn func(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error)

	lastQuery models.DocumentQuery
	lastPut   models.RemoteDocument
}

func (m *mockDocumentService) GetDocument(ctx context.Context, query models.DocumentQuery) (models.RemoteDocument, error) {
	m.lastQuery = query
	if m.getFn == nil {
		return models.RemoteDocument{UserID: query.UserID}, nil
	}
	return m.getFn(ctx, query)
}

func (m *mockDocumentService) PutDocument(ctx context.Context, doc models.RemoteDocument) (models.RemoteDocument, error) {
	m.lastPut = doc
	if m.putFn == nil {
		doc.Revision = 1
		return doc, nil
	}
	return m.putFn(ctx, doc)
}

// mockAppInfoService implements service.AppInfoService.
type mockAppInfoService struct {
	version string
	build   models.AppBuildInfo
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func (m *mockAppInfoService) GetBuildInfo(_ context.Context) models.AppBuildInfo {
	return m.build
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestHandler builds a Handler over the given mocks; nil mocks are replaced
// with permissive defaults.
func newTestHandler(t *testing.T, auth *mockAuthService, docs *mockDocumentService, hashKey string) *Handler {
	t.Helper()

	if auth == nil {
		auth = &mockAuthService{}
	}
	if docs == nil {
		docs = &mockDocumentService{}
	}

	return NewHandler(&service.Services{
		AuthService:     auth,
		DocumentService: docs,
		AppInfoService:  &mockAppInfoService{version: "test-version"},
	}, hashKey, logger.Nop())
}

func serve(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var authHeaders = map[string]string{"Authorization": "Bearer good-token"}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()

	h := NewHandler(svc, "", log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, log, h.logger)
	assert.False(t, h.verifyHash)
}

func TestNewHandler_HashKeyEnablesVerification(t *testing.T) {
	h := NewHandler(&service.Services{}, "secret", logger.Nop())

	assert.True(t, h.verifyHash)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

func TestInit_PublicRoutes(t *testing.T) {
	router := newTestHandler(t, nil, nil, "").Init()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/version", ""},
		{http.MethodPost, "/api/auth/register", `{"login":"a","password":"b"}`},
		{http.MethodPost, "/api/auth/login", `{"login":"a","password":"b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestInit_DocumentRoutesRequireAuth(t *testing.T) {
	router := newTestHandler(t, nil, nil, "").Init()

	for _, method := range []string{http.MethodGet, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			rec := serve(router, method, "/api/documents", "{}", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestInit_DocumentRoutesPassWithToken(t *testing.T) {
	router := newTestHandler(t, nil, nil, "").Init()

	rec := serve(router, http.MethodGet, "/api/documents", "", authHeaders)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPut, "/api/documents", `{"schemaVersion":"1.0.0","exportedAt":"2026-05-01T10:00:00Z","modules":{}}`, authHeaders)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	router := newTestHandler(t, nil, nil, "").Init()

	rec := serve(router, http.MethodGet, "/api/nonexistent", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns404(t *testing.T) {
	router := newTestHandler(t, nil, nil, "").Init()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/version"},
		{http.MethodDelete, "/api/documents"},
		{http.MethodGet, "/api/auth/login"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, "", authHeaders)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestInit_EveryResponseCarriesTraceID(t *testing.T) {
	router := newTestHandler(t, nil, nil, "").Init()

	rec := serve(router, http.MethodGet, "/api/version", "", nil)

	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}
