package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlawlghkd12/tutomate-sub000/internal/di"
	"github.com/rlawlghkd12/tutomate-sub000/internal/domain"
	"github.com/rlawlghkd12/tutomate-sub000/internal/license"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/config"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine    *gin.Engine
	container *di.Container
	t         *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Environment = "development"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.SessionTokenTTL = time.Hour
	cfg.License.DefaultMaxSeats = 5
	cfg.License.DefaultOrgName = "TutoMate"

	container := di.NewContainer(&di.ContainerConfig{
		Config: cfg,
		Log:    logger.NewNop(),
	})

	return &testServer{
		engine:    Setup(cfg, container, nil),
		container: container,
		t:         t,
	}
}

func (s *testServer) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) decode(w *httptest.ResponseRecorder, out interface{}) {
	s.t.Helper()
	require.NoError(s.t, json.NewDecoder(w.Body).Decode(out))
}

// newSession creates an anonymous session through the API
func (s *testServer) newSession() (userID, token string) {
	s.t.Helper()

	w := s.request(http.MethodPost, "/api/v1/auth/anonymous", "", nil)
	require.Equal(s.t, http.StatusCreated, w.Code)

	var resp struct {
		UserID      string `json:"user_id"`
		AccessToken string `json:"access_token"`
	}
	s.decode(w, &resp)
	return resp.UserID, resp.AccessToken
}

// seedKey issues a license key directly through the key repository
func (s *testServer) seedKey(plan string) string {
	s.t.Helper()

	key, err := license.Generate(plan)
	require.NoError(s.t, err)
	require.NoError(s.t, s.container.LicenseKeyRepo.Create(s.t.Context(), &domain.LicenseKey{
		KeyHash:   license.Hash(key),
		Key:       key,
		Plan:      plan,
		CreatedAt: time.Now(),
	}))
	return key
}

func (s *testServer) activate(token, key, deviceID string) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.request(http.MethodPost, "/api/v1/license/activate", token, map[string]string{
		"license_key": key,
		"device_id":   deviceID,
	})
}

func TestActivateEndpoint_FullFlow(t *testing.T) {
	s := newTestServer(t)
	key := s.seedKey(license.PlanBasic)
	_, token := s.newSession()

	w := s.activate(token, key, "device-1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OrganizationID string `json:"organization_id"`
		IsNewOrg       bool   `json:"is_new_org"`
		Plan           string `json:"plan"`
	}
	s.decode(w, &resp)
	assert.True(t, resp.IsNewOrg)
	assert.Equal(t, license.PlanBasic, resp.Plan)
	assert.NotEmpty(t, resp.OrganizationID)
}

func TestActivateEndpoint_MalformedKeyRejectedBeforeAuth(t *testing.T) {
	s := newTestServer(t)

	// No token at all: the format gate still runs first.
	w := s.activate("", "TMKX-AAAA-AAAA-AAAA", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error string `json:"error"`
	}
	s.decode(w, &body)
	assert.Equal(t, "invalid_format", body.Error)
}

func TestActivateEndpoint_UnknownKey(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newSession()

	w := s.activate(token, "TMKH-AAAA-BBBB-CCCC", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error string `json:"error"`
	}
	s.decode(w, &body)
	assert.Equal(t, "invalid_key", body.Error)
}

func TestActivateEndpoint_MissingTokenIsUnauthorized(t *testing.T) {
	s := newTestServer(t)
	key := s.seedKey(license.PlanBasic)

	w := s.activate("", key, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body struct {
		Error string `json:"error"`
	}
	s.decode(w, &body)
	assert.Equal(t, "unauthorized", body.Error)
}

func TestActivateEndpoint_SeatCap(t *testing.T) {
	s := newTestServer(t)
	key := s.seedKey(license.PlanBasic)

	for i := 0; i < 5; i++ {
		_, token := s.newSession()
		w := s.activate(token, key, fmt.Sprintf("device-%d", i))
		require.Equal(t, http.StatusOK, w.Code, "seat %d", i)
	}

	_, token := s.newSession()
	w := s.activate(token, key, "device-extra")
	require.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Error string `json:"error"`
	}
	s.decode(w, &body)
	assert.Equal(t, "max_seats_reached", body.Error)
}

func TestTableEndpoints_CRUD(t *testing.T) {
	s := newTestServer(t)
	key := s.seedKey(license.PlanBasic)
	_, token := s.newSession()

	w := s.activate(token, key, "device-1")
	require.Equal(t, http.StatusOK, w.Code)

	course := map[string]interface{}{
		"id":           "course-1",
		"name":         "Algebra II",
		"fee":          30000,
		"max_students": 20,
	}
	w = s.request(http.MethodPost, "/api/v1/tables/courses", token, course)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.request(http.MethodGet, "/api/v1/tables/courses", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Rows []map[string]interface{} `json:"rows"`
	}
	s.decode(w, &listResp)
	require.Len(t, listResp.Rows, 1)
	assert.Equal(t, "Algebra II", listResp.Rows[0]["name"])

	w = s.request(http.MethodPatch, "/api/v1/tables/courses/course-1", token, map[string]interface{}{
		"name": "Algebra III",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(http.MethodDelete, "/api/v1/tables/courses/course-1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.request(http.MethodDelete, "/api/v1/tables/courses/course-1", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTableEndpoints_RequireActivation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.newSession()

	w := s.request(http.MethodGet, "/api/v1/tables/courses", token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestTableEndpoints_UnknownTable(t *testing.T) {
	s := newTestServer(t)
	key := s.seedKey(license.PlanBasic)
	_, token := s.newSession()
	s.activate(token, key, "device-1")

	w := s.request(http.MethodGet, "/api/v1/tables/invoices", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTableEndpoints_ScopedToOrganization(t *testing.T) {
	s := newTestServer(t)

	keyA := s.seedKey(license.PlanBasic)
	_, tokenA := s.newSession()
	require.Equal(t, http.StatusOK, s.activate(tokenA, keyA, "device-a").Code)

	keyB := s.seedKey(license.PlanBasic)
	_, tokenB := s.newSession()
	require.Equal(t, http.StatusOK, s.activate(tokenB, keyB, "device-b").Code)

	w := s.request(http.MethodPost, "/api/v1/tables/students", tokenA, map[string]interface{}{
		"id":   "student-1",
		"name": "Kim Minji",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The other organization never sees the row.
	w = s.request(http.MethodGet, "/api/v1/tables/students", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Rows []map[string]interface{} `json:"rows"`
	}
	s.decode(w, &listResp)
	assert.Empty(t, listResp.Rows)
}

func TestAdminEndpoints_RequireAdminPlan(t *testing.T) {
	s := newTestServer(t)

	basicKey := s.seedKey(license.PlanBasic)
	_, basicToken := s.newSession()
	require.Equal(t, http.StatusOK, s.activate(basicToken, basicKey, "device-1").Code)

	w := s.request(http.MethodPost, "/api/v1/admin/licenses", basicToken, map[string]string{
		"plan": license.PlanBasic,
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	adminKey := s.seedKey(license.PlanAdmin)
	_, adminToken := s.newSession()
	require.Equal(t, http.StatusOK, s.activate(adminToken, adminKey, "admin-device").Code)

	w = s.request(http.MethodPost, "/api/v1/admin/licenses", adminToken, map[string]string{
		"plan": license.PlanBasic,
		"memo": "issued for resale",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var genResp struct {
		Key  string `json:"key"`
		Plan string `json:"plan"`
	}
	s.decode(w, &genResp)
	assert.True(t, license.ValidFormat(genResp.Key))

	// An omitted plan is accepted and defaults to basic.
	w = s.request(http.MethodPost, "/api/v1/admin/licenses", adminToken, map[string]string{
		"memo": "plan left out",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	s.decode(w, &genResp)
	assert.Equal(t, license.PlanBasic, genResp.Plan)
	assert.True(t, strings.HasPrefix(genResp.Key, "TMKH-"))

	w = s.request(http.MethodGet, "/api/v1/admin/licenses", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Total int `json:"total"`
	}
	s.decode(w, &listResp)
	assert.Equal(t, 4, listResp.Total)
}
