package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlawlghkd12/tutomate-sub000/client/remote"
)

func TestSession_ActivateAndDeactivate(t *testing.T) {
	s := NewSession()
	assert.False(t, s.IsCloud())
	assert.Empty(t, s.OrganizationID())

	s.SetCredentials("user-1", "token-1")
	s.Activate("org-1", "basic")
	assert.True(t, s.IsCloud())
	assert.Equal(t, "org-1", s.OrganizationID())
	assert.Equal(t, "basic", s.Plan())

	s.Deactivate()
	assert.False(t, s.IsCloud())
	assert.Empty(t, s.OrganizationID())
	// Credentials survive deactivation so the device can re-activate.
	assert.Equal(t, "token-1", s.Token())
}

func TestSession_ConcurrentAccess(t *testing.T) {
	s := NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Activate("org-1", "basic")
		}()
		go func() {
			defer wg.Done()
			_ = s.IsCloud()
			_ = s.OrganizationID()
		}()
	}
	wg.Wait()

	assert.True(t, s.IsCloud())
}

func TestActivate_FlipsSessionOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/anonymous":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{
				"user_id":      "user-1",
				"access_token": "token-1",
			})
		case "/api/v1/license/activate":
			require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"organization_id": "org-1",
				"is_new_org":      true,
				"plan":            "basic",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	session := NewSession()
	backend := remote.New(srv.URL, session.Token)

	result, err := Activate(context.Background(), session, backend, "TMKH-AAAA-BBBB-CCCC", "device-1")
	require.NoError(t, err)
	assert.True(t, result.IsNewOrg)
	assert.True(t, session.IsCloud())
	assert.Equal(t, "org-1", session.OrganizationID())
	assert.Equal(t, "basic", session.Plan())
	assert.Equal(t, "user-1", session.UserID())
}

func TestActivate_RejectionLeavesSessionLocal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/anonymous":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{
				"user_id":      "user-1",
				"access_token": "token-1",
			})
		case "/api/v1/license/activate":
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "max_seats_reached"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	session := NewSession()
	backend := remote.New(srv.URL, session.Token)

	_, err := Activate(context.Background(), session, backend, "TMKH-AAAA-BBBB-CCCC", "device-1")
	require.Error(t, err)

	var apiErr *remote.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "max_seats_reached", apiErr.Code)
	assert.False(t, session.IsCloud())
}
