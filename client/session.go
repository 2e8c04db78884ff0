// Package client ties the desktop pieces together: the session state that
// selects between local and cloud persistence, and the activation flow that
// flips it.
package client

import "sync"

// Session is the explicit persistence-mode state every store reads at call
// time. There is no package-level mode flag; whoever builds the stores
// decides which session they share.
type Session struct {
	mu             sync.RWMutex
	cloud          bool
	organizationID string
	plan           string
	userID         string
	token          string
}

// NewSession creates a session in local mode
func NewSession() *Session {
	return &Session{}
}

// IsCloud reports whether operations should go to the backend
func (s *Session) IsCloud() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloud
}

// OrganizationID returns the activated organization id, empty in local mode
func (s *Session) OrganizationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.organizationID
}

// Plan returns the activated plan, empty in local mode
func (s *Session) Plan() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

// UserID returns the session's user identity, empty before a session exists
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Token returns the bearer token for backend calls
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetCredentials stores the anonymous session identity before activation
func (s *Session) SetCredentials(userID, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.token = token
}

// Activate flips the session into cloud mode
func (s *Session) Activate(organizationID, plan string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cloud = true
	s.organizationID = organizationID
	s.plan = plan
}

// Deactivate returns the session to local mode and drops the organization
// binding. The anonymous credentials survive so the device can re-activate.
func (s *Session) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cloud = false
	s.organizationID = ""
	s.plan = ""
}
