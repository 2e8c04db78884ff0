package client

import (
	"context"
	"fmt"

	"github.com/rlawlghkd12/tutomate-sub000/client/remote"
)

// Activate runs the full activation flow: it ensures an anonymous session
// exists, posts the license key, and flips the session into cloud mode on
// success. The returned result tells the caller whether a fresh organization
// was provisioned, which is the cue to offer a local-data migration.
func Activate(ctx context.Context, session *Session, backend *remote.Client, licenseKey, deviceID string) (*remote.ActivateResult, error) {
	if session.Token() == "" {
		created, err := backend.CreateAnonymousSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("anonymous session: %w", err)
		}
		session.SetCredentials(created.UserID, created.AccessToken)
	}

	result, err := backend.Activate(ctx, licenseKey, deviceID)
	if err != nil {
		return nil, err
	}

	session.Activate(result.OrganizationID, result.Plan)
	return result, nil
}

// Deactivate drops the session back to local mode
func Deactivate(session *Session) {
	session.Deactivate()
}
