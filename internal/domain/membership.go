package domain

import (
	"time"
)

// Membership roles
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Membership links a session identity to an organization and consumes one
// seat. DeviceID, when present, identifies the physical installation so a
// reinstalled client can reclaim its seat instead of consuming a new one.
type Membership struct {
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	Role           string    `json:"role"` // owner | member
	DeviceID       string    `json:"device_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
