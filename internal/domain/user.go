package domain

import (
	"time"
)

// User is a session identity. Desktop installations authenticate with
// anonymous users: throwaway identities with no profile, created on demand
// and deleted when a device reassignment orphans them.
type User struct {
	ID        string    `json:"id"`
	Anonymous bool      `json:"anonymous"`
	CreatedAt time.Time `json:"created_at"`
}
