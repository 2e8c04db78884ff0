package domain

import (
	"time"
)

// Organization represents a tenant in the multi-tenant backend. An
// organization is provisioned on the first activation of its license key;
// the plaintext key is its natural key and is unique across organizations.
type Organization struct {
	ID         string    `json:"id"`
	LicenseKey string    `json:"license_key"`
	Name       string    `json:"name"`
	Plan       string    `json:"plan"` // basic | admin
	MaxSeats   int       `json:"max_seats"`
	CreatedAt  time.Time `json:"created_at"`
}
