package domain

import (
	"time"
)

// LicenseKey is an issued key record. KeyHash is the primary lookup key so
// activation can verify a supplied key without comparing plaintext; the
// plaintext is retained only so administrators can list issued keys.
type LicenseKey struct {
	KeyHash   string    `json:"key_hash"`
	Key       string    `json:"key"`
	Plan      string    `json:"plan"` // basic | admin
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
