// Package license implements the TMK license key codec: format validation,
// generation and one-way hashing. Keys look like TMKH-XXXX-XXXX-XXXX (basic
// issuance) or TMKA-XXXX-XXXX-XXXX (admin issuance), X drawn from [A-Z0-9].
package license

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxKeyLength is the length of a well-formed key
	MaxKeyLength = 19
	charset      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	groupLen     = 4
	groupCount   = 3
)

// Plan names carried by license key records and organizations
const (
	PlanBasic = "basic"
	PlanAdmin = "admin"
)

var keyPattern = regexp.MustCompile(`^TMK[HA]-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// Normalize trims surrounding whitespace and uppercases a user-supplied key.
// Input is case-insensitive per the key contract.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidFormat reports whether a normalized key is well-formed. This check
// runs before any storage lookup.
func ValidFormat(key string) bool {
	if len(key) > MaxKeyLength {
		return false
	}
	return keyPattern.MatchString(key)
}

// ValidPlan reports whether plan is an issuable plan name
func ValidPlan(plan string) bool {
	return plan == PlanBasic || plan == PlanAdmin
}

// Hash returns the hex-encoded SHA-256 digest of a key. Only the digest is
// stored server-side; the plaintext key never needs to be compared directly.
func Hash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Generate creates a new key for the given plan using a cryptographically
// strong random source. plan defaults to basic when empty.
func Generate(plan string) (string, error) {
	prefix := "TMKH"
	if plan == PlanAdmin {
		prefix = "TMKA"
	}

	groups := make([]string, 0, groupCount)
	for i := 0; i < groupCount; i++ {
		group, err := randomGroup()
		if err != nil {
			return "", fmt.Errorf("failed to generate key group: %w", err)
		}
		groups = append(groups, group)
	}

	return prefix + "-" + strings.Join(groups, "-"), nil
}

func randomGroup() (string, error) {
	buf := make([]byte, groupLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, groupLen)
	for i, b := range buf {
		out[i] = charset[int(b)%len(charset)]
	}
	return string(out), nil
}
