package license

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "TMKH-AAAA-BBBB-CCCC", Normalize("  tmkh-aaaa-bbbb-cccc "))
	assert.Equal(t, "TMKA-1234-5678-9ABC", Normalize("tmka-1234-5678-9abc"))
}

func TestValidFormat(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"basic key", "TMKH-AAAA-BBBB-CCCC", true},
		{"admin key", "TMKA-1234-5678-9ABC", true},
		{"digits only", "TMKH-0000-1111-2222", true},
		{"invalid prefix letter", "TMKX-AAAA-AAAA-AAAA", false},
		{"lowercase not normalized", "tmkh-aaaa-bbbb-cccc", false},
		{"missing group", "TMKH-AAAA-BBBB", false},
		{"group too long", "TMKH-AAAAA-BBBB-CCCC", false},
		{"trailing garbage", "TMKH-AAAA-BBBB-CCCCX", false},
		{"special characters", "TMKH-AA!A-BBBB-CCCC", false},
		{"empty", "", false},
		{"wrong product code", "ABCD-AAAA-BBBB-CCCC", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidFormat(tt.key), "key %q", tt.key)
		})
	}
}

func TestGenerate(t *testing.T) {
	key, err := Generate(PlanBasic)
	require.NoError(t, err)
	assert.True(t, ValidFormat(key), "generated key %q should be valid", key)
	assert.True(t, strings.HasPrefix(key, "TMKH-"))
	assert.Len(t, key, MaxKeyLength)

	adminKey, err := Generate(PlanAdmin)
	require.NoError(t, err)
	assert.True(t, ValidFormat(adminKey), "generated key %q should be valid", adminKey)
	assert.True(t, strings.HasPrefix(adminKey, "TMKA-"))
}

func TestGenerate_DefaultsToBasicPrefix(t *testing.T) {
	key, err := Generate("")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "TMKH-"))
}

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := Generate(PlanBasic)
		require.NoError(t, err)
		assert.False(t, seen[key], "duplicate key generated: %s", key)
		seen[key] = true
	}
}

func TestHash(t *testing.T) {
	h1 := Hash("TMKH-AAAA-BBBB-CCCC")
	h2 := Hash("TMKH-AAAA-BBBB-CCCC")
	h3 := Hash("TMKH-AAAA-BBBB-CCCD")

	assert.Equal(t, h1, h2, "hash must be deterministic")
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64, "sha-256 hex digest length")
	assert.NotContains(t, h1, "TMKH", "digest must not leak the key")
}

func TestValidPlan(t *testing.T) {
	assert.True(t, ValidPlan(PlanBasic))
	assert.True(t, ValidPlan(PlanAdmin))
	assert.False(t, ValidPlan("trial"))
	assert.False(t, ValidPlan(""))
}
