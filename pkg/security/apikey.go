package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// APIKeyPrefix is part of the wire contract for machine-to-machine callers.
// Changing it requires an API version bump.
const APIKeyPrefix = "os_live_"

const apiKeyRandomBytes = 16

var apiKeyPattern = regexp.MustCompile(`^os_live_[0-9a-f]{32}$`)

// GenerateAPIKey returns a merchant API key in the form os_live_<32 hex>,
// derived from 128 bits of crypto/rand entropy. Never derived from caller
// input.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, apiKeyRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return APIKeyPrefix + hex.EncodeToString(buf), nil
}

// HasAPIKeyPrefix reports whether the presented key carries the public
// prefix. This is a cheap format gate, not a validity check.
func HasAPIKeyPrefix(key string) bool {
	return strings.HasPrefix(key, APIKeyPrefix)
}

// IsWellFormedAPIKey reports whether the key matches the full key format.
func IsWellFormedAPIKey(key string) bool {
	return apiKeyPattern.MatchString(key)
}
