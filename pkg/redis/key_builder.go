package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyRateLimit returns the fixed-window counter key for a client. The client
// ID is the authenticated user ID or, for anonymous callers, the remote IP.
func (kb *KeyBuilder) KeyRateLimit(clientID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRateLimit, clientID))
}

// KeyPollResults returns the cached results key for a poll
func (kb *KeyBuilder) KeyPollResults(pollID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollResults, pollID))
}
