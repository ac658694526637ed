package llm

import "errors"

// Sentinel errors for LLM operations
var (
	// ErrConnectionFailed indicates the provider connection failed
	ErrConnectionFailed = errors.New("LLM connection failed")

	// ErrRequestFailed indicates the provider request failed
	ErrRequestFailed = errors.New("LLM request failed")

	// ErrUnknownModel indicates the model id resolves to no configured provider
	ErrUnknownModel = errors.New("unknown model")

	// ErrProviderNotConfigured indicates the provider has no usable credentials
	ErrProviderNotConfigured = errors.New("provider not configured")
)
