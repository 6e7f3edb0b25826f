package secret

import "errors"

// Sentinel errors for secret resolution.
var (
	// ErrUnknownProvider is returned when a reference or registry lookup names
	// a provider that is not registered.
	ErrUnknownProvider = errors.New("secret: provider is not registered")

	// ErrEmptySecret is returned in strict mode when a provider yields "".
	ErrEmptySecret = errors.New("secret: provider returned empty value")

	// ErrInvalidRegistration is returned for blank names or nil factories.
	ErrInvalidRegistration = errors.New("secret: invalid provider registration")
)
