package health

import "errors"

// NotRegisteredMessage is the Result.Error of a probe for an unknown name.
const NotRegisteredMessage = "Service not registered"

var (
	// ErrServiceNotRegistered indicates a name with no registered Service.
	ErrServiceNotRegistered = errors.New("health: service not registered")

	// ErrProbePanic indicates a capability call panicked.
	ErrProbePanic = errors.New("health: probe panicked")

	// ErrProbeTimeout indicates a capability call exceeded the probe timeout.
	ErrProbeTimeout = errors.New("health: probe timed out")

	// ErrInvalidServiceName indicates an empty or malformed service name.
	ErrInvalidServiceName = errors.New("health: invalid service name")

	// ErrNilService indicates Register was called with a nil Service.
	ErrNilService = errors.New("health: service is nil")

	// ErrInvalidTTL indicates a non-positive cache timeout.
	ErrInvalidTTL = errors.New("health: cache timeout must be positive")
)
