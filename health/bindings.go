package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/svchealth/observe"
)

// Binding pairs a name with a Service for bulk registration.
type Binding struct {
	Name    string
	Service Service
}

// RegisterAll registers every binding in order. It attempts all bindings and
// returns the joined errors of those that failed.
func (m *Monitor) RegisterAll(bindings ...Binding) error {
	var errs []error
	for _, b := range bindings {
		if err := m.RegisterService(b.Name, b.Service); err != nil {
			errs = append(errs, fmt.Errorf("register %q: %w", b.Name, err))
		}
	}
	m.logger.Info(context.Background(), "services registered",
		observe.Field{Key: "subsystems", Value: m.RegisteredServices()})
	return errors.Join(errs...)
}

// UnregisterAll removes every registered service and its cached result.
func (m *Monitor) UnregisterAll() {
	for _, name := range m.registry.Names() {
		m.UnregisterService(name)
	}
}
