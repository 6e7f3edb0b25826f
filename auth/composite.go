package auth

import "context"

// CompositeAuthenticator tries authenticators in order and returns the first
// success. Authenticators that do not support the request are skipped.
type CompositeAuthenticator struct {
	authenticators []Authenticator
}

// NewCompositeAuthenticator creates a composite authenticator.
func NewCompositeAuthenticator(auths ...Authenticator) *CompositeAuthenticator {
	return &CompositeAuthenticator{authenticators: auths}
}

// Name returns "composite".
func (c *CompositeAuthenticator) Name() string { return "composite" }

// Supports returns true if any authenticator supports the request.
func (c *CompositeAuthenticator) Supports(req *AuthRequest) bool {
	for _, a := range c.authenticators {
		if a.Supports(req) {
			return true
		}
	}
	return false
}

// Authenticate tries each supporting authenticator in sequence. When none
// succeeds the last failure is returned.
func (c *CompositeAuthenticator) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error) {
	var last *AuthResult
	for _, a := range c.authenticators {
		if !a.Supports(req) {
			continue
		}
		result, err := a.Authenticate(ctx, req)
		if err != nil {
			return nil, err
		}
		if result.Authenticated {
			return result, nil
		}
		last = result
	}
	if last != nil {
		return last, nil
	}
	return AuthFailure(ErrMissingCredentials, c.Name()), nil
}

var _ Authenticator = (*CompositeAuthenticator)(nil)
