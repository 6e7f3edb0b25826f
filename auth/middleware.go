package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonwraymond/svchealth/observe"
)

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	// RequiredRole, when set, must be held by the authenticated identity.
	RequiredRole string

	// Logger records rejected requests. Default: observe.NopLogger()
	Logger observe.Logger
}

// Middleware rejects requests that authn does not authenticate. The identity
// of accepted requests is stored in the request context.
func Middleware(authn Authenticator, cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			result, err := authn.Authenticate(ctx, RequestFromHTTP(r))
			if err != nil {
				cfg.Logger.Error(ctx, "authentication error", observe.Field{Key: "error", Value: err.Error()})
				deny(w, http.StatusInternalServerError, errors.New("authentication unavailable"))
				return
			}
			if !result.Authenticated {
				cfg.Logger.Warn(ctx, "request rejected",
					observe.Field{Key: "path", Value: r.URL.Path},
					observe.Field{Key: "method", Value: result.Method},
					observe.Field{Key: "reason", Value: errString(result.Error)},
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="svchealth"`)
				deny(w, http.StatusUnauthorized, result.Error)
				return
			}
			if cfg.RequiredRole != "" && !result.Identity.HasRole(cfg.RequiredRole) {
				deny(w, http.StatusForbidden, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, result.Identity)))
		})
	}
}

func errString(err error) string {
	if err == nil {
		return ErrInvalidCredentials.Error()
	}
	return err.Error()
}

func deny(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": errString(err)})
}
