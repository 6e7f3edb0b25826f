// Package auth authenticates callers of administrative health endpoints.
//
// Two credential types are supported: static API keys, stored as SHA-256
// hashes, and HMAC-signed JWTs with optional issuer and audience checks. A
// CompositeAuthenticator tries them in order and Middleware enforces the
// result on HTTP handlers, rejecting unauthenticated requests with 401 and
// requests lacking a required role with 403.
//
//	keys := auth.NewMemoryAPIKeyStore()
//	_ = keys.Add(&auth.APIKeyInfo{ID: "ops", KeyHash: auth.HashAPIKey(key), Principal: "ops", Roles: []string{"admin"}})
//
//	authn := auth.NewCompositeAuthenticator(
//	    auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, keys),
//	    auth.NewJWTAuthenticator(auth.JWTConfig{Issuer: "svchealth"}, auth.NewStaticKeyProvider(secret)),
//	)
//	admin := auth.Middleware(authn, auth.MiddlewareConfig{RequiredRole: "admin"})
package auth
