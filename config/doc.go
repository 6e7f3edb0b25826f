// Package config loads the svchealth daemon configuration.
//
// The file is YAML, discovered with first-match semantics: an explicit path,
// then svchealth.yaml in the working directory, then
// ~/.svchealth/config.yaml. When no file is found the defaults are used.
//
// Credential fields (API keys, JWT secret, service settings, Pub/Sub names)
// are resolved through package secret, so they may hold ${VAR} references or
// secretref:<provider>:<ref> values instead of literals. A literal $ in those
// fields is written as $$.
package config
