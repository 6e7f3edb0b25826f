// Package secret resolves credentials referenced from configuration.
//
// Values may contain ${VAR} references, expanded strictly (a missing variable
// is an error), and secret references of the form:
//
//	secretref:<provider>:<ref>
//
// either as the whole value or inline ("Bearer secretref:env:ADMIN_TOKEN").
// The env provider reads environment variables and the file provider reads
// mounted secret files, trimming a trailing newline.
package secret
