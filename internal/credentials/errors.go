package credentials

import (
	"fmt"
	"strings"
)

// MalformedReferenceError indicates a secret reference string that does
// not follow the "path#key" format.
type MalformedReferenceError struct {
	Raw    string
	Reason string
}

func (e MalformedReferenceError) Error() string {
	return fmt.Sprintf("malformed secret reference %q: %s", e.Raw, e.Reason)
}

// MissingSecretMappingError indicates a required field has no entry in
// the vault secrets mapping. No store call is made for that field.
type MissingSecretMappingError struct {
	Field string
}

func (e MissingSecretMappingError) Error() string {
	return fmt.Sprintf("no secret mapping for required field '%s'", e.Field)
}

// SecretFetchError indicates the secret store failed while fetching the
// value for one field. The underlying store error is preserved so callers
// can distinguish not-found from connectivity failures.
type SecretFetchError struct {
	Field string
	Ref   SecretRef
	Err   error
}

func (e SecretFetchError) Error() string {
	return fmt.Sprintf("failed to fetch secret for field '%s' (ref %s): %v", e.Field, e.Ref, e.Err)
}

func (e SecretFetchError) Unwrap() error {
	return e.Err
}

// MissingDirectFieldError indicates a direct-mode literal is empty or absent.
type MissingDirectFieldError struct {
	Field string
}

func (e MissingDirectFieldError) Error() string {
	return fmt.Sprintf("direct connection field '%s' is empty", e.Field)
}

// MissingEnvVarError indicates a fallback environment variable is unset.
type MissingEnvVarError struct {
	Name string
}

func (e MissingEnvVarError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Name)
}

// IncompleteBundleError reports every field still empty after resolution.
// It guards against a resolver extension returning a partial bundle.
type IncompleteBundleError struct {
	Fields []string
}

func (e IncompleteBundleError) Error() string {
	return fmt.Sprintf("credential bundle incomplete, missing: %s", strings.Join(e.Fields, ", "))
}
