package credentials

import "strings"

// RefSeparator splits a secret reference into its path and key segments.
const RefSeparator = "#"

// SecretRef locates a single value in the secret store: a path to a
// secret and the key of one field within it. Both segments may contain
// slashes; neither may contain the separator itself.
type SecretRef struct {
	Path string
	Key  string
}

// ParseSecretRef parses a compact "path#key" reference. The raw string
// must contain the separator exactly once in a position that leaves both
// segments non-empty after trimming.
func ParseSecretRef(raw string) (SecretRef, error) {
	idx := strings.Index(raw, RefSeparator)
	if idx < 0 {
		return SecretRef{}, MalformedReferenceError{Raw: raw, Reason: "missing '" + RefSeparator + "' separator"}
	}

	path := strings.TrimSpace(raw[:idx])
	key := strings.TrimSpace(raw[idx+1:])

	if path == "" {
		return SecretRef{}, MalformedReferenceError{Raw: raw, Reason: "empty path segment"}
	}
	if key == "" {
		return SecretRef{}, MalformedReferenceError{Raw: raw, Reason: "empty key segment"}
	}

	return SecretRef{Path: path, Key: key}, nil
}

// String re-joins the reference in its wire form.
func (r SecretRef) String() string {
	return r.Path + RefSeparator + r.Key
}
