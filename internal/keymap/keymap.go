// Package keymap derives canonical storage keys from transfer metadata.
//
// The key layout is
//
//	{category}/{entity}/{path}/{version}/{filename}
//
// and is shared by uploads, downloads and index lookups. Category,
// entity, version and filename are single segments; path may span
// several. Because the first two and last two segments are slash-free,
// a key parses back to exactly one (category, entity, path, version,
// filename) tuple, which keeps re-uploads of the same logical item
// idempotent.
package keymap

import (
	"fmt"
	"strings"
)

// Separator joins key segments.
const Separator = "/"

// InvalidTransferItemError indicates a transfer field that would make
// the derived key ambiguous or unparseable.
type InvalidTransferItemError struct {
	Field  string
	Value  string
	Reason string
}

func (e InvalidTransferItemError) Error() string {
	return fmt.Sprintf("invalid transfer item: field '%s' (value %q) %s", e.Field, e.Value, e.Reason)
}

// ObjectRef names one logical object. Upload destinations and download
// sources both reduce to an ObjectRef, which is what keeps the two key
// derivations symmetric.
type ObjectRef struct {
	Category string
	Entity   string
	Path     string
	Version  string
	Filename string
}

// Key derives the canonical storage key. It is pure and total over
// well-formed refs; the same ref always yields the same key.
func (r ObjectRef) Key() (string, error) {
	if err := segment("category", r.Category); err != nil {
		return "", err
	}
	if err := segment("entity", r.Entity); err != nil {
		return "", err
	}
	if err := pathSegments("path", r.Path); err != nil {
		return "", err
	}
	if err := segment("version", r.Version); err != nil {
		return "", err
	}
	if err := segment("filename", r.Filename); err != nil {
		return "", err
	}

	return strings.Join([]string{r.Category, r.Entity, r.Path, r.Version, r.Filename}, Separator), nil
}

// segment validates a single-segment field: non-empty, no separator.
func segment(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return InvalidTransferItemError{Field: field, Value: value, Reason: "must not be empty"}
	}
	if strings.Contains(value, Separator) {
		return InvalidTransferItemError{Field: field, Value: value,
			Reason: "must not contain '" + Separator + "'"}
	}
	return nil
}

// pathSegments validates a multi-segment path: non-empty, with no empty
// segments (no leading, trailing or doubled separators).
func pathSegments(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return InvalidTransferItemError{Field: field, Value: value, Reason: "must not be empty"}
	}
	for _, part := range strings.Split(value, Separator) {
		if strings.TrimSpace(part) == "" {
			return InvalidTransferItemError{Field: field, Value: value,
				Reason: "must not contain empty path segments"}
		}
	}
	return nil
}
