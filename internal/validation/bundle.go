// Package validation performs sanity checks on resolved credential
// bundles before they are handed to clients. Checks are advisory: a
// warning does not block a transfer, an error does.
package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/elaunira/r2index/internal/credentials"
)

// Result contains the outcome of a bundle validation.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) errorf(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateBundle checks a resolved bundle for values that would fail at
// transfer time: unparseable URLs, wrong schemes, suspiciously short
// keys. It never logs or returns secret values.
func ValidateBundle(bundle credentials.Bundle) *Result {
	result := &Result{Valid: true}

	checkURL(result, "api_url", bundle.APIURL)
	checkURL(result, "endpoint_url", bundle.EndpointURL)

	if len(bundle.AccessKeyID) < 16 {
		result.warnf("access_key_id is unusually short (%d characters); R2 access key ids are 32 hex characters", len(bundle.AccessKeyID))
	}
	if len(bundle.SecretAccessKey.Reveal()) < 16 {
		result.warnf("secret_access_key is unusually short; check the value %s", maskValue(bundle.SecretAccessKey.Reveal()))
	}
	if len(bundle.APIToken.Reveal()) < 8 {
		result.warnf("api_token is unusually short; check the value %s", maskValue(bundle.APIToken.Reveal()))
	}

	return result
}

func checkURL(result *Result, field, value string) {
	parsed, err := url.Parse(value)
	if err != nil {
		result.errorf("%s is not a valid URL: %v", field, err)
		return
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		result.warnf("%s uses plain http; credentials will cross the network unencrypted", field)
	default:
		result.errorf("%s must be an http(s) URL, got scheme %q", field, parsed.Scheme)
	}
	if parsed.Host == "" {
		result.errorf("%s has no host", field)
	}
	if strings.HasSuffix(parsed.Path, "/") && parsed.Path != "/" {
		result.warnf("%s has a trailing slash; it will be trimmed", field)
	}
}

// maskValue masks a credential value for safe display.
func maskValue(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:3] + "***" + value[len(value)-3:]
}
