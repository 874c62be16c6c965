package credentials

import "github.com/elaunira/r2index/internal/logging"

// Logical field names of the client configuration. These are the keys
// used in vault secret mappings and direct connection definitions.
const (
	FieldAPIURL          = "api_url"
	FieldAPIToken        = "api_token"
	FieldAccessKeyID     = "access_key_id"
	FieldSecretAccessKey = "secret_access_key"
	FieldEndpointURL     = "endpoint_url"
)

// requiredFields lists every logical field in resolution order.
var requiredFields = []string{
	FieldAPIURL,
	FieldAPIToken,
	FieldAccessKeyID,
	FieldSecretAccessKey,
	FieldEndpointURL,
}

// envVarNames maps each logical field to its fallback environment variable.
var envVarNames = map[string]string{
	FieldAPIURL:          "R2INDEX_API_URL",
	FieldAPIToken:        "R2INDEX_API_TOKEN",
	FieldAccessKeyID:     "R2_ACCESS_KEY_ID",
	FieldSecretAccessKey: "R2_SECRET_ACCESS_KEY",
	FieldEndpointURL:     "R2_ENDPOINT_URL",
}

// Fields returns the logical field names in resolution order.
func Fields() []string {
	out := make([]string, len(requiredFields))
	copy(out, requiredFields)
	return out
}

// EnvVarName returns the fallback environment variable for a field,
// or "" for an unknown field.
func EnvVarName(field string) string {
	return envVarNames[field]
}

// Bundle is a fully resolved client configuration. Token and secret key
// are wrapped in logging.Secret so they cannot leak through format verbs.
// A Bundle is built fresh per resolution and never persisted.
type Bundle struct {
	APIURL          string
	APIToken        logging.Secret
	AccessKeyID     string
	SecretAccessKey logging.Secret
	EndpointURL     string
}

// MissingFields returns the names of every empty field, in canonical order.
func (b Bundle) MissingFields() []string {
	var missing []string
	for _, field := range requiredFields {
		if b.field(field) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// Validate returns an IncompleteBundleError if any field is empty.
func (b Bundle) Validate() error {
	if missing := b.MissingFields(); len(missing) > 0 {
		return IncompleteBundleError{Fields: missing}
	}
	return nil
}

func (b Bundle) field(name string) string {
	switch name {
	case FieldAPIURL:
		return b.APIURL
	case FieldAPIToken:
		return b.APIToken.Reveal()
	case FieldAccessKeyID:
		return b.AccessKeyID
	case FieldSecretAccessKey:
		return b.SecretAccessKey.Reveal()
	case FieldEndpointURL:
		return b.EndpointURL
	}
	return ""
}

// bundleFromValues populates a Bundle from a field-name keyed map.
func bundleFromValues(values map[string]string) Bundle {
	return Bundle{
		APIURL:          values[FieldAPIURL],
		APIToken:        logging.Secret(values[FieldAPIToken]),
		AccessKeyID:     values[FieldAccessKeyID],
		SecretAccessKey: logging.Secret(values[FieldSecretAccessKey]),
		EndpointURL:     values[FieldEndpointURL],
	}
}
