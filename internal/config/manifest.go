package config

import (
	"os"

	rerrors "github.com/elaunira/r2index/internal/errors"
	"github.com/elaunira/r2index/internal/transfer"
	"gopkg.in/yaml.v3"
)

// Manifest describes a batch of transfers for the CLI adapter. It is
// the file-based equivalent of the items an orchestration framework
// would pass in.
type Manifest struct {
	Bucket    string                  `yaml:"bucket"`
	Uploads   []transfer.UploadItem   `yaml:"uploads,omitempty"`
	Downloads []transfer.DownloadItem `yaml:"downloads,omitempty"`
}

// LoadManifest reads a transfer manifest. Download items default to
// overwriting their destinations, matching the usual re-run semantics
// of a scheduled pipeline.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rerrors.ConfigError{
			Field:      "manifest",
			Value:      path,
			Message:    "transfer manifest not found or unreadable",
			Suggestion: "Pass a YAML manifest with a 'bucket:' and 'uploads:' or 'downloads:' section",
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, rerrors.ConfigError{
			Field:      "manifest",
			Value:      path,
			Message:    "invalid YAML syntax in transfer manifest",
			Suggestion: "Check indentation and field names against the manifest format",
		}
	}

	if m.Bucket == "" {
		return nil, rerrors.ConfigError{
			Field:      "bucket",
			Message:    "transfer manifest has no bucket",
			Suggestion: "Set 'bucket: <name>' at the top of the manifest",
		}
	}

	return &m, nil
}
