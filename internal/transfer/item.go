package transfer

import (
	"github.com/elaunira/r2index/internal/keymap"
	"gopkg.in/yaml.v3"
)

// UploadItem describes one file to upload. Values are plain strings;
// template expansion, if any, happens in the caller before an item is
// constructed.
type UploadItem struct {
	Source              string                 `yaml:"source"`
	Category            string                 `yaml:"category"`
	Entity              string                 `yaml:"entity"`
	Extension           string                 `yaml:"extension"`
	MediaType           string                 `yaml:"media_type"`
	DestinationPath     string                 `yaml:"destination_path"`
	DestinationFilename string                 `yaml:"destination_filename"`
	DestinationVersion  string                 `yaml:"destination_version"`
	Name                string                 `yaml:"name,omitempty"`
	Tags                []string               `yaml:"tags,omitempty"`
	Extra               map[string]interface{} `yaml:"extra,omitempty"`
}

// ref reduces the destination fields to the shared object reference.
func (i UploadItem) ref() keymap.ObjectRef {
	return keymap.ObjectRef{
		Category: i.Category,
		Entity:   i.Entity,
		Path:     i.DestinationPath,
		Version:  i.DestinationVersion,
		Filename: i.DestinationFilename,
	}
}

// DownloadItem describes one file to download. Category and entity are
// part of every storage key, so the source of a download names them too.
type DownloadItem struct {
	Category       string `yaml:"category"`
	Entity         string `yaml:"entity"`
	SourcePath     string `yaml:"source_path"`
	SourceFilename string `yaml:"source_filename"`
	SourceVersion  string `yaml:"source_version"`
	Destination    string `yaml:"destination"`
	// Overwrite allows replacing an existing destination file.
	// YAML decoding defaults it to true.
	Overwrite bool `yaml:"overwrite"`
}

// UnmarshalYAML defaults Overwrite to true when the key is absent,
// matching the re-run semantics of a scheduled pipeline.
func (i *DownloadItem) UnmarshalYAML(value *yaml.Node) error {
	type plain DownloadItem
	p := plain{Overwrite: true}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*i = DownloadItem(p)
	return nil
}

func (i DownloadItem) ref() keymap.ObjectRef {
	return keymap.ObjectRef{
		Category: i.Category,
		Entity:   i.Entity,
		Path:     i.SourcePath,
		Version:  i.SourceVersion,
		Filename: i.SourceFilename,
	}
}
