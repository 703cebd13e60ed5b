package trigger

import (
	"github.com/arthur-debert/glyphs/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk description of an asset set
type Manifest struct {
	Triggers []ManifestTrigger `yaml:"triggers"`
	Sounds   []ManifestSound   `yaml:"sounds"`
}

// ManifestTrigger is one trigger line of a manifest. Paths are relative
// to the manifest's directory unless absolute.
type ManifestTrigger struct {
	Name      string `yaml:"name"`
	Image     string `yaml:"image"`
	ZeroWidth string `yaml:"zero_width,omitempty"`
	Folder    string `yaml:"folder,omitempty"`
}

// ManifestSound is one sound line of a manifest
type ManifestSound struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// ParseManifest decodes manifest YAML
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse manifest")
	}
	return &m, nil
}
