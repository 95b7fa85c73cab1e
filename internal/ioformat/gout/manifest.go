package gout

import (
	"io"

	"github.com/goccy/go-yaml"
)

// Manifest is the additive, human-readable companion to a binary
// GalaxyOutput file: the same header counts the binary layout carries,
// available to tooling without parsing the binary header.
type Manifest struct {
	SnapNum     int32   `yaml:"snapNum"`
	Ntrees      int32   `yaml:"ntrees"`
	TotGalaxies int32   `yaml:"totGalaxies"`
	TreeNgals   []int32 `yaml:"treeNgals"`
}

// WriteManifest serializes m as YAML.
func WriteManifest(w io.Writer, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
