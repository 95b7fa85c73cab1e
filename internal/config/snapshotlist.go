package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/cosmotree/sage/internal/faults"
)

// LoadSnapshotList reads spec §6's "whitespace-separated scale-factor
// values (one per snapshot)" format: one value per line (or several per
// line), '%' comments, blank lines ignored.
func LoadSnapshotList(r io.Reader) ([]float64, error) {
	var out []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '%'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			a, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, &faults.FormatError{Reason: "snapshot list: not a number: " + tok}
			}
			out = append(out, a)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &faults.FormatError{Reason: "snapshot list: " + err.Error()}
	}
	if len(out) == 0 {
		return nil, &faults.FormatError{Reason: "snapshot list: empty"}
	}
	return out, nil
}

// snapshotListYAML is the additive YAML variant's document shape: a
// flat list of scale factors under a single key, for driving a run from
// CI configuration rather than a flat whitespace-separated file.
type snapshotListYAML struct {
	ScaleFactors []float64 `yaml:"scaleFactors"`
}

// LoadSnapshotListYAML reads the optional YAML snapshot-list format
// (spec only requires the whitespace-separated variant; this is an
// additive convenience, never the only way to supply the list).
func LoadSnapshotListYAML(r io.Reader) ([]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &faults.FormatError{Reason: "snapshot list (yaml): " + err.Error()}
	}

	var doc snapshotListYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &faults.FormatError{Reason: "snapshot list (yaml): " + err.Error()}
	}
	if len(doc.ScaleFactors) == 0 {
		return nil, &faults.FormatError{Reason: "snapshot list (yaml): scaleFactors empty"}
	}
	return doc.ScaleFactors, nil
}
