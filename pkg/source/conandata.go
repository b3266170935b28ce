package source

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrVersionNotFound indicates conandata has no sources for a version
	ErrVersionNotFound = errors.New("no sources for version")

	// ErrHashMismatch indicates a downloaded archive failed sha256 verification
	ErrHashMismatch = errors.New("hash mismatch")
)

// Data is the content of a conandata.yml file
type Data struct {
	Sources map[string]Source `yaml:"sources"`
}

// Source describes where the sources of one version come from: either an
// archive (url + sha256) or a git repository (git + tag or commit)
type Source struct {
	URL    URLs   `yaml:"url,omitempty"`
	SHA256 string `yaml:"sha256,omitempty"`
	Git    string `yaml:"git,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Commit string `yaml:"commit,omitempty"`
}

// IsGit reports whether the source is a git checkout
func (s Source) IsGit() bool {
	return s.Git != ""
}

// URLs is a list of mirrors. In YAML it is either a string or a list.
type URLs []string

// UnmarshalYAML accepts a scalar or a sequence
func (u *URLs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*u = URLs{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*u = list
		return nil
	}
	return fmt.Errorf("line %d: url must be a string or a list of strings", node.Line)
}

// LoadData reads and parses a conandata.yml file
func LoadData(path string) (*Data, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading conandata: %w", err)
	}

	var d Data
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing conandata: %w", err)
	}
	return &d, nil
}

// Source returns the source entry of a version
func (d *Data) Source(version string) (Source, error) {
	src, ok := d.Sources[version]
	if !ok {
		return Source{}, fmt.Errorf("%w %s", ErrVersionNotFound, version)
	}
	if len(src.URL) == 0 && !src.IsGit() {
		return Source{}, fmt.Errorf("sources for %s declare neither url nor git", version)
	}
	return src, nil
}
