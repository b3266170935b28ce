// Package recipe defines packaging recipes and the session they run in.
//
// A Recipe declares metadata and options. Each lifecycle step a recipe
// takes part in is a separate small interface (Configurer, Validator,
// Builder, Packager, ...) that the lifecycle driver discovers by type
// assertion, so recipes implement only the steps they need.
package recipe

import (
	"context"

	"github.com/wysaid/ccapkg/pkg/options"
)

// Metadata describes a recipe
type Metadata struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version,omitempty"`
	License     string   `yaml:"license,omitempty"`
	Author      string   `yaml:"author,omitempty"`
	URL         string   `yaml:"url,omitempty"`
	Homepage    string   `yaml:"homepage,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Topics      []string `yaml:"topics,omitempty"`
}

// Reference returns "name/version"
func (m Metadata) Reference() string {
	return m.Name + "/" + m.Version
}

// Recipe is implemented by every recipe
type Recipe interface {
	Metadata() Metadata
	Options() []options.Definition
}

// ConfigOptioner adjusts which options exist for the target settings
type ConfigOptioner interface {
	ConfigOptions(s *Session)
}

// Configurer adjusts option values after user overrides are applied
type Configurer interface {
	Configure(s *Session)
}

// Validator rejects configurations the recipe cannot build.
// Errors should be *ConfigurationError.
type Validator interface {
	Validate(s *Session) error
}

// Layouter assigns the source, build and generators folders
type Layouter interface {
	Layout(s *Session)
}

// Sourcer retrieves sources into the source folder
type Sourcer interface {
	Source(ctx context.Context, s *Session) error
}

// Requirer lists the references the recipe depends on
type Requirer interface {
	Requirements(s *Session) []string
}

// GeneratorDeclarer names built-in generators run before Generate
type GeneratorDeclarer interface {
	Generators() []string
}

// Generator writes build-system input files
type Generator interface {
	Generate(ctx context.Context, s *Session) error
}

// Builder compiles the project
type Builder interface {
	Build(ctx context.Context, s *Session) error
}

// Packager copies artifacts into the package folder and describes them
type Packager interface {
	Package(ctx context.Context, s *Session) error
	PackageInfo(s *Session)
}

// Tester exercises a built consumer
type Tester interface {
	Test(ctx context.Context, s *Session) error
}

// ResolveOptions computes the effective options of r for the session
// settings: defaults, ConfigOptions, user overrides, then Configure.
// Overrides for options removed for the target are returned as skipped.
func ResolveOptions(r Recipe, s *Session, overrides []string) ([]string, error) {
	s.Options = options.New(r.Options())
	if h, ok := r.(ConfigOptioner); ok {
		h.ConfigOptions(s)
	}

	skipped, err := s.Options.Apply(overrides)
	if err != nil {
		return nil, err
	}

	if h, ok := r.(Configurer); ok {
		h.Configure(s)
	}
	return skipped, nil
}
