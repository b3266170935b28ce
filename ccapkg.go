// ccapkg.go
package ccapkg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phuslu/log"

	"github.com/wysaid/ccapkg/pkg/cache"
	"github.com/wysaid/ccapkg/pkg/core"
	"github.com/wysaid/ccapkg/pkg/lifecycle"
	"github.com/wysaid/ccapkg/pkg/platform"
	"github.com/wysaid/ccapkg/pkg/recipe"
	"github.com/wysaid/ccapkg/pkg/runner"
	"github.com/wysaid/ccapkg/pkg/source"
)

// Re-export types for convenience
type (
	Config   = core.Config
	Settings = platform.Settings
	Entry    = cache.Entry
	Metadata = recipe.Metadata
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Packager creates, verifies and distributes ccap packages
type Packager struct {
	config *core.Config
	cache  *cache.Cache
	driver *lifecycle.Driver
	logger *log.Logger
}

// NewPackager creates a packager. A nil runner executes real processes and
// a nil logger logs to stderr.
func NewPackager(config *Config, r runner.Runner, logger *log.Logger) (*Packager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.CachePath == "" {
		config.CachePath = core.DefaultConfig().CachePath
	}

	if logger == nil {
		logger = core.NewLogger(os.Stderr, config.Debug)
	}
	if r == nil {
		r = runner.NewExecRunner(logger)
	}

	root, err := filepath.Abs(config.CachePath)
	if err != nil {
		return nil, fmt.Errorf("resolving cache path: %w", err)
	}
	c := cache.New(root)
	fetcher := source.NewFetcher(source.NewClient(), c.DownloadFolder(), logger)

	return &Packager{
		config: config,
		cache:  c,
		driver: lifecycle.NewDriver(c, r, fetcher, logger),
		logger: logger,
	}, nil
}

// Cache returns the package cache
func (p *Packager) Cache() *cache.Cache {
	return p.cache
}

// Target selects the host settings of an operation: a named profile with
// setting overrides applied
type Target struct {
	Profile  string
	Settings []string // key=value
}

func (p *Packager) resolveTarget(t Target) (platform.Settings, platform.Settings, error) {
	host, err := p.config.Profile(t.Profile)
	if err != nil {
		return host, host, err
	}
	if err := host.Apply(t.Settings); err != nil {
		return host, host, err
	}
	if host.BuildType == "" {
		host.BuildType = "Release"
	}
	if err := host.Validate(); err != nil {
		return host, host, err
	}

	build, err := platform.Detect()
	if err != nil {
		p.logger.Debug().Err(err).Msg("build machine not detected, assuming host")
		build = host
	}
	return host, build, nil
}

func (p *Packager) conf() recipe.Conf {
	return recipe.Conf{
		Generator: p.config.Generator,
		Jobs:      p.config.Jobs,
		CanRun:    p.config.CanRun,
	}
}

// CreateRequest describes a create operation
type CreateRequest struct {
	Target
	Recipe     string   // recipe.KindLocal or recipe.KindCenter
	Version    string   // Empty for the local recipe version
	Path       string   // Local checkout, or the folder holding conandata.yml
	Conandata  string   // Explicit conandata.yml path
	Options    []string // name=value
	TestFolder string   // Consumer project replacing the bundled one
	NoTest     bool
}

// Create builds and packages ccap, then verifies the package unless
// NoTest is set
func (p *Packager) Create(ctx context.Context, req CreateRequest) (*Entry, error) {
	r, err := recipe.ByKind(req.Recipe, req.Version)
	if err != nil {
		return nil, &Error{Op: "create", Err: err}
	}
	ref := r.Metadata().Reference()

	host, build, err := p.resolveTarget(req.Target)
	if err != nil {
		return nil, &Error{Op: "create", Reference: ref, Err: err}
	}

	opts := lifecycle.CreateOptions{
		Settings:      host,
		BuildSettings: build,
		Overrides:     req.Options,
		Conf:          p.conf(),
	}

	path := req.Path
	if path == "" {
		path = "."
	}
	switch req.Recipe {
	case recipe.KindLocal:
		if opts.SourceFolder, err = filepath.Abs(path); err != nil {
			return nil, &Error{Op: "create", Reference: ref, Err: err}
		}
	case recipe.KindCenter:
		if opts.Data, err = loadConandata(path, req.Conandata); err != nil {
			return nil, &Error{Op: "create", Reference: ref, Err: err}
		}
	}

	entry, err := p.driver.Create(ctx, r, opts)
	if err != nil {
		return nil, &Error{Op: "create", Reference: ref, Err: err}
	}

	if req.NoTest {
		return entry, nil
	}
	folder, err := absFolder(req.TestFolder)
	if err != nil {
		return entry, &Error{Op: "test", Reference: ref, Err: err}
	}
	err = p.driver.Test(ctx, ref, lifecycle.TestOptions{
		Settings:      host,
		BuildSettings: build,
		Folder:        folder,
		Conf:          p.conf(),
	})
	if err != nil {
		return entry, &Error{Op: "test", Reference: ref, Err: err}
	}
	return entry, nil
}

func loadConandata(dir, explicit string) (*source.Data, error) {
	path := explicit
	if path == "" {
		path = filepath.Join(dir, "conandata.yml")
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConandata, path)
	}
	return source.LoadData(path)
}

// absFolder resolves an optional folder against the working directory
func absFolder(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	return filepath.Abs(dir)
}

// TestRequest describes a test operation
type TestRequest struct {
	Target
	Folder string
}

// Test runs the verification recipe against a cached package
func (p *Packager) Test(ctx context.Context, ref string, req TestRequest) error {
	host, build, err := p.resolveTarget(req.Target)
	if err != nil {
		return &Error{Op: "test", Reference: ref, Err: err}
	}

	folder, err := absFolder(req.Folder)
	if err != nil {
		return &Error{Op: "test", Reference: ref, Err: err}
	}
	err = p.driver.Test(ctx, ref, lifecycle.TestOptions{
		Settings:      host,
		BuildSettings: build,
		Folder:        folder,
		Conf:          p.conf(),
	})
	if err != nil {
		return &Error{Op: "test", Reference: ref, Err: err}
	}
	return nil
}

// Inspection describes a recipe without running it
type Inspection struct {
	Kind     string          `yaml:"kind"`
	Metadata recipe.Metadata `yaml:",inline"`
	Options  map[string]bool `yaml:"default_options"`
}

// Inspect returns the metadata and default options of a recipe
func (p *Packager) Inspect(kind, version string) (*Inspection, error) {
	r, err := recipe.ByKind(kind, version)
	if err != nil {
		return nil, &Error{Op: "inspect", Err: err}
	}

	defaults := make(map[string]bool)
	for _, d := range r.Options() {
		defaults[d.Name] = d.Default
	}
	return &Inspection{Kind: kind, Metadata: r.Metadata(), Options: defaults}, nil
}

// List returns every cached package
func (p *Packager) List() ([]*Entry, error) {
	entries, err := p.cache.List()
	if err != nil {
		return nil, &Error{Op: "list", Err: err}
	}
	return entries, nil
}

// Info returns every cached package of ref, newest first
func (p *Packager) Info(ref string) ([]*Entry, error) {
	parsed, err := cache.ParseReference(ref)
	if err != nil {
		return nil, &Error{Op: "info", Reference: ref, Err: err}
	}

	entries, err := p.cache.Packages(parsed)
	if err != nil {
		return nil, &Error{Op: "info", Reference: ref, Err: err}
	}
	if len(entries) == 0 {
		return nil, &Error{Op: "info", Reference: ref, Err: ErrPackageNotFound}
	}
	return entries, nil
}

// InstallRequest describes an install operation
type InstallRequest struct {
	Target
	Generators   []string
	OutputFolder string
}

// Install writes consumer files for a cached package into the output folder
func (p *Packager) Install(ctx context.Context, ref string, req InstallRequest) ([]string, error) {
	host, _, err := p.resolveTarget(req.Target)
	if err != nil {
		return nil, &Error{Op: "install", Reference: ref, Err: err}
	}

	out := req.OutputFolder
	if out == "" {
		out = "."
	}
	if out, err = filepath.Abs(out); err != nil {
		return nil, &Error{Op: "install", Reference: ref, Err: err}
	}

	written, err := p.driver.Install(ctx, ref, lifecycle.InstallOptions{
		Settings:     host,
		Generators:   req.Generators,
		OutputFolder: out,
		Conf:         p.conf(),
	})
	if err != nil {
		return written, &Error{Op: "install", Reference: ref, Err: err}
	}
	return written, nil
}

// Archive packs a cached package into dir. An empty packageID selects the
// newest package of ref.
func (p *Packager) Archive(ref, packageID, dir string) (string, error) {
	entries, err := p.Info(ref)
	if err != nil {
		return "", &Error{Op: "archive", Reference: ref, Err: errors.Unwrap(err)}
	}

	entry := entries[0]
	if packageID != "" {
		entry = nil
		for _, e := range entries {
			if e.PackageID == packageID {
				entry = e
				break
			}
		}
		if entry == nil {
			return "", &Error{Op: "archive", Reference: ref, Err: fmt.Errorf("%w: package id %s", ErrPackageNotFound, packageID)}
		}
	}

	path, n, err := p.cache.Archive(entry, dir)
	if err != nil {
		return "", &Error{Op: "archive", Reference: ref, Err: err}
	}
	p.logger.Info().Str("archive", path).Int("files", n).Msg("package archived")
	return path, nil
}

// Remove deletes every cached package of ref
func (p *Packager) Remove(ref string) error {
	parsed, err := cache.ParseReference(ref)
	if err != nil {
		return &Error{Op: "remove", Reference: ref, Err: err}
	}
	if err := p.cache.Remove(parsed); err != nil {
		return &Error{Op: "remove", Reference: ref, Err: err}
	}
	return nil
}
