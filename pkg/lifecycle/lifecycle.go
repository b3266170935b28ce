// Package lifecycle runs recipes: it calls their lifecycle hooks in order,
// resolves requirements from the package cache and stores the results.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/phuslu/log"

	"github.com/wysaid/ccapkg/pkg/cache"
	"github.com/wysaid/ccapkg/pkg/cpp"
	"github.com/wysaid/ccapkg/pkg/env"
	"github.com/wysaid/ccapkg/pkg/files"
	"github.com/wysaid/ccapkg/pkg/platform"
	"github.com/wysaid/ccapkg/pkg/recipe"
	"github.com/wysaid/ccapkg/pkg/runner"
	"github.com/wysaid/ccapkg/pkg/source"
)

// Driver executes recipe lifecycles against a package cache
type Driver struct {
	cache   *cache.Cache
	runner  runner.Runner
	fetcher *source.Fetcher
	logger  *log.Logger
}

// NewDriver creates a driver. fetcher may be nil when no recipe needs to
// download sources.
func NewDriver(c *cache.Cache, r runner.Runner, fetcher *source.Fetcher, logger *log.Logger) *Driver {
	return &Driver{
		cache:   c,
		runner:  r,
		fetcher: fetcher,
		logger:  logger,
	}
}

// CreateOptions parameterize Create
type CreateOptions struct {
	Settings      platform.Settings // Host settings
	BuildSettings platform.Settings
	Overrides     []string     // name=value option overrides
	SourceFolder  string       // Recipe sources; empty to use the cache source folder
	Data          *source.Data // conandata.yml, when the recipe fetches sources
	Conf          recipe.Conf
}

// TestOptions parameterize Test
type TestOptions struct {
	Settings      platform.Settings
	BuildSettings platform.Settings
	Folder        string // Consumer project copied into the test folder; empty for the bundled one
	Conf          recipe.Conf
}

// InstallOptions parameterize Install
type InstallOptions struct {
	Settings     platform.Settings
	Generators   []string
	OutputFolder string
	Conf         recipe.Conf
}

func (d *Driver) newSession(host, build platform.Settings, conf recipe.Conf) *recipe.Session {
	if host.BuildType == "" {
		host.BuildType = "Release"
	}
	if build.OS == "" {
		build = host
	}
	return &recipe.Session{
		Settings:      host,
		BuildSettings: build,
		Conf:          conf,
		Fetcher:       d.fetcher,
		Runner:        d.runner,
		Logger:        d.logger,
	}
}

// Create builds and packages r, then stores the package in the cache.
// Validation failures are returned before any process is started.
func (d *Driver) Create(ctx context.Context, r recipe.Recipe, opts CreateOptions) (*cache.Entry, error) {
	meta := r.Metadata()
	ref, err := cache.ParseReference(meta.Reference())
	if err != nil {
		return nil, err
	}

	s := d.newSession(opts.Settings, opts.BuildSettings, opts.Conf)
	s.Data = opts.Data

	skipped, err := recipe.ResolveOptions(r, s, opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("resolving options: %w", err)
	}
	for _, name := range skipped {
		d.logger.Warn().Str("option", name).Msg("option does not exist for this configuration, override ignored")
	}

	if v, ok := r.(recipe.Validator); ok {
		if err := v.Validate(s); err != nil {
			return nil, err
		}
	}

	packageID := cache.PackageID(s.Settings.Values(), s.Options.Values())
	d.logger.Info().Str("ref", ref.String()).Str("package_id", packageID).Str("options", s.Options.String()).Msg("creating package")

	s.Folders = recipe.Folders{
		Root:    d.cache.BuildFolder(ref, packageID),
		Source:  opts.SourceFolder,
		Package: d.cache.PackageFolder(ref, packageID),
	}
	if s.Folders.Source == "" {
		s.Folders.Source = d.cache.SourceFolder(ref)
	}
	if err := os.RemoveAll(s.Folders.Package); err != nil {
		return nil, fmt.Errorf("cleaning package folder: %w", err)
	}
	if err := os.MkdirAll(s.Folders.Package, 0755); err != nil {
		return nil, fmt.Errorf("creating package folder: %w", err)
	}

	if err := d.prepare(ctx, r, s); err != nil {
		return nil, err
	}

	if b, ok := r.(recipe.Builder); ok {
		if err := b.Build(ctx, s); err != nil {
			return nil, err
		}
	}

	s.CppInfo = cpp.NewInfo()
	if p, ok := r.(recipe.Packager); ok {
		if err := p.Package(ctx, s); err != nil {
			return nil, err
		}
		p.PackageInfo(s)
	}

	entry := &cache.Entry{
		Reference: ref.String(),
		PackageID: packageID,
		Settings:  s.Settings.Values(),
		Options:   s.Options.Values(),
		CppInfo:   *s.CppInfo,
	}
	if err := d.cache.Store(entry); err != nil {
		return nil, err
	}

	d.logger.Info().Str("ref", ref.String()).Str("revision", entry.Revision).Strs("libs", entry.CppInfo.Libs).Msg("package created")
	return entry, nil
}

// prepare runs layout, source, requirements and generate
func (d *Driver) prepare(ctx context.Context, r recipe.Recipe, s *recipe.Session) error {
	if l, ok := r.(recipe.Layouter); ok {
		l.Layout(s)
	} else {
		s.CMakeLayout()
	}

	if src, ok := r.(recipe.Sourcer); ok && files.IsEmptyDir(s.Folders.Source) {
		if err := os.MkdirAll(s.Folders.Source, 0755); err != nil {
			return fmt.Errorf("creating source folder: %w", err)
		}
		if err := src.Source(ctx, s); err != nil {
			// A partial tree would be taken as complete by the next run
			if rmErr := os.RemoveAll(s.Folders.Source); rmErr != nil {
				d.logger.Warn().Str("folder", s.Folders.Source).Err(rmErr).Msg("removing incomplete sources")
			}
			return fmt.Errorf("retrieving sources: %w", err)
		}
	}

	if req, ok := r.(recipe.Requirer); ok {
		for _, name := range req.Requirements(s) {
			dep, err := d.resolve(name, s.Settings)
			if err != nil {
				return err
			}
			s.Dependencies = append(s.Dependencies, dep)
		}
	}

	if g, ok := r.(recipe.GeneratorDeclarer); ok {
		if _, err := runGenerators(s, g.Generators(), s.Folders.Generators); err != nil {
			return err
		}
	}
	if g, ok := r.(recipe.Generator); ok {
		if err := g.Generate(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// resolve finds the newest cached package of name matching the host
func (d *Driver) resolve(name string, host platform.Settings) (cpp.Package, error) {
	ref, err := cache.ParseReference(name)
	if err != nil {
		return cpp.Package{}, err
	}

	entry, err := d.cache.Find(ref, matchSettings(host))
	if err != nil {
		return cpp.Package{}, fmt.Errorf("resolving requirement %s: %w", name, err)
	}
	return packageOf(ref, entry), nil
}

func matchSettings(s platform.Settings) map[string]string {
	match := map[string]string{
		platform.KeyOS:   string(s.OS),
		platform.KeyArch: s.Arch,
	}
	if s.BuildType != "" {
		match[platform.KeyBuildType] = s.BuildType
	}
	return match
}

func packageOf(ref cache.Reference, e *cache.Entry) cpp.Package {
	info := e.CppInfo
	return cpp.Package{
		Name:    ref.Name,
		Version: ref.Version,
		Folder:  e.Folder,
		Info:    &info,
	}
}

// Test builds the verification consumer against the cached package of ref
// and runs it when the host binaries can execute here
func (d *Driver) Test(ctx context.Context, ref string, opts TestOptions) error {
	s := d.newSession(opts.Settings, opts.BuildSettings, opts.Conf)

	parsed, err := cache.ParseReference(ref)
	if err != nil {
		return err
	}
	entry, err := d.cache.Find(parsed, matchSettings(s.Settings))
	if err != nil {
		return err
	}

	r := recipe.NewTestPackage(parsed.String())
	if _, err := recipe.ResolveOptions(r, s, nil); err != nil {
		return err
	}

	dep := packageOf(parsed, entry)
	for _, lib := range entry.CppInfo.Libs {
		if !env.HasLibrary(dep.LibDirs(), lib, s.Settings.OS) {
			return fmt.Errorf("package %s:%s has no %s library", parsed, entry.PackageID, lib)
		}
	}

	root := d.cache.TestFolder(parsed, entry.PackageID)
	s.TestedReference = parsed.String()
	s.Folders = recipe.Folders{Root: root, Source: filepath.Join(root, "src")}
	if err := os.RemoveAll(s.Folders.Source); err != nil {
		return err
	}
	// A custom consumer is built from a copy; the bundled one is written by Source
	if opts.Folder != "" {
		if err := files.CopyDir(opts.Folder, s.Folders.Source); err != nil {
			return fmt.Errorf("copying consumer project: %w", err)
		}
	}

	d.logger.Info().Str("ref", parsed.String()).Str("package_id", entry.PackageID).Msg("testing package")
	if err := d.prepare(ctx, r, s); err != nil {
		return err
	}
	if err := r.Build(ctx, s); err != nil {
		return err
	}
	if err := r.Test(ctx, s); err != nil {
		return fmt.Errorf("test_package failed: %w", err)
	}
	return nil
}

// Install runs consumer generators for the cached package of ref into the
// output folder and returns the files written
func (d *Driver) Install(ctx context.Context, ref string, opts InstallOptions) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generators := opts.Generators
	if len(generators) == 0 {
		generators = []string{GeneratorCMakeDeps, GeneratorPkgConfigDeps, GeneratorVirtualRunEnv}
	}
	for _, name := range generators {
		if !slices.Contains(Generators, name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
		}
	}

	s := d.newSession(opts.Settings, platform.Settings{}, opts.Conf)
	dep, err := d.resolve(ref, s.Settings)
	if err != nil {
		return nil, err
	}
	s.Dependencies = []cpp.Package{dep}
	s.Layout.BuildFolder = opts.OutputFolder
	s.Layout.GeneratorsFolder = opts.OutputFolder

	written, err := runGenerators(s, generators, opts.OutputFolder)
	if err != nil {
		return written, err
	}
	d.logger.Info().Str("ref", ref).Str("generators", strings.Join(generators, ",")).Int("files", len(written)).Msg("install finished")
	return written, nil
}
