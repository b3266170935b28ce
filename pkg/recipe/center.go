package recipe

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/wysaid/ccapkg/pkg/cmake"
	"github.com/wysaid/ccapkg/pkg/cpp"
	"github.com/wysaid/ccapkg/pkg/env"
	"github.com/wysaid/ccapkg/pkg/files"
	"github.com/wysaid/ccapkg/pkg/options"
	"github.com/wysaid/ccapkg/pkg/platform"
)

// MinCppstd is the lowest C++ standard ccap compiles with
const MinCppstd = 17

// ErrNoSources indicates the recipe has no sources for the requested version
var ErrNoSources = errors.New("no sources available")

const desktopOnlyReason = "ccap ConanCenter recipe currently targets desktop OSes"

// Center is the recipe published to the central package index. It
// fetches a released source archive and validates the target strictly.
type Center struct {
	version string
}

// NewCenter creates the distribution recipe for version
func NewCenter(version string) *Center {
	return &Center{version: version}
}

func (r *Center) Metadata() Metadata {
	return Metadata{
		Name:        "ccap",
		Version:     r.version,
		License:     "MIT",
		URL:         "https://github.com/conan-io/conan-center-index",
		Homepage:    "https://ccap.work",
		Description: "High-performance cross-platform camera capture library with fast pixel format conversion",
		Topics:      []string{"camera", "capture", "video", "v4l2", "directshow", "avfoundation"},
	}
}

func (r *Center) Options() []options.Definition {
	return []options.Definition{
		{Name: "shared", Default: false},
		{Name: "fPIC", Default: true},
		{Name: "no_log", Default: false},
		{Name: "enable_file_playback", Default: true},
	}
}

func (r *Center) ConfigOptions(s *Session) {
	if s.Settings.OS == platform.Windows {
		s.Options.Remove("fPIC")
	}
}

func (r *Center) Configure(s *Session) {
	if shared, _ := s.Options.GetSafe("shared"); shared {
		s.Options.Remove("fPIC")
	}
}

// Validate rejects compilers below C++17 and mobile Apple targets
func (r *Center) Validate(s *Session) error {
	if err := cmake.CheckMinCppstd(s.Settings, MinCppstd, s.Logger); err != nil {
		return &ConfigurationError{Recipe: r.Metadata().Name, Reason: err.Error(), Err: err}
	}

	switch s.Settings.OS {
	case platform.IOS, platform.WatchOS, platform.TvOS:
		return &ConfigurationError{Recipe: r.Metadata().Name, Reason: desktopOnlyReason}
	}
	return nil
}

func (r *Center) Layout(s *Session) {
	s.CMakeLayout()
}

// Source downloads the release archive listed in conandata.yml
func (r *Center) Source(ctx context.Context, s *Session) error {
	if s.Data == nil || s.Fetcher == nil {
		return fmt.Errorf("%w: ccap/%s has no conandata", ErrNoSources, r.version)
	}

	src, err := s.Data.Source(r.version)
	if err != nil {
		return err
	}
	return s.Fetcher.Get(ctx, src, s.Folders.Source, true)
}

// CacheVariables maps the effective options to the cache variables of the
// ccap CMake project. CMAKE_POSITION_INDEPENDENT_CODE is only set when the
// fPIC option exists.
func (r *Center) CacheVariables(opts *options.Set) *cmake.Vars {
	v := cmake.NewVars()
	v.Set("CCAP_INSTALL", true)
	v.Set("CCAP_BUILD_EXAMPLES", false)
	v.Set("CCAP_BUILD_TESTS", false)
	v.Set("CCAP_BUILD_CLI", false)
	v.Set("CCAP_BUILD_CLI_STANDALONE", false)

	v.Set("CCAP_BUILD_SHARED", opts.Get("shared"))
	v.Set("CCAP_NO_LOG", opts.Get("no_log"))
	v.Set("CCAP_ENABLE_FILE_PLAYBACK", opts.Get("enable_file_playback"))

	if fpic, ok := opts.GetSafe("fPIC"); ok {
		v.Set("CMAKE_POSITION_INDEPENDENT_CODE", fpic)
	}
	return v
}

func (r *Center) Generate(ctx context.Context, s *Session) error {
	if _, err := cmake.NewDeps(s.Dependencies).Generate(s.Layout.GeneratorsFolder); err != nil {
		return err
	}

	tc := s.Toolchain()
	tc.CacheVariables = r.CacheVariables(s.Options)
	return tc.Generate(s.Layout)
}

func (r *Center) Build(ctx context.Context, s *Session) error {
	c := s.CMake()
	c.CacheVariables = r.CacheVariables(s.Options)
	if err := c.Configure(ctx); err != nil {
		return err
	}
	return c.Build(ctx)
}

func (r *Center) Package(ctx context.Context, s *Session) error {
	if _, err := files.Copy("LICENSE", s.Folders.Source, filepath.Join(s.Folders.Package, "licenses")); err != nil {
		return fmt.Errorf("copying license: %w", err)
	}
	return s.CMake().Install(ctx, s.Folders.Package)
}

func (r *Center) PackageInfo(s *Session) {
	if s.CppInfo == nil {
		s.CppInfo = cpp.NewInfo()
	}
	s.CppInfo.Libs = env.CollectLibs(s.PackageLibDirs(), s.Settings.OS)
	applyLinkRequirements(s.CppInfo, s.Settings.OS)

	s.CppInfo.SetProperty(cpp.PropertyCMakeFileName, "ccap")
	s.CppInfo.SetProperty(cpp.PropertyCMakeTargetName, "ccap::ccap")
	s.CppInfo.SetProperty(cpp.PropertyPkgConfigName, "ccap")
}
