package recipe

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/wysaid/ccapkg/pkg/cmake"
	"github.com/wysaid/ccapkg/pkg/cpp"
	"github.com/wysaid/ccapkg/pkg/files"
	"github.com/wysaid/ccapkg/pkg/options"
	"github.com/wysaid/ccapkg/pkg/platform"
)

// Version of ccap the local recipe builds
const LocalVersion = "1.3.2"

// Local builds ccap straight from a checkout of its repository
type Local struct{}

// NewLocal creates the local recipe
func NewLocal() *Local {
	return &Local{}
}

func (r *Local) Metadata() Metadata {
	return Metadata{
		Name:        "ccap",
		Version:     LocalVersion,
		License:     "MIT",
		Author:      "wysaid (this@wysaid.org)",
		URL:         "https://github.com/wysaid/CameraCapture",
		Description: "A C/C++ library for camera capture",
		Topics:      []string{"camera", "capture", "video", "cpp"},
	}
}

func (r *Local) Options() []options.Definition {
	return []options.Definition{
		{Name: "shared", Default: false},
		{Name: "fPIC", Default: true},
		{Name: "no_log", Default: false},
	}
}

func (r *Local) ConfigOptions(s *Session) {
	if s.Settings.OS == platform.Windows {
		s.Options.Remove("fPIC")
	}
}

func (r *Local) Layout(s *Session) {
	s.CMakeLayout()
}

// Variables maps the effective options to the toolchain variables of the
// ccap CMake project
func (r *Local) Variables(opts *options.Set) *cmake.Vars {
	v := cmake.NewVars()
	v.Set("CCAP_BUILD_SHARED", opts.Get("shared"))
	v.Set("CCAP_NO_LOG", opts.Get("no_log"))
	v.Set("CCAP_BUILD_EXAMPLES", false)
	v.Set("CCAP_BUILD_TESTS", false)
	v.Set("CCAP_INSTALL", true)
	return v
}

func (r *Local) Generate(ctx context.Context, s *Session) error {
	tc := s.Toolchain()
	tc.Variables = r.Variables(s.Options)
	return tc.Generate(s.Layout)
}

func (r *Local) Build(ctx context.Context, s *Session) error {
	c := s.CMake()
	if err := c.Configure(ctx); err != nil {
		return err
	}
	return c.Build(ctx)
}

func (r *Local) Package(ctx context.Context, s *Session) error {
	if err := s.CMake().Install(ctx, s.Folders.Package); err != nil {
		return err
	}
	if _, err := files.Copy("LICENSE", s.Folders.Source, filepath.Join(s.Folders.Package, "licenses")); err != nil {
		return fmt.Errorf("copying license: %w", err)
	}
	return nil
}

func (r *Local) PackageInfo(s *Session) {
	if s.CppInfo == nil {
		s.CppInfo = cpp.NewInfo()
	}
	s.CppInfo.Libs = []string{"ccap"}
	applyLinkRequirements(s.CppInfo, s.Settings.OS)
}
