package recipe

import (
	"context"
	"os"
	"path/filepath"

	"github.com/phuslu/log"

	"github.com/wysaid/ccapkg/pkg/cmake"
	"github.com/wysaid/ccapkg/pkg/cpp"
	"github.com/wysaid/ccapkg/pkg/env"
	"github.com/wysaid/ccapkg/pkg/options"
	"github.com/wysaid/ccapkg/pkg/platform"
	"github.com/wysaid/ccapkg/pkg/runner"
	"github.com/wysaid/ccapkg/pkg/source"
)

// Folders used by one recipe run
type Folders struct {
	Root       string // Base of the build and generators folders
	Source     string
	Build      string
	Generators string
	Package    string
}

// Conf holds tool configuration recipes may consult
type Conf struct {
	Generator string // CMake generator, empty for the platform default
	Jobs      int
	CanRun    *bool // Overrides the can-run decision when set
}

// Session is the state a recipe's lifecycle hooks operate on
type Session struct {
	Settings      platform.Settings // Host: where the package runs
	BuildSettings platform.Settings // Build: where the tool runs
	Options       *options.Set
	Folders       Folders
	Conf          Conf

	// Filled by the lifecycle driver as steps complete
	Layout          cmake.Layout
	Dependencies    []cpp.Package
	CppInfo         *cpp.Info
	TestedReference string

	Data    *source.Data // conandata.yml contents, when present
	Fetcher *source.Fetcher
	Runner  runner.Runner
	Logger  *log.Logger
}

// Generator returns the configured CMake generator or the platform default
func (s *Session) Generator() string {
	if s.Conf.Generator != "" {
		return s.Conf.Generator
	}
	return cmake.DefaultGenerator(s.Settings.OS == platform.Windows)
}

// CMakeLayout lays the run out the way CMake projects are built: a build
// tree per build type under Folders.Root
func (s *Session) CMakeLayout() {
	s.Layout = cmake.NewLayout(s.Folders.Source, s.Folders.Root, s.Generator(), s.Settings.BuildType)
	s.Folders.Build = s.Layout.BuildFolder
	s.Folders.Generators = s.Layout.GeneratorsFolder
}

// Toolchain returns a toolchain for the session settings with the fPIC
// option applied when it exists
func (s *Session) Toolchain() *cmake.Toolchain {
	tc := cmake.NewToolchain(s.Generator(), s.Settings.BuildType)
	tc.Cppstd = s.Settings.CompilerCppstd
	if s.Options != nil {
		if fpic, ok := s.Options.GetSafe("fPIC"); ok {
			tc.FPIC = &fpic
		}
	}
	return tc
}

// CMake returns a driver for the session layout installing into the
// package folder
func (s *Session) CMake() *cmake.CMake {
	c := cmake.New(s.Runner, s.Layout, s.Generator(), s.Settings.BuildType)
	c.InstallPrefix = s.Folders.Package
	c.Jobs = s.Conf.Jobs
	return c
}

// CanRun reports whether binaries built for the host can execute here
func (s *Session) CanRun() bool {
	return platform.CanRun(s.BuildSettings, s.Settings, s.Conf.CanRun)
}

// RunEnv returns the environment needed to load the shared libraries of
// every dependency
func (s *Session) RunEnv() *env.RunEnv {
	e := env.NewRunEnv(s.Settings.OS)
	for _, dep := range s.Dependencies {
		e.AddPackage(dep.BinDirs(), dep.LibDirs())
	}
	return e
}

// Run executes a program from the build folder. With runEnv set the
// dependencies' run environment is applied for the duration of the call.
func (s *Session) Run(ctx context.Context, name string, args []string, runEnv bool) error {
	cmd := runner.Command{Name: name, Args: args, Dir: s.Folders.Build}
	if e := s.RunEnv(); runEnv && !e.Empty() {
		cmd.Env = e.Environ(os.Environ())
	}
	return s.Runner.Run(ctx, cmd)
}

// PackageLibDirs returns the absolute library folders of the package
func (s *Session) PackageLibDirs() []string {
	if s.CppInfo == nil {
		return []string{filepath.Join(s.Folders.Package, "lib")}
	}
	return cpp.Abs(s.Folders.Package, s.CppInfo.LibDirs)
}
