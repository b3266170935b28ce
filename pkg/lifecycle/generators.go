package lifecycle

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/wysaid/ccapkg/pkg/cmake"
	"github.com/wysaid/ccapkg/pkg/pkgconfig"
	"github.com/wysaid/ccapkg/pkg/recipe"
)

// ErrUnknownGenerator indicates a generator name that is not built in
var ErrUnknownGenerator = errors.New("unknown generator")

// Built-in generator names
const (
	GeneratorCMakeDeps      = "CMakeDeps"
	GeneratorCMakeToolchain = "CMakeToolchain"
	GeneratorPkgConfigDeps  = "PkgConfigDeps"
	GeneratorVirtualRunEnv  = "VirtualRunEnv"
)

// Generators lists the built-in generators
var Generators = []string{
	GeneratorCMakeDeps,
	GeneratorCMakeToolchain,
	GeneratorPkgConfigDeps,
	GeneratorVirtualRunEnv,
}

// runGenerators runs the named generators for the session dependencies
// into dir and returns the files written
func runGenerators(s *recipe.Session, names []string, dir string) ([]string, error) {
	var written []string
	for _, name := range names {
		files, err := runGenerator(s, name, dir)
		if err != nil {
			return written, fmt.Errorf("generator %s: %w", name, err)
		}
		s.Logger.Debug().Str("generator", name).Strs("files", files).Msg("generated")
		written = append(written, files...)
	}
	return written, nil
}

func runGenerator(s *recipe.Session, name, dir string) ([]string, error) {
	switch name {
	case GeneratorCMakeDeps:
		return cmake.NewDeps(s.Dependencies).Generate(dir)
	case GeneratorPkgConfigDeps:
		return pkgconfig.NewDeps(s.Dependencies).Generate(dir)
	case GeneratorCMakeToolchain:
		l := s.Layout
		l.GeneratorsFolder = dir
		if err := s.Toolchain().Generate(l); err != nil {
			return nil, err
		}
		return []string{l.ToolchainPath(), filepath.Join(dir, cmake.PresetsFile)}, nil
	case GeneratorVirtualRunEnv:
		path, err := s.RunEnv().WriteScript(dir)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
}
