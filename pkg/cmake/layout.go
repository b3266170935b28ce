// Package cmake drives CMake builds: folder layout, the toolchain and
// presets files, config files for dependencies, and the configure, build
// and install invocations.
package cmake

import (
	"path/filepath"
	"strings"
)

// Generators that hold every build type in a single build tree
var multiConfigGenerators = []string{"Visual Studio", "Xcode", "Ninja Multi-Config"}

// IsMultiConfig reports whether generator is a multi-configuration generator
func IsMultiConfig(generator string) bool {
	for _, g := range multiConfigGenerators {
		if strings.HasPrefix(generator, g) {
			return true
		}
	}
	return false
}

// DefaultGenerator returns the generator used when none is configured
func DefaultGenerator(windows bool) string {
	if windows {
		return "Visual Studio 17 2022"
	}
	return "Unix Makefiles"
}

// Layout describes where a CMake project is built
type Layout struct {
	SourceFolder     string
	BuildFolder      string
	GeneratorsFolder string
	BinDir           string // Relative to BuildFolder
	MultiConfig      bool
}

// NewLayout returns the layout for building the project in source under
// root. Single-config generators get one build tree per build type.
func NewLayout(source, root, generator, buildType string) Layout {
	l := Layout{
		SourceFolder: source,
		MultiConfig:  IsMultiConfig(generator),
	}

	if l.MultiConfig {
		l.BuildFolder = filepath.Join(root, "build")
		l.BinDir = buildType
	} else {
		l.BuildFolder = filepath.Join(root, "build", buildType)
		l.BinDir = "."
	}
	l.GeneratorsFolder = filepath.Join(l.BuildFolder, "generators")
	return l
}

// BinFolder returns the absolute folder executables are built into
func (l Layout) BinFolder() string {
	return filepath.Join(l.BuildFolder, l.BinDir)
}

// ToolchainPath returns the path of the generated toolchain file
func (l Layout) ToolchainPath() string {
	return filepath.Join(l.GeneratorsFolder, ToolchainFile)
}
