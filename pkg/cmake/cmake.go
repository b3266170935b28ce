package cmake

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/wysaid/ccapkg/pkg/runner"
)

// Executable is the CMake binary looked up on PATH
const Executable = "cmake"

// CMake runs the configure, build and install phases of a project
type CMake struct {
	Layout         Layout
	Generator      string
	BuildType      string
	CacheVariables *Vars
	InstallPrefix  string
	Jobs           int      // 0 lets the build tool decide
	Env            []string // Applied to every invocation

	runner runner.Runner
}

// New creates a driver for the project described by l
func New(r runner.Runner, l Layout, generator, buildType string) *CMake {
	return &CMake{
		Layout:         l,
		Generator:      generator,
		BuildType:      buildType,
		CacheVariables: NewVars(),
		runner:         r,
	}
}

// Configure generates the build tree
func (c *CMake) Configure(ctx context.Context) error {
	if err := os.MkdirAll(c.Layout.BuildFolder, 0755); err != nil {
		return fmt.Errorf("creating build folder: %w", err)
	}

	args := []string{"-G", c.Generator, "-DCMAKE_TOOLCHAIN_FILE=" + c.Layout.ToolchainPath()}
	if c.InstallPrefix != "" {
		args = append(args, "-DCMAKE_INSTALL_PREFIX="+c.InstallPrefix)
	}
	for _, name := range c.CacheVariables.Names() {
		value, _ := c.CacheVariables.Get(name)
		args = append(args, "-D"+name+"="+Format(value))
	}
	args = append(args, "-S", c.Layout.SourceFolder, "-B", c.Layout.BuildFolder)

	return c.run(ctx, args)
}

// Build compiles the configured tree
func (c *CMake) Build(ctx context.Context) error {
	args := []string{"--build", c.Layout.BuildFolder}
	if c.Layout.MultiConfig {
		args = append(args, "--config", c.BuildType)
	}
	if c.Jobs > 0 {
		args = append(args, "--parallel", strconv.Itoa(c.Jobs))
	}
	return c.run(ctx, args)
}

// Install copies the built artifacts into prefix
func (c *CMake) Install(ctx context.Context, prefix string) error {
	args := []string{"--install", c.Layout.BuildFolder}
	if c.Layout.MultiConfig {
		args = append(args, "--config", c.BuildType)
	}
	args = append(args, "--prefix", prefix)
	return c.run(ctx, args)
}

func (c *CMake) run(ctx context.Context, args []string) error {
	return c.runner.Run(ctx, runner.Command{
		Name: Executable,
		Args: args,
		Dir:  c.Layout.BuildFolder,
		Env:  c.Env,
	})
}
