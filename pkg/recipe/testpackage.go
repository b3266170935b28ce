package recipe

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wysaid/ccapkg/pkg/options"
	"github.com/wysaid/ccapkg/pkg/platform"
)

//go:embed consumer
var consumerFS embed.FS

// ConsumerProgram is the executable the verification build produces
const ConsumerProgram = "test_package"

// TestPackage builds a small consumer against a packaged reference and
// runs it to confirm the package links and loads
type TestPackage struct {
	reference string
}

// NewTestPackage creates the verification recipe for reference
func NewTestPackage(reference string) *TestPackage {
	return &TestPackage{reference: reference}
}

func (r *TestPackage) Metadata() Metadata {
	return Metadata{Name: "test_package", Description: "Verifies " + r.reference}
}

func (r *TestPackage) Options() []options.Definition {
	return nil
}

func (r *TestPackage) Requirements(s *Session) []string {
	return []string{r.reference}
}

func (r *TestPackage) Generators() []string {
	return []string{"CMakeDeps", "CMakeToolchain", "VirtualRunEnv"}
}

func (r *TestPackage) Layout(s *Session) {
	s.CMakeLayout()
}

// Source writes the bundled consumer program. The lifecycle skips this
// step when a test folder with its own consumer is supplied.
func (r *TestPackage) Source(ctx context.Context, s *Session) error {
	return WriteConsumer(s.Folders.Source)
}

func (r *TestPackage) Build(ctx context.Context, s *Session) error {
	c := s.CMake()
	if err := c.Configure(ctx); err != nil {
		return err
	}
	return c.Build(ctx)
}

// Test runs the consumer with the run environment applied. Nothing runs
// when the host binaries cannot execute on this machine.
func (r *TestPackage) Test(ctx context.Context, s *Session) error {
	if !s.CanRun() {
		s.Logger.Info().Str("host", s.Settings.String()).Msg("cross-building, skipping test_package execution")
		return nil
	}

	bin := filepath.Join(s.Layout.BinFolder(), ConsumerProgram+platform.ExecutableSuffix(s.Settings.OS))
	return s.Run(ctx, bin, nil, true)
}

// WriteConsumer extracts the bundled consumer project into dir
func WriteConsumer(dir string) error {
	sub, err := fs.Sub(consumerFS, "consumer")
	if err != nil {
		return err
	}

	return fs.WalkDir(sub, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		data, err := fs.ReadFile(sub, path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("writing consumer: %w", err)
		}
		return nil
	})
}
