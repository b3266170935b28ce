package lifecycle

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wysaid/ccapkg/pkg/cache"
	"github.com/wysaid/ccapkg/pkg/core"
	"github.com/wysaid/ccapkg/pkg/platform"
	"github.com/wysaid/ccapkg/pkg/recipe"
	"github.com/wysaid/ccapkg/pkg/runner"
	"github.com/wysaid/ccapkg/pkg/source"
)

func linux() platform.Settings {
	return platform.Settings{
		OS:              platform.Linux,
		Arch:            "x86_64",
		Compiler:        "gcc",
		CompilerVersion: "13",
		BuildType:       "Release",
	}
}

// fakeCMake installs a static library and a header when cmake --install runs
func fakeCMake(cmd runner.Command) error {
	if len(cmd.Args) == 0 || cmd.Args[0] != "--install" {
		return nil
	}
	prefix := cmd.Args[len(cmd.Args)-1]
	if err := os.MkdirAll(filepath.Join(prefix, "lib"), 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(prefix, "include"), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(prefix, "lib", "libccap.a"), []byte("archive"), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(prefix, "include", "ccap_c.h"), []byte("// header"), 0644)
}

func newDriver(t *testing.T, rec *runner.Recorder) (*Driver, *cache.Cache) {
	t.Helper()
	c := cache.New(t.TempDir())
	logger := core.DiscardLogger()
	return NewDriver(c, rec, source.NewFetcher(nil, c.DownloadFolder(), logger), logger), c
}

func checkout(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("project(ccap)"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "LICENSE"), []byte("MIT License"), 0644))
	return dir
}

func createLocal(t *testing.T, d *Driver) *cache.Entry {
	t.Helper()
	entry, err := d.Create(context.Background(), recipe.NewLocal(), CreateOptions{
		Settings:     linux(),
		SourceFolder: checkout(t),
	})
	require.NoError(t, err)
	return entry
}

func TestCreateLocal(t *testing.T) {
	rec := &runner.Recorder{Handler: fakeCMake}
	d, c := newDriver(t, rec)

	entry := createLocal(t, d)

	require.Len(t, rec.Commands, 3)
	assert.Equal(t, "-G", rec.Commands[0].Args[0])
	assert.Equal(t, "--build", rec.Commands[1].Args[0])
	assert.Equal(t, "--install", rec.Commands[2].Args[0])

	assert.Equal(t, "ccap/1.3.2", entry.Reference)
	assert.NotEmpty(t, entry.Revision)
	assert.Equal(t, []string{"ccap"}, entry.CppInfo.Libs)
	assert.Equal(t, []string{"pthread"}, entry.CppInfo.SystemLibs)
	assert.Equal(t, "True", entry.Options["fPIC"])
	assert.Equal(t, "Linux", entry.Settings["os"])
	assert.FileExists(t, filepath.Join(entry.Folder, "licenses", "LICENSE"))

	found, err := c.Find(cache.Reference{Name: "ccap", Version: "1.3.2"}, matchSettings(linux()))
	require.NoError(t, err)
	assert.Equal(t, entry.PackageID, found.PackageID)
}

func TestCreateOptionsChangePackageID(t *testing.T) {
	d, _ := newDriver(t, &runner.Recorder{Handler: fakeCMake})

	base := createLocal(t, d)
	shared, err := d.Create(context.Background(), recipe.NewLocal(), CreateOptions{
		Settings:     linux(),
		SourceFolder: checkout(t),
		Overrides:    []string{"shared=True"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, base.PackageID, shared.PackageID)
	assert.Equal(t, "True", shared.Options["shared"])
}

func TestCreateValidationFailsBeforeAnyCommand(t *testing.T) {
	rec := &runner.Recorder{Handler: fakeCMake}
	d, c := newDriver(t, rec)

	host := linux()
	host.OS = platform.IOS
	host.Compiler = "apple-clang"
	host.CompilerCppstd = "17"

	_, err := d.Create(context.Background(), recipe.NewCenter("1.3.2"), CreateOptions{Settings: host})
	require.Error(t, err)
	assert.True(t, errors.Is(err, recipe.ErrInvalidConfiguration))
	assert.Empty(t, rec.Commands)

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateUnknownOption(t *testing.T) {
	rec := &runner.Recorder{}
	d, _ := newDriver(t, rec)

	_, err := d.Create(context.Background(), recipe.NewLocal(), CreateOptions{
		Settings:  linux(),
		Overrides: []string{"with_gui=True"},
	})
	assert.Error(t, err)
	assert.Empty(t, rec.Commands)
}

func TestCreateBuildFailurePropagates(t *testing.T) {
	rec := &runner.Recorder{Handler: func(cmd runner.Command) error {
		if cmd.Args[0] == "--build" {
			return &runner.ExitError{Command: cmd.String(), Code: 2}
		}
		return nil
	}}
	d, c := newDriver(t, rec)

	_, err := d.Create(context.Background(), recipe.NewLocal(), CreateOptions{Settings: linux(), SourceFolder: checkout(t)})
	var exitErr *runner.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Len(t, rec.Commands, 2)

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func releaseTarball(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range map[string]string{
		"CameraCapture-1.3.2/CMakeLists.txt": "project(ccap)",
		"CameraCapture-1.3.2/LICENSE":        "MIT License",
	} {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestCreateCenterFetchesSources(t *testing.T) {
	tarball := releaseTarball(t)
	sum := sha256.Sum256(tarball)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(tarball)
	}))
	defer srv.Close()

	rec := &runner.Recorder{Handler: fakeCMake}
	d, c := newDriver(t, rec)

	data := &source.Data{Sources: map[string]source.Source{
		"1.3.2": {URL: source.URLs{srv.URL + "/v1.3.2.tar.gz"}, SHA256: hex.EncodeToString(sum[:])},
	}}
	host := linux()
	entry, err := d.Create(context.Background(), recipe.NewCenter("1.3.2"), CreateOptions{Settings: host, Data: data})
	require.NoError(t, err)

	ref := cache.Reference{Name: "ccap", Version: "1.3.2"}
	assert.FileExists(t, filepath.Join(c.SourceFolder(ref), "CMakeLists.txt"))
	assert.FileExists(t, filepath.Join(entry.Folder, "licenses", "LICENSE"))
	assert.Equal(t, []string{"ccap"}, entry.CppInfo.Libs)
	assert.Equal(t, "ccap::ccap", entry.CppInfo.Properties["cmake_target_name"])
	assert.Contains(t, rec.Commands[0].Args, "-DCCAP_ENABLE_FILE_PLAYBACK=ON")

	// Sources already present are not fetched again
	srv.Close()
	_, err = d.Create(context.Background(), recipe.NewCenter("1.3.2"), CreateOptions{
		Settings:  host,
		Data:      data,
		Overrides: []string{"no_log=True"},
	})
	require.NoError(t, err)
}

func TestCreateRetriesAfterBrokenSources(t *testing.T) {
	tarball := releaseTarball(t)
	truncate := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if truncate {
			w.Write(tarball[:len(tarball)/2])
			return
		}
		w.Write(tarball)
	}))
	defer srv.Close()

	rec := &runner.Recorder{Handler: fakeCMake}
	d, c := newDriver(t, rec)
	data := &source.Data{Sources: map[string]source.Source{
		"1.3.2": {URL: source.URLs{srv.URL + "/v1.3.2.tar.gz"}},
	}}
	srcDir := c.SourceFolder(cache.Reference{Name: "ccap", Version: "1.3.2"})

	_, err := d.Create(context.Background(), recipe.NewCenter("1.3.2"), CreateOptions{Settings: linux(), Data: data})
	require.Error(t, err)
	assert.NoDirExists(t, srcDir)
	assert.Empty(t, rec.Commands)

	truncate = false
	_, err = d.Create(context.Background(), recipe.NewCenter("1.3.2"), CreateOptions{Settings: linux(), Data: data})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(srcDir, "CMakeLists.txt"))
	assert.FileExists(t, filepath.Join(srcDir, "LICENSE"))
}

func TestTestRunsConsumer(t *testing.T) {
	rec := &runner.Recorder{Handler: fakeCMake}
	d, _ := newDriver(t, rec)
	entry := createLocal(t, d)
	rec.Commands = nil

	require.NoError(t, d.Test(context.Background(), "ccap/1.3.2", TestOptions{Settings: linux()}))

	require.Len(t, rec.Commands, 3)
	configure := rec.Commands[0]
	assert.Equal(t, "cmake", configure.Name)

	consumer := configure.Args[len(configure.Args)-3]
	assert.FileExists(t, filepath.Join(consumer, "CMakeLists.txt"))
	assert.FileExists(t, filepath.Join(consumer, "test_package.cpp"))

	run := rec.Commands[2]
	assert.Equal(t, "test_package", filepath.Base(run.Name))
	assert.Contains(t, run.Env[0], filepath.Join(entry.Folder, "bin"))

	toolchain := configure.Args[2]
	generators := filepath.Dir(toolchain[len("-DCMAKE_TOOLCHAIN_FILE="):])
	assert.FileExists(t, filepath.Join(generators, "ccap-config.cmake"))
	assert.FileExists(t, filepath.Join(generators, "conanrun.sh"))
}

func TestTestSkipsExecutionWhenCrossBuilding(t *testing.T) {
	rec := &runner.Recorder{Handler: fakeCMake}
	d, _ := newDriver(t, rec)

	host := linux()
	host.Arch = "armv8"
	_, err := d.Create(context.Background(), recipe.NewLocal(), CreateOptions{
		Settings:      host,
		BuildSettings: linux(),
		SourceFolder:  checkout(t),
	})
	require.NoError(t, err)
	rec.Commands = nil

	err = d.Test(context.Background(), "ccap/1.3.2", TestOptions{Settings: host, BuildSettings: linux()})
	require.NoError(t, err)
	require.Len(t, rec.Commands, 2)
	assert.Equal(t, "--build", rec.Commands[1].Args[0])
}

func TestTestConsumerFailure(t *testing.T) {
	rec := &runner.Recorder{Handler: fakeCMake}
	d, _ := newDriver(t, rec)
	createLocal(t, d)

	rec.Handler = func(cmd runner.Command) error {
		if filepath.Base(cmd.Name) == "test_package" {
			return &runner.ExitError{Command: cmd.Name, Code: 1}
		}
		return nil
	}
	err := d.Test(context.Background(), "ccap/1.3.2", TestOptions{Settings: linux()})
	var exitErr *runner.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
}

func TestTestMissingPackage(t *testing.T) {
	d, _ := newDriver(t, &runner.Recorder{})
	err := d.Test(context.Background(), "ccap/1.3.2", TestOptions{Settings: linux()})
	assert.True(t, errors.Is(err, cache.ErrPackageNotFound))
}

func TestInstall(t *testing.T) {
	d, _ := newDriver(t, &runner.Recorder{Handler: fakeCMake})
	createLocal(t, d)

	out := t.TempDir()
	files, err := d.Install(context.Background(), "ccap/1.3.2", InstallOptions{Settings: linux(), OutputFolder: out})
	require.NoError(t, err)
	assert.Contains(t, files, filepath.Join(out, "ccap-config.cmake"))
	assert.Contains(t, files, filepath.Join(out, "ccap.pc"))
	assert.Contains(t, files, filepath.Join(out, "conanrun.sh"))

	data, err := os.ReadFile(filepath.Join(out, "ccap.pc"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "-lccap -lpthread")
}

func TestInstallToolchainAndUnknownGenerator(t *testing.T) {
	d, _ := newDriver(t, &runner.Recorder{Handler: fakeCMake})
	createLocal(t, d)

	out := t.TempDir()
	_, err := d.Install(context.Background(), "ccap/1.3.2", InstallOptions{
		Settings:     linux(),
		OutputFolder: out,
		Generators:   []string{GeneratorCMakeToolchain},
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "conan_toolchain.cmake"))

	_, err = d.Install(context.Background(), "ccap/1.3.2", InstallOptions{
		Settings:     linux(),
		OutputFolder: out,
		Generators:   []string{"Bazel"},
	})
	assert.True(t, errors.Is(err, ErrUnknownGenerator))

	// Names are checked before any file is written
	fresh := t.TempDir()
	_, err = d.Install(context.Background(), "ccap/1.3.2", InstallOptions{
		Settings:     linux(),
		OutputFolder: fresh,
		Generators:   []string{GeneratorCMakeDeps, "Bazel"},
	})
	assert.ErrorIs(t, err, ErrUnknownGenerator)
	entries, err := os.ReadDir(fresh)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTestCopiesCustomConsumer(t *testing.T) {
	rec := &runner.Recorder{Handler: fakeCMake}
	d, _ := newDriver(t, rec)
	createLocal(t, d)
	rec.Commands = nil

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "CMakeLists.txt"), []byte("project(my_consumer)"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "main.cpp"), []byte("int main() {}"), 0644))

	require.NoError(t, d.Test(context.Background(), "ccap/1.3.2", TestOptions{Settings: linux(), Folder: project}))

	configure := rec.Commands[0]
	consumer := configure.Args[len(configure.Args)-3]
	assert.True(t, filepath.IsAbs(consumer))
	assert.NotEqual(t, project, consumer)
	assert.FileExists(t, filepath.Join(consumer, "main.cpp"))
	assert.NoFileExists(t, filepath.Join(consumer, "test_package.cpp"))

	entries, err := os.ReadDir(project)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTestRejectsPackageWithoutLibrary(t *testing.T) {
	rec := &runner.Recorder{}
	d, _ := newDriver(t, rec)
	createLocal(t, d)
	rec.Commands = nil

	err := d.Test(context.Background(), "ccap/1.3.2", TestOptions{Settings: linux()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no ccap library")
	assert.Empty(t, rec.Commands)
}
