package recipe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wysaid/ccapkg/pkg/cmake"
	"github.com/wysaid/ccapkg/pkg/core"
	"github.com/wysaid/ccapkg/pkg/cpp"
	"github.com/wysaid/ccapkg/pkg/platform"
	"github.com/wysaid/ccapkg/pkg/runner"
)

func hostSettings(target platform.OS) platform.Settings {
	return platform.Settings{
		OS:              target,
		Arch:            "x86_64",
		Compiler:        "gcc",
		CompilerVersion: "13",
		CompilerCppstd:  "17",
		BuildType:       "Release",
	}
}

func newSession(t *testing.T, r Recipe, target platform.OS, overrides ...string) *Session {
	t.Helper()
	s := &Session{
		Settings:      hostSettings(target),
		BuildSettings: hostSettings(target),
		Runner:        &runner.Recorder{},
		Logger:        core.DiscardLogger(),
	}
	_, err := ResolveOptions(r, s, overrides)
	require.NoError(t, err)
	return s
}

func TestDistributionValidationByOS(t *testing.T) {
	r := NewCenter("1.3.2")

	for _, target := range platform.AllOS {
		t.Run(string(target), func(t *testing.T) {
			err := r.Validate(newSession(t, r, target))

			switch target {
			case platform.IOS, platform.WatchOS, platform.TvOS:
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfiguration))
				var cfgErr *ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, "ccap ConanCenter recipe currently targets desktop OSes", cfgErr.Reason)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestDistributionValidationCppstd(t *testing.T) {
	r := NewCenter("1.3.2")

	s := newSession(t, r, platform.Linux)
	s.Settings.CompilerCppstd = "14"
	err := r.Validate(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	assert.True(t, errors.Is(err, cmake.ErrCppstdTooLow))
	assert.NotEmpty(t, err.(*ConfigurationError).Reason)

	s.Settings.CompilerCppstd = ""
	s.Settings.CompilerVersion = "9"
	assert.Error(t, r.Validate(s), "gcc 9 defaults to gnu14")

	s.Settings.Compiler = "unknown-cc"
	assert.NoError(t, r.Validate(s), "unknown compilers are not checked")
}

func TestSharedRemovesFPIC(t *testing.T) {
	r := NewCenter("1.3.2")

	s := newSession(t, r, platform.Linux, "shared=True")
	assert.False(t, s.Options.Has("fPIC"))
	assert.True(t, s.Options.Get("shared"))

	s = newSession(t, r, platform.Linux)
	assert.True(t, s.Options.Has("fPIC"))

	// The local recipe keeps fPIC for shared builds
	l := NewLocal()
	s = newSession(t, l, platform.Linux, "shared=True")
	assert.True(t, s.Options.Has("fPIC"))
}

func TestWindowsHasNoFPIC(t *testing.T) {
	recipes := map[string]Recipe{
		KindLocal:  NewLocal(),
		KindCenter: NewCenter("1.3.2"),
	}
	for name, r := range recipes {
		t.Run(name, func(t *testing.T) {
			for _, shared := range []string{"shared=False", "shared=True"} {
				s := newSession(t, r, platform.Windows, shared)
				assert.False(t, s.Options.Has("fPIC"))
			}
		})
	}
}

func TestOverrideForRemovedOptionIsSkipped(t *testing.T) {
	r := NewCenter("1.3.2")
	s := &Session{Settings: hostSettings(platform.Windows), Logger: core.DiscardLogger()}

	skipped, err := ResolveOptions(r, s, []string{"fPIC=False", "no_log=True"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fPIC"}, skipped)
	assert.True(t, s.Options.Get("no_log"))

	_, err = ResolveOptions(r, s, []string{"bogus=True"})
	assert.Error(t, err)
}

func TestNoLogChangesOnlyNoLogVariable(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		r := NewLocal()
		base := r.Variables(newSession(t, r, platform.Linux).Options).Map()
		withNoLog := r.Variables(newSession(t, r, platform.Linux, "no_log=True").Options).Map()

		assert.Equal(t, true, withNoLog["CCAP_NO_LOG"])
		assert.Equal(t, false, base["CCAP_NO_LOG"])
		delete(base, "CCAP_NO_LOG")
		delete(withNoLog, "CCAP_NO_LOG")
		assert.Equal(t, base, withNoLog)
	})

	t.Run("center", func(t *testing.T) {
		r := NewCenter("1.3.2")
		base := r.CacheVariables(newSession(t, r, platform.Linux).Options).Map()
		withNoLog := r.CacheVariables(newSession(t, r, platform.Linux, "no_log=True").Options).Map()

		assert.Equal(t, true, withNoLog["CCAP_NO_LOG"])
		delete(base, "CCAP_NO_LOG")
		delete(withNoLog, "CCAP_NO_LOG")
		assert.Equal(t, base, withNoLog)
	})
}

func TestLocalVariables(t *testing.T) {
	r := NewLocal()
	v := r.Variables(newSession(t, r, platform.Linux, "shared=True").Options)

	assert.Equal(t, map[string]any{
		"CCAP_BUILD_SHARED":   true,
		"CCAP_NO_LOG":         false,
		"CCAP_BUILD_EXAMPLES": false,
		"CCAP_BUILD_TESTS":    false,
		"CCAP_INSTALL":        true,
	}, v.Map())
}

func TestCenterCacheVariables(t *testing.T) {
	r := NewCenter("1.3.2")

	v := r.CacheVariables(newSession(t, r, platform.Linux).Options)
	assert.Equal(t, map[string]any{
		"CCAP_INSTALL":                    true,
		"CCAP_BUILD_EXAMPLES":             false,
		"CCAP_BUILD_TESTS":                false,
		"CCAP_BUILD_CLI":                  false,
		"CCAP_BUILD_CLI_STANDALONE":       false,
		"CCAP_BUILD_SHARED":               false,
		"CCAP_NO_LOG":                     false,
		"CCAP_ENABLE_FILE_PLAYBACK":       true,
		"CMAKE_POSITION_INDEPENDENT_CODE": true,
	}, v.Map())

	v = r.CacheVariables(newSession(t, r, platform.Linux, "shared=True").Options)
	_, ok := v.Get("CMAKE_POSITION_INDEPENDENT_CODE")
	assert.False(t, ok)

	v = r.CacheVariables(newSession(t, r, platform.Windows).Options)
	_, ok = v.Get("CMAKE_POSITION_INDEPENDENT_CODE")
	assert.False(t, ok)
}

func TestLinkRequirements(t *testing.T) {
	for _, target := range platform.AllOS {
		t.Run(string(target), func(t *testing.T) {
			for _, r := range []Packager{NewLocal(), NewCenter("1.3.2")} {
				s := &Session{Settings: hostSettings(target), Folders: Folders{Package: t.TempDir()}}
				r.PackageInfo(s)

				switch target {
				case platform.Macos:
					assert.Equal(t, []string{"Foundation", "AVFoundation", "CoreVideo", "CoreMedia", "Accelerate"}, s.CppInfo.Frameworks)
					assert.Empty(t, s.CppInfo.SystemLibs)
				case platform.Linux:
					assert.Equal(t, []string{"pthread"}, s.CppInfo.SystemLibs)
					assert.Empty(t, s.CppInfo.Frameworks)
				default:
					assert.Empty(t, s.CppInfo.Frameworks)
					assert.Empty(t, s.CppInfo.SystemLibs)
				}
			}
		})
	}
}

func TestLinkRequirementsForReturnsCopy(t *testing.T) {
	req := LinkRequirementsFor(platform.Linux)
	req.SystemLibs[0] = "changed"
	assert.Equal(t, []string{"pthread"}, LinkRequirementsFor(platform.Linux).SystemLibs)
}

func TestCenterPackageInfo(t *testing.T) {
	pkg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "lib", "libccap.a"), nil, 0644))

	s := &Session{Settings: hostSettings(platform.Linux), Folders: Folders{Package: pkg}, CppInfo: cpp.NewInfo()}
	NewCenter("1.3.2").PackageInfo(s)

	assert.Equal(t, []string{"ccap"}, s.CppInfo.Libs)
	assert.Equal(t, "ccap", s.CppInfo.Property(cpp.PropertyCMakeFileName))
	assert.Equal(t, "ccap::ccap", s.CppInfo.Property(cpp.PropertyCMakeTargetName))
	assert.Equal(t, "ccap", s.CppInfo.Property(cpp.PropertyPkgConfigName))
}

func buildSession(t *testing.T, r Recipe, rec *runner.Recorder) *Session {
	t.Helper()
	s := newSession(t, r, platform.Linux)
	s.Runner = rec
	s.Folders = Folders{Root: t.TempDir(), Source: t.TempDir(), Package: t.TempDir()}
	r.(Layouter).Layout(s)
	return s
}

func TestLocalBuildAndPackage(t *testing.T) {
	rec := &runner.Recorder{}
	r := NewLocal()
	s := buildSession(t, r, rec)
	require.NoError(t, os.WriteFile(filepath.Join(s.Folders.Source, "LICENSE"), []byte("MIT"), 0644))

	ctx := context.Background()
	require.NoError(t, r.Generate(ctx, s))
	assert.FileExists(t, s.Layout.ToolchainPath())

	require.NoError(t, r.Build(ctx, s))
	require.NoError(t, r.Package(ctx, s))

	require.Len(t, rec.Commands, 3)
	assert.Equal(t, "-G", rec.Commands[0].Args[0])
	assert.Equal(t, "--build", rec.Commands[1].Args[0])
	assert.Equal(t, "--install", rec.Commands[2].Args[0])
	assert.FileExists(t, filepath.Join(s.Folders.Package, "licenses", "LICENSE"))
}

func TestCenterGenerateWritesDepsAndPresets(t *testing.T) {
	r := NewCenter("1.3.2")
	s := buildSession(t, r, &runner.Recorder{})

	require.NoError(t, r.Generate(context.Background(), s))
	assert.FileExists(t, s.Layout.ToolchainPath())
	assert.FileExists(t, filepath.Join(s.Layout.GeneratorsFolder, cmake.PresetsFile))
}

func TestCenterBuildPassesCacheVariables(t *testing.T) {
	rec := &runner.Recorder{}
	r := NewCenter("1.3.2")
	s := buildSession(t, r, rec)

	require.NoError(t, r.Build(context.Background(), s))
	assert.Contains(t, rec.Commands[0].Args, "-DCCAP_BUILD_CLI=OFF")
	assert.Contains(t, rec.Commands[0].Args, "-DCMAKE_POSITION_INDEPENDENT_CODE=ON")
}

func TestCenterPackageCopiesLicenseBeforeInstall(t *testing.T) {
	r := NewCenter("1.3.2")
	var licenseAtInstall bool
	var s *Session
	rec := &runner.Recorder{Handler: func(cmd runner.Command) error {
		_, err := os.Stat(filepath.Join(s.Folders.Package, "licenses", "LICENSE"))
		licenseAtInstall = err == nil
		return nil
	}}
	s = buildSession(t, r, rec)
	require.NoError(t, os.WriteFile(filepath.Join(s.Folders.Source, "LICENSE"), []byte("MIT"), 0644))

	require.NoError(t, r.Package(context.Background(), s))
	assert.True(t, licenseAtInstall)
}

func TestBuildFailurePropagatesUnmodified(t *testing.T) {
	want := &runner.ExitError{Command: "cmake", Code: 3}
	rec := &runner.Recorder{Handler: func(runner.Command) error { return want }}

	for _, r := range []Builder{NewLocal(), NewCenter("1.3.2"), NewTestPackage("ccap/1.3.2")} {
		s := buildSession(t, r.(Recipe), rec)
		err := r.Build(context.Background(), s)
		assert.Same(t, want, err)
	}
}

func TestCenterSourceWithoutData(t *testing.T) {
	r := NewCenter("1.3.2")
	s := buildSession(t, r, &runner.Recorder{})
	err := r.Source(context.Background(), s)
	assert.True(t, errors.Is(err, ErrNoSources))
}

func TestTestPackageRunsConsumer(t *testing.T) {
	rec := &runner.Recorder{}
	r := NewTestPackage("ccap/1.3.2")
	s := buildSession(t, r, rec)
	s.Dependencies = []cpp.Package{{Name: "ccap", Version: "1.3.2", Folder: "/pkg", Info: cpp.NewInfo()}}

	require.NoError(t, r.Test(context.Background(), s))
	require.Len(t, rec.Commands, 1)
	assert.Equal(t, filepath.Join(s.Layout.BinFolder(), "test_package"), rec.Commands[0].Name)
	assert.NotEmpty(t, rec.Commands[0].Env)
	assert.Equal(t, []string{"ccap/1.3.2"}, r.Requirements(s))
}

func TestTestPackageSkipsWhenCrossBuilding(t *testing.T) {
	rec := &runner.Recorder{}
	r := NewTestPackage("ccap/1.3.2")
	s := buildSession(t, r, rec)
	s.Settings.Arch = "armv8"

	require.NoError(t, r.Test(context.Background(), s))
	assert.Empty(t, rec.Commands)

	canRun := true
	s.Conf.CanRun = &canRun
	require.NoError(t, r.Test(context.Background(), s))
	assert.Len(t, rec.Commands, 1)
}

func TestTestPackageFailure(t *testing.T) {
	want := &runner.ExitError{Command: "test_package", Code: 1}
	rec := &runner.Recorder{Handler: func(runner.Command) error { return want }}
	r := NewTestPackage("ccap/1.3.2")

	err := r.Test(context.Background(), buildSession(t, r, rec))
	var exitErr *runner.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
}

func TestWriteConsumer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteConsumer(dir))

	data, err := os.ReadFile(filepath.Join(dir, "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "find_package(ccap CONFIG REQUIRED)")
	assert.Contains(t, string(data), "ccap::ccap")

	data, err = os.ReadFile(filepath.Join(dir, "test_package.cpp"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ccap_provider_create")
}

func TestByKind(t *testing.T) {
	r, err := ByKind(KindLocal, "")
	require.NoError(t, err)
	assert.Equal(t, "ccap/1.3.2", r.Metadata().Reference())

	r, err = ByKind(KindCenter, "1.4.0")
	require.NoError(t, err)
	assert.Equal(t, "ccap/1.4.0", r.Metadata().Reference())

	_, err = ByKind(KindLocal, "1.4.0")
	assert.Error(t, err)

	_, err = ByKind("nope", "")
	assert.True(t, errors.Is(err, ErrUnknownRecipe))
	assert.Contains(t, err.Error(), "local, center")

	for _, kind := range Kinds {
		_, err := ByKind(kind, LocalVersion)
		assert.NoError(t, err, kind)
	}
}
