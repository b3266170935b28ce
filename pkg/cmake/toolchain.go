package cmake

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Generated file names
const (
	ToolchainFile = "conan_toolchain.cmake"
	PresetsFile   = "CMakePresets.json"
)

const generatedBy = "Generated by ccapkg, do not edit"

// Toolchain generates the toolchain file and presets for a build.
// Variables go into the toolchain file; CacheVariables go into the presets
// and are passed with -D at configure time.
type Toolchain struct {
	Generator      string
	BuildType      string
	Cppstd         string // compiler.cppstd, e.g. "17" or "gnu17"
	FPIC           *bool  // nil when the package has no fPIC option
	Variables      *Vars
	CacheVariables *Vars
	PrefixPath     []string // Extra folders searched by find_package
}

// NewToolchain creates a toolchain with no variables
func NewToolchain(generator, buildType string) *Toolchain {
	return &Toolchain{
		Generator:      generator,
		BuildType:      buildType,
		Variables:      NewVars(),
		CacheVariables: NewVars(),
	}
}

// Generate writes conan_toolchain.cmake and CMakePresets.json into the
// generators folder of l
func (t *Toolchain) Generate(l Layout) error {
	if err := os.MkdirAll(l.GeneratorsFolder, 0755); err != nil {
		return fmt.Errorf("creating generators folder: %w", err)
	}

	if err := os.WriteFile(l.ToolchainPath(), []byte(t.toolchainContent(l)), 0644); err != nil {
		return fmt.Errorf("writing toolchain: %w", err)
	}

	data, err := json.MarshalIndent(t.presets(l), "", "    ")
	if err != nil {
		return fmt.Errorf("encoding presets: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.GeneratorsFolder, PresetsFile), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing presets: %w", err)
	}
	return nil
}

func (t *Toolchain) toolchainContent(l Layout) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", generatedBy)
	b.WriteString("include_guard()\n\n")

	if !l.MultiConfig && t.BuildType != "" {
		fmt.Fprintf(&b, "set(CMAKE_BUILD_TYPE \"%s\" CACHE STRING \"Choose the type of build.\" FORCE)\n", t.BuildType)
	}

	if std, gnu, ok := splitCppstd(t.Cppstd); ok {
		fmt.Fprintf(&b, "set(CMAKE_CXX_STANDARD %s)\n", std)
		fmt.Fprintf(&b, "set(CMAKE_CXX_EXTENSIONS %s)\n", Format(gnu))
		b.WriteString("set(CMAKE_CXX_STANDARD_REQUIRED ON)\n")
	}

	if t.FPIC != nil {
		fmt.Fprintf(&b, "set(CMAKE_POSITION_INDEPENDENT_CODE %s CACHE BOOL \"Position independent code\")\n", Format(*t.FPIC))
	}

	b.WriteString("\nset(CMAKE_FIND_PACKAGE_PREFER_CONFIG ON)\n")
	prefix := append([]string{l.GeneratorsFolder}, t.PrefixPath...)
	for i := len(prefix) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "list(PREPEND CMAKE_PREFIX_PATH \"%s\")\n", filepath.ToSlash(prefix[i]))
	}
	fmt.Fprintf(&b, "list(PREPEND CMAKE_MODULE_PATH \"%s\")\n", filepath.ToSlash(l.GeneratorsFolder))

	if t.Variables.Len() > 0 {
		b.WriteString("\n")
	}
	for _, name := range t.Variables.Names() {
		value, _ := t.Variables.Get(name)
		fmt.Fprintf(&b, "set(%s %s CACHE %s \"Variable %s defined by the toolchain\")\n",
			name, quoteValue(value), cacheType(value), name)
	}
	return b.String()
}

func quoteValue(value any) string {
	if _, ok := value.(bool); ok {
		return Format(value)
	}
	return fmt.Sprintf("%q", Format(value))
}

// splitCppstd turns "gnu17" into ("17", true)
func splitCppstd(cppstd string) (string, bool, bool) {
	if cppstd == "" {
		return "", false, false
	}
	if std, ok := strings.CutPrefix(cppstd, "gnu"); ok {
		return std, true, true
	}
	return cppstd, false, true
}

type presetsFile struct {
	Version          int               `json:"version"`
	ConfigurePresets []configurePreset `json:"configurePresets"`
	BuildPresets     []buildPreset     `json:"buildPresets"`
}

type configurePreset struct {
	Name           string            `json:"name"`
	DisplayName    string            `json:"displayName"`
	Generator      string            `json:"generator"`
	BinaryDir      string            `json:"binaryDir"`
	ToolchainFile  string            `json:"toolchainFile"`
	CacheVariables map[string]string `json:"cacheVariables"`
}

type buildPreset struct {
	Name            string `json:"name"`
	ConfigurePreset string `json:"configurePreset"`
	Configuration   string `json:"configuration,omitempty"`
}

// PresetName returns the preset name for a build type
func PresetName(buildType string, multiConfig bool) string {
	if multiConfig {
		return "conan-default"
	}
	return "conan-" + strings.ToLower(buildType)
}

func (t *Toolchain) presets(l Layout) presetsFile {
	cache := make(map[string]string, t.CacheVariables.Len()+1)
	for _, name := range t.CacheVariables.Names() {
		value, _ := t.CacheVariables.Get(name)
		cache[name] = Format(value)
	}
	if !l.MultiConfig && t.BuildType != "" {
		cache["CMAKE_BUILD_TYPE"] = t.BuildType
	}

	name := PresetName(t.BuildType, l.MultiConfig)
	build := buildPreset{Name: "conan-" + strings.ToLower(t.BuildType), ConfigurePreset: name}
	if l.MultiConfig {
		build.Configuration = t.BuildType
	}

	return presetsFile{
		Version: 3,
		ConfigurePresets: []configurePreset{{
			Name:           name,
			DisplayName:    fmt.Sprintf("'%s' config", name),
			Generator:      t.Generator,
			BinaryDir:      filepath.ToSlash(l.BuildFolder),
			ToolchainFile:  filepath.ToSlash(l.ToolchainPath()),
			CacheVariables: cache,
		}},
		BuildPresets: []buildPreset{build},
	}
}
