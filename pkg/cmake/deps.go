package cmake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wysaid/ccapkg/pkg/cpp"
)

// Deps generates find_package() config files for dependencies, each
// declaring one INTERFACE IMPORTED target
type Deps struct {
	Packages []cpp.Package
}

// NewDeps creates a generator for pkgs
func NewDeps(pkgs []cpp.Package) *Deps {
	return &Deps{Packages: pkgs}
}

// ConfigFileNames returns the config and version file names for a config
// package. Lowercase names use the name-config.cmake form.
func ConfigFileNames(fileName string) (string, string) {
	if fileName == strings.ToLower(fileName) {
		return fileName + "-config.cmake", fileName + "-config-version.cmake"
	}
	return fileName + "Config.cmake", fileName + "ConfigVersion.cmake"
}

// Generate writes the files into dir and returns their paths
func (d *Deps) Generate(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating generators folder: %w", err)
	}

	var written []string
	for _, p := range d.Packages {
		configName, versionName := ConfigFileNames(p.CMakeFileName())

		configPath := filepath.Join(dir, configName)
		if err := os.WriteFile(configPath, []byte(configContent(p)), 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", configName, err)
		}
		written = append(written, configPath)

		versionPath := filepath.Join(dir, versionName)
		if err := os.WriteFile(versionPath, []byte(versionContent(p)), 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", versionName, err)
		}
		written = append(written, versionPath)
	}
	return written, nil
}

// LinkItems returns what consumers link, in order: package libraries,
// system libraries, then frameworks
func LinkItems(info *cpp.Info) []string {
	items := make([]string, 0, len(info.Libs)+len(info.SystemLibs)+len(info.Frameworks))
	items = append(items, info.Libs...)
	items = append(items, info.SystemLibs...)
	for _, fw := range info.Frameworks {
		items = append(items, "-framework "+fw)
	}
	return items
}

func configContent(p cpp.Package) string {
	target := p.CMakeTargetName()
	prefix := p.CMakeFileName()

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", generatedBy)
	fmt.Fprintf(&b, "# %s/%s\n\n", p.Name, p.Version)

	fmt.Fprintf(&b, "set(%s_FOUND TRUE)\n", prefix)
	fmt.Fprintf(&b, "set(%s_VERSION \"%s\")\n", prefix, p.Version)
	fmt.Fprintf(&b, "set(%s_PACKAGE_FOLDER \"%s\")\n", prefix, filepath.ToSlash(p.Folder))
	fmt.Fprintf(&b, "set(%s_INCLUDE_DIRS %s)\n", prefix, cmakeList(p.IncludeDirs()))
	fmt.Fprintf(&b, "set(%s_LIBRARIES %s)\n\n", prefix, target)

	fmt.Fprintf(&b, "if(NOT TARGET %s)\n", target)
	fmt.Fprintf(&b, "    add_library(%s INTERFACE IMPORTED)\n", target)
	fmt.Fprintf(&b, "    set_property(TARGET %s PROPERTY INTERFACE_INCLUDE_DIRECTORIES %s)\n", target, cmakeList(p.IncludeDirs()))
	fmt.Fprintf(&b, "    set_property(TARGET %s PROPERTY INTERFACE_LINK_DIRECTORIES %s)\n", target, cmakeList(p.LibDirs()))
	fmt.Fprintf(&b, "    set_property(TARGET %s PROPERTY INTERFACE_LINK_LIBRARIES %s)\n", target, cmakeList(LinkItems(p.Info)))
	b.WriteString("endif()\n")
	return b.String()
}

func versionContent(p cpp.Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", generatedBy)
	fmt.Fprintf(&b, "set(PACKAGE_VERSION \"%s\")\n\n", p.Version)
	b.WriteString(`if(PACKAGE_VERSION VERSION_LESS PACKAGE_FIND_VERSION)
    set(PACKAGE_VERSION_COMPATIBLE FALSE)
else()
    set(PACKAGE_VERSION_COMPATIBLE TRUE)
    if(PACKAGE_FIND_VERSION STREQUAL PACKAGE_VERSION)
        set(PACKAGE_VERSION_EXACT TRUE)
    endif()
endif()
`)
	return b.String()
}

// cmakeList renders a quoted ;-separated list
func cmakeList(items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = filepath.ToSlash(item)
	}
	return "\"" + strings.Join(out, ";") + "\""
}
