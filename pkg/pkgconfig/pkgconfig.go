// Package pkgconfig generates .pc files so that build systems other than
// CMake can consume cached packages.
package pkgconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wysaid/ccapkg/pkg/cpp"
)

// Deps generates one .pc file per dependency
type Deps struct {
	Packages []cpp.Package
}

// NewDeps creates a generator for pkgs
func NewDeps(pkgs []cpp.Package) *Deps {
	return &Deps{Packages: pkgs}
}

// Generate writes <pkg_config_name>.pc files into dir and returns their paths
func (d *Deps) Generate(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output folder: %w", err)
	}

	var written []string
	for _, p := range d.Packages {
		path := filepath.Join(dir, p.PkgConfigName()+".pc")
		if err := os.WriteFile(path, []byte(Content(p)), 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", filepath.Base(path), err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Content renders the .pc file of one package
func Content(p cpp.Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "prefix=%s\n", filepath.ToSlash(p.Folder))

	includes := relative(p.Info.IncludeDirs, "includedir")
	libs := relative(p.Info.LibDirs, "libdir")
	for _, v := range append(libs, includes...) {
		fmt.Fprintf(&b, "%s=%s\n", v.name, v.value)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Name: %s\n", p.PkgConfigName())
	fmt.Fprintf(&b, "Description: %s package generated by ccapkg\n", p.Name)
	fmt.Fprintf(&b, "Version: %s\n", p.Version)

	var flags []string
	for _, v := range libs {
		flags = append(flags, "-L${"+v.name+"}")
	}
	for _, lib := range p.Info.Libs {
		flags = append(flags, "-l"+lib)
	}
	for _, lib := range p.Info.SystemLibs {
		flags = append(flags, "-l"+lib)
	}
	for _, fw := range p.Info.Frameworks {
		flags = append(flags, "-framework "+fw)
	}
	fmt.Fprintf(&b, "Libs: %s\n", strings.Join(flags, " "))

	var cflags []string
	for _, v := range includes {
		cflags = append(cflags, "-I${"+v.name+"}")
	}
	fmt.Fprintf(&b, "Cflags: %s\n", strings.Join(cflags, " "))
	return b.String()
}

type variable struct {
	name  string
	value string
}

// relative names each folder after base (libdir, libdir2, ...) and
// expresses it relative to ${prefix} when possible
func relative(dirs []string, base string) []variable {
	vars := make([]variable, 0, len(dirs))
	for i, d := range dirs {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s%d", base, i+1)
		}
		value := filepath.ToSlash(d)
		if !filepath.IsAbs(d) {
			value = "${prefix}/" + value
		}
		vars = append(vars, variable{name: name, value: value})
	}
	return vars
}
