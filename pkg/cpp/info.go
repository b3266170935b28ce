// Package cpp describes what a packaged C/C++ library exposes to consumers:
// libraries to link, system requirements, folder layout and the properties
// generators use to name the package.
package cpp

import (
	"path/filepath"
	"sort"
)

// Property keys read by the consumer generators
const (
	PropertyCMakeFileName   = "cmake_file_name"
	PropertyCMakeTargetName = "cmake_target_name"
	PropertyPkgConfigName   = "pkg_config_name"
)

// Info is the link information of a package
type Info struct {
	Libs        []string          `toml:"libs"`
	Frameworks  []string          `toml:"frameworks,omitempty"`
	SystemLibs  []string          `toml:"system_libs,omitempty"`
	IncludeDirs []string          `toml:"include_dirs"`
	LibDirs     []string          `toml:"lib_dirs"`
	BinDirs     []string          `toml:"bin_dirs"`
	Properties  map[string]string `toml:"properties,omitempty"`
}

// NewInfo returns an Info with the default include/lib/bin layout
func NewInfo() *Info {
	return &Info{
		IncludeDirs: []string{"include"},
		LibDirs:     []string{"lib"},
		BinDirs:     []string{"bin"},
		Properties:  make(map[string]string),
	}
}

// SetProperty publishes a named property
func (i *Info) SetProperty(key, value string) {
	if i.Properties == nil {
		i.Properties = make(map[string]string)
	}
	i.Properties[key] = value
}

// Property returns a published property, or "" when absent
func (i *Info) Property(key string) string {
	return i.Properties[key]
}

// PropertyOr returns a published property, or fallback when absent
func (i *Info) PropertyOr(key, fallback string) string {
	if v, ok := i.Properties[key]; ok && v != "" {
		return v
	}
	return fallback
}

// PropertyKeys returns the published property names in sorted order
func (i *Info) PropertyKeys() []string {
	keys := make([]string, 0, len(i.Properties))
	for k := range i.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Abs resolves relative folders against the package root
func Abs(root string, dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if filepath.IsAbs(d) {
			out = append(out, d)
			continue
		}
		out = append(out, filepath.Join(root, d))
	}
	return out
}
