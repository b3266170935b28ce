package env

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wysaid/ccapkg/pkg/platform"
)

// FindAllLibraries returns every library file found directly inside dirs
func FindAllLibraries(dirs []string, target platform.OS) []*Library {
	var libraries []*Library
	seen := make(map[string]bool) // Avoid duplicates

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			fullPath := filepath.Join(dir, entry.Name())
			if seen[fullPath] {
				continue
			}

			lib, ok := parseLibrary(entry.Name(), target)
			if !ok {
				continue
			}
			seen[fullPath] = true
			lib.Path = fullPath
			libraries = append(libraries, lib)
		}
	}

	return libraries
}

// CollectLibs returns the sorted, de-duplicated names of the libraries in dirs
func CollectLibs(dirs []string, target platform.OS) []string {
	seen := make(map[string]bool)
	names := []string{}

	for _, lib := range FindAllLibraries(dirs, target) {
		if !seen[lib.Name] {
			names = append(names, lib.Name)
			seen[lib.Name] = true
		}
	}

	sort.Strings(names)
	return names
}

// FindLibrary searches for a specific library by name.
// Returns the first match found in dirs, in dirs order.
func FindLibrary(dirs []string, name string, target platform.OS) *Library {
	for _, dir := range dirs {
		for _, lib := range FindAllLibraries([]string{dir}, target) {
			if lib.Name == name {
				return lib
			}
		}
	}
	return nil
}

// HasLibrary checks if a library exists in dirs
func HasLibrary(dirs []string, name string, target platform.OS) bool {
	return FindLibrary(dirs, name, target) != nil
}

// parseLibrary extracts the library name from a file name
func parseLibrary(filename string, target platform.OS) (*Library, bool) {
	if target == platform.Windows && strings.HasSuffix(filename, ".dll.a") {
		// MinGW import library
		name := strings.TrimPrefix(strings.TrimSuffix(filename, ".dll.a"), "lib")
		if name == "" {
			return nil, false
		}
		return &Library{Name: name, Ext: ".dll.a", IsStatic: true}, true
	}

	for _, ext := range LibraryExtensions(target) {
		var base, version string

		switch {
		case strings.HasSuffix(filename, ext):
			base = strings.TrimSuffix(filename, ext)
		case ext == ".so":
			// Versioned: libccap.so.1.3.2
			idx := strings.Index(filename, ".so.")
			if idx <= 0 {
				continue
			}
			base, version = filename[:idx], filename[idx+len(".so."):]
		default:
			continue
		}

		// Versioned dylib: libccap.1.3.2.dylib
		if ext == ".dylib" {
			if idx := strings.Index(base, "."); idx > 0 {
				base, version = base[:idx], base[idx+1:]
			}
		}

		name := base
		if target != platform.Windows || ext == ".a" {
			name = strings.TrimPrefix(name, "lib")
		}
		if name == "" {
			return nil, false
		}

		return &Library{
			Name:     name,
			Ext:      ext,
			Version:  version,
			IsStatic: isStaticExt(ext, target),
		}, true
	}

	return nil, false
}
