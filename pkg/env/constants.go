package env

import "github.com/wysaid/ccapkg/pkg/platform"

// Environment variable names managed by the run environment
const (
	VarPath            = "PATH"
	VarLDLibraryPath   = "LD_LIBRARY_PATH"
	VarDYLDLibraryPath = "DYLD_LIBRARY_PATH"
	runScriptName      = "conanrun"
	generatedBy        = "Generated by ccapkg"
)

// LibraryExtensions returns the library file extensions of a target OS
func LibraryExtensions(target platform.OS) []string {
	switch {
	case target == platform.Windows:
		return []string{".lib", ".a"}
	case target.IsApple():
		return []string{".dylib", ".a"}
	default:
		return []string{".so", ".a"}
	}
}

// isStaticExt reports whether ext is an archive on the target
func isStaticExt(ext string, target platform.OS) bool {
	if ext == ".a" {
		return true
	}
	// .lib is either a static library or an import library; both link statically
	return ext == ".lib" && target == platform.Windows
}

// pathListSeparator returns the PATH separator of the target OS
func pathListSeparator(target platform.OS) string {
	if target == platform.Windows {
		return ";"
	}
	return ":"
}
