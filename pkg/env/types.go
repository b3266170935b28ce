package env

// Library represents a found library file
type Library struct {
	Name     string // Library name (e.g., "ccap")
	Path     string // Absolute path to library file
	Ext      string // Extension: ".so", ".a", ".dylib", ".lib"
	Version  string // Version if detected (e.g., "1.3.2" from libccap.so.1.3.2)
	IsStatic bool   // True for archives
}
