package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "ccapkg"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the configuration file.
//
//	Linux:   $XDG_CONFIG_HOME/ccapkg/config.yaml
//	macOS:   ~/Library/Application Support/ccapkg/config.yaml
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, toolName, "config.yaml")
}

// Path to the package cache. CCAPKG_CACHE overrides the XDG location.
//
//	Linux:   $XDG_CACHE_HOME/ccapkg
//	macOS:   ~/Library/Caches/ccapkg
func Cache() string {
	if p := os.Getenv("CCAPKG_CACHE"); p != "" {
		return p
	}
	return filepath.Join(xdg.CacheHome, toolName)
}
