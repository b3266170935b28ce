package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wysaid/ccapkg/pkg/platform"
)

// RunEnv is the environment needed to execute binaries that load shared
// libraries from dependency packages
type RunEnv struct {
	target platform.OS
	names  []string            // Variable names in first-use order
	values map[string][]string // Directories to prepend, in priority order
}

// NewRunEnv creates an empty run environment for a target OS
func NewRunEnv(target platform.OS) *RunEnv {
	return &RunEnv{
		target: target,
		values: make(map[string][]string),
	}
}

// AddPackage prepends a package's binary and library folders.
// Folders must be absolute.
func (e *RunEnv) AddPackage(binDirs, libDirs []string) {
	e.prepend(VarPath, binDirs)
	if e.target != platform.Windows {
		e.prepend(VarLDLibraryPath, libDirs)
		e.prepend(VarDYLDLibraryPath, libDirs)
	}
}

func (e *RunEnv) prepend(name string, dirs []string) {
	if len(dirs) == 0 {
		return
	}
	if _, ok := e.values[name]; !ok {
		e.names = append(e.names, name)
	}
	e.values[name] = append(append([]string{}, dirs...), e.values[name]...)
}

// Empty reports whether the environment changes nothing
func (e *RunEnv) Empty() bool {
	return len(e.names) == 0
}

// Environ returns KEY=VALUE overrides for the managed variables, each
// prepended to the value the variable has in base
func (e *RunEnv) Environ(base []string) []string {
	current := make(map[string]string, len(base))
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			current[k] = v
		}
	}

	sep := pathListSeparator(e.target)
	out := make([]string, 0, len(e.names))
	for _, name := range e.names {
		value := strings.Join(e.values[name], sep)
		if prev := current[name]; prev != "" {
			value += sep + prev
		}
		out = append(out, name+"="+value)
	}
	return out
}

// WriteScript writes the activation script into dir and returns its path.
// Windows targets get a .bat script, everything else a POSIX shell script.
func (e *RunEnv) WriteScript(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating script directory: %w", err)
	}

	var b strings.Builder
	var path string

	if e.target == platform.Windows {
		path = filepath.Join(dir, runScriptName+".bat")
		b.WriteString("@echo off\r\n")
		fmt.Fprintf(&b, "rem %s\r\n", generatedBy)
		for _, name := range e.names {
			fmt.Fprintf(&b, "set \"%s=%s;%%%s%%\"\r\n", name, strings.Join(e.values[name], ";"), name)
		}
	} else {
		path = filepath.Join(dir, runScriptName+".sh")
		fmt.Fprintf(&b, "# %s\n", generatedBy)
		for _, name := range e.names {
			fmt.Fprintf(&b, "export %s=\"%s${%s:+:$%s}\"\n", name, strings.Join(e.values[name], ":"), name, name)
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("writing run script: %w", err)
	}
	return path, nil
}
