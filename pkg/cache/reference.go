package cache

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	namePattern    = regexp.MustCompile(`^[a-z0-9_][a-z0-9_+.-]*$`)
	versionPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_+.-]*$`)
)

// Reference identifies a recipe by name and version, e.g. "ccap/1.3.2"
type Reference struct {
	Name    string
	Version string
}

// ParseReference parses "name/version"
func ParseReference(s string) (Reference, error) {
	name, version, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || name == "" || version == "" || strings.Contains(version, "/") {
		return Reference{}, fmt.Errorf("invalid reference %q, expected name/version", s)
	}
	if !namePattern.MatchString(name) {
		return Reference{}, fmt.Errorf("invalid package name %q", name)
	}
	// Versions become cache folder names; a leading dot or a separator
	// would leave the package tree
	if !versionPattern.MatchString(version) {
		return Reference{}, fmt.Errorf("invalid package version %q", version)
	}
	return Reference{Name: name, Version: version}, nil
}

// String returns "name/version"
func (r Reference) String() string {
	return r.Name + "/" + r.Version
}
