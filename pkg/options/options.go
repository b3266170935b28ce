// Package options models the boolean build options a recipe declares and the
// effective option set resolved for one packaging run.
package options

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownOption indicates an override for an option the recipe never declared
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidOptionValue indicates an override value outside {True, False}
	ErrInvalidOptionValue = errors.New("invalid option value")
)

// Definition declares a boolean option and its default value
type Definition struct {
	Name    string
	Default bool
}

// Set holds the effective option values of one packaging run.
// Options removed for the target no longer appear in the set.
type Set struct {
	declared map[string]bool
	values   map[string]bool
}

// New creates a Set populated with the defaults of defs
func New(defs []Definition) *Set {
	s := &Set{
		declared: make(map[string]bool, len(defs)),
		values:   make(map[string]bool, len(defs)),
	}
	for _, d := range defs {
		s.declared[d.Name] = true
		s.values[d.Name] = d.Default
	}
	return s
}

// Has reports whether the option is present in the effective set
func (s *Set) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Get returns the option value; absent options read as false
func (s *Set) Get(name string) bool {
	return s.values[name]
}

// GetSafe returns the option value and whether the option is present
func (s *Set) GetSafe(name string) (bool, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Remove drops an option from the effective set. Removing an absent option
// is a no-op; the return value reports whether anything was removed.
func (s *Set) Remove(name string) bool {
	if _, ok := s.values[name]; !ok {
		return false
	}
	delete(s.values, name)
	return true
}

// Set assigns a present option
func (s *Set) Set(name string, value bool) error {
	if !s.declared[name] {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	if _, ok := s.values[name]; !ok {
		return fmt.Errorf("option %s was removed for this configuration", name)
	}
	s.values[name] = value
	return nil
}

// Apply assigns "name=value" overrides in order. Overrides for declared
// options that were removed for this configuration are skipped and returned.
func (s *Set) Apply(overrides []string) ([]string, error) {
	var skipped []string
	for _, o := range overrides {
		name, raw, ok := strings.Cut(o, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("malformed option %q, expected name=value", o)
		}
		if !s.declared[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOption, name)
		}
		value, err := ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", name, err)
		}
		if !s.Has(name) {
			skipped = append(skipped, name)
			continue
		}
		s.values[name] = value
	}
	return skipped, nil
}

// Names returns the present option names in sorted order
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns the present options rendered as True/False
func (s *Set) Values() map[string]string {
	values := make(map[string]string, len(s.values))
	for name, v := range s.values {
		values[name] = FormatBool(v)
	}
	return values
}

// String returns the options as sorted name=value pairs
func (s *Set) String() string {
	parts := make([]string, 0, len(s.values))
	for _, name := range s.Names() {
		parts = append(parts, name+"="+FormatBool(s.values[name]))
	}
	return strings.Join(parts, " ")
}

// ParseBool parses an option value
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidOptionValue, v)
}

// FormatBool renders an option value the way recipes print it
func FormatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
