package platform

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// OS identifies a target operating system by its settings name
type OS string

const (
	Windows OS = "Windows"
	Linux   OS = "Linux"
	Macos   OS = "Macos"
	IOS     OS = "iOS"
	WatchOS OS = "watchOS"
	TvOS    OS = "tvOS"
	Android OS = "Android"
	FreeBSD OS = "FreeBSD"
)

// AllOS contains every operating system the settings model knows about
var AllOS = []OS{Windows, Linux, Macos, IOS, WatchOS, TvOS, Android, FreeBSD}

// String returns the settings name of the OS
func (o OS) String() string {
	return string(o)
}

// IsValid checks if the OS is a known settings value
func (o OS) IsValid() bool {
	for _, valid := range AllOS {
		if o == valid {
			return true
		}
	}
	return false
}

// IsApple reports whether the OS belongs to the Apple family
func (o OS) IsApple() bool {
	switch o {
	case Macos, IOS, WatchOS, TvOS:
		return true
	}
	return false
}

// Setting keys accepted by Set and Get
const (
	KeyOS              = "os"
	KeyArch            = "arch"
	KeyCompiler        = "compiler"
	KeyCompilerVersion = "compiler.version"
	KeyCompilerCppstd  = "compiler.cppstd"
	KeyBuildType       = "build_type"
)

// ErrUnknownSetting indicates a setting key outside the settings model
var ErrUnknownSetting = errors.New("unknown setting")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings describes the machine a package is built for (or built on)
type Settings struct {
	OS              OS     `yaml:"os" validate:"required,oneof=Windows Linux Macos iOS watchOS tvOS Android FreeBSD"`
	Arch            string `yaml:"arch" validate:"required"`
	Compiler        string `yaml:"compiler,omitempty"`
	CompilerVersion string `yaml:"compiler_version,omitempty"`
	CompilerCppstd  string `yaml:"compiler_cppstd,omitempty"`
	BuildType       string `yaml:"build_type,omitempty" validate:"omitempty,oneof=Debug Release RelWithDebInfo MinSizeRel"`
}

// Validate checks the settings against the settings model
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Get returns the value of a setting key, or "" when unset
func (s Settings) Get(key string) string {
	switch key {
	case KeyOS:
		return string(s.OS)
	case KeyArch:
		return s.Arch
	case KeyCompiler:
		return s.Compiler
	case KeyCompilerVersion:
		return s.CompilerVersion
	case KeyCompilerCppstd:
		return s.CompilerCppstd
	case KeyBuildType:
		return s.BuildType
	}
	return ""
}

// Set assigns a setting by key
func (s *Settings) Set(key, value string) error {
	switch key {
	case KeyOS:
		s.OS = OS(value)
	case KeyArch:
		s.Arch = value
	case KeyCompiler:
		s.Compiler = value
	case KeyCompilerVersion:
		s.CompilerVersion = value
	case KeyCompilerCppstd:
		s.CompilerCppstd = value
	case KeyBuildType:
		s.BuildType = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return nil
}

// Apply assigns a list of "key=value" settings in order
func (s *Settings) Apply(assignments []string) error {
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok || key == "" {
			return fmt.Errorf("malformed setting %q, expected key=value", a)
		}
		if err := s.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

// Values returns the non-empty settings keyed by setting name
func (s Settings) Values() map[string]string {
	values := make(map[string]string)
	for _, key := range []string{KeyOS, KeyArch, KeyCompiler, KeyCompilerVersion, KeyCompilerCppstd, KeyBuildType} {
		if v := s.Get(key); v != "" {
			values[key] = v
		}
	}
	return values
}

// String returns the settings as sorted key=value pairs
func (s Settings) String() string {
	values := s.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+values[k])
	}
	return strings.Join(parts, " ")
}
