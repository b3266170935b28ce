package cmake

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/phuslu/log"

	"github.com/wysaid/ccapkg/pkg/platform"
)

// ErrCppstdTooLow indicates the effective C++ standard is below a minimum
var ErrCppstdTooLow = errors.New("C++ standard too low")

// CppstdError reports an effective standard below the required one
type CppstdError struct {
	Current  string
	Required int
}

func (e *CppstdError) Error() string {
	return fmt.Sprintf("current cppstd (%s) is lower than the required C++ standard (%d)", e.Current, e.Required)
}

func (e *CppstdError) Is(target error) bool {
	return target == ErrCppstdTooLow
}

// DefaultCppstd returns the standard a compiler uses when none is requested.
// The second result is false for compilers or versions that are not known.
func DefaultCppstd(compiler, version string) (string, bool) {
	major, err := strconv.Atoi(strings.SplitN(version, ".", 2)[0])
	if err != nil {
		return "", false
	}

	switch compiler {
	case "gcc":
		switch {
		case major >= 11:
			return "gnu17", true
		case major >= 6:
			return "gnu14", true
		default:
			return "gnu98", true
		}
	case "clang":
		switch {
		case major >= 16:
			return "gnu17", true
		case major >= 6:
			return "gnu14", true
		default:
			return "gnu98", true
		}
	case "apple-clang":
		return "gnu98", true
	case "msvc":
		return "14", true
	}
	return "", false
}

// CurrentCppstd returns compiler.cppstd, or the compiler default when it is
// not set
func CurrentCppstd(s platform.Settings) (string, bool) {
	if s.CompilerCppstd != "" {
		return s.CompilerCppstd, true
	}
	return DefaultCppstd(s.Compiler, s.CompilerVersion)
}

// CheckMinCppstd fails with a *CppstdError when the standard in effect for s
// is lower than min. Unknown compilers without an explicit cppstd are let
// through.
func CheckMinCppstd(s platform.Settings, min int, logger *log.Logger) error {
	current, ok := CurrentCppstd(s)
	if !ok {
		logger.Debug().Str("compiler", s.Compiler).Str("version", s.CompilerVersion).Msg("unknown default C++ standard, skipping check")
		return nil
	}

	year, err := cppstdYear(current)
	if err != nil {
		return err
	}
	if year < cppstdYearOf(min) {
		return &CppstdError{Current: current, Required: min}
	}
	return nil
}

// cppstdYear orders standards chronologically: "98" precedes "11"
func cppstdYear(std string) (int, error) {
	std = strings.TrimPrefix(std, "gnu")
	n, err := strconv.Atoi(std)
	if err != nil {
		return 0, fmt.Errorf("invalid cppstd %q", std)
	}
	return cppstdYearOf(n), nil
}

func cppstdYearOf(n int) int {
	if n >= 90 {
		return 1900 + n
	}
	return 2000 + n
}
