package platform

import (
	"fmt"
	"runtime"
)

// Detect returns the settings of the machine ccapkg is running on
func Detect() (Settings, error) {
	return detect(runtime.GOOS, runtime.GOARCH)
}

func detect(goos, goarch string) (Settings, error) {
	s := Settings{BuildType: "Release"}

	switch goos {
	case "linux":
		s.OS = Linux
		s.Compiler = "gcc"
	case "darwin":
		s.OS = Macos
		s.Compiler = "apple-clang"
	case "windows":
		s.OS = Windows
		s.Compiler = "msvc"
	case "freebsd":
		s.OS = FreeBSD
		s.Compiler = "clang"
	case "android":
		s.OS = Android
		s.Compiler = "clang"
	default:
		return Settings{}, fmt.Errorf("unsupported operating system: %s", goos)
	}

	switch goarch {
	case "amd64":
		s.Arch = "x86_64"
	case "386":
		s.Arch = "x86"
	case "arm64":
		s.Arch = "armv8"
	case "arm":
		s.Arch = "armv7"
	case "riscv64", "ppc64le", "s390x":
		s.Arch = goarch
	default:
		return Settings{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}

	return s, nil
}
