package platform

// CrossBuilding reports whether binaries built for host target a different
// machine than the build machine
func CrossBuilding(build, host Settings) bool {
	return build.OS != host.OS || build.Arch != host.Arch
}

// CanRun reports whether binaries produced for host can be executed on the
// build machine. An explicit override always wins.
func CanRun(build, host Settings, override *bool) bool {
	if override != nil {
		return *override
	}
	return !CrossBuilding(build, host)
}

// ExecutableSuffix returns the file suffix of executables on the OS
func ExecutableSuffix(o OS) string {
	if o == Windows {
		return ".exe"
	}
	return ""
}
