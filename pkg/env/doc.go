/*
Package env provides the runtime environment of packaged libraries.

It handles:
  - Discovering library files inside package folders (collect_libs)
  - Building the run environment that lets executables load shared
    libraries from dependency packages (VirtualRunEnv)
  - Writing activation scripts for that environment

Basic Usage:

	import "github.com/wysaid/ccapkg/pkg/env"

	// Library names produced by an install step
	libs := env.CollectLibs([]string{"/pkg/lib"}, platform.Linux)
	// -> ["ccap"]

	// Environment for running a consumer binary
	run := env.NewRunEnv(platform.Linux)
	run.AddPackage([]string{"/pkg/bin"}, []string{"/pkg/lib"})
	cmd.Env = run.Environ(os.Environ())

Library Naming:

Library files are matched by the extensions of the target OS, not the OS
ccapkg runs on: .so and .a on Linux, .dylib and .a on Apple platforms,
.lib and .a on Windows. Version suffixes (libccap.so.1.3.2,
libccap.1.dylib) and the "lib" prefix are stripped from the reported name.
*/
package env
