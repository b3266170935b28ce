// Package paths resolves the default on-disk locations used by ccapkg.
package paths
