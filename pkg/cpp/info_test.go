package cpp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInfoDefaults(t *testing.T) {
	info := NewInfo()
	assert.Equal(t, []string{"include"}, info.IncludeDirs)
	assert.Equal(t, []string{"lib"}, info.LibDirs)
	assert.Equal(t, []string{"bin"}, info.BinDirs)
	assert.Empty(t, info.Libs)
}

func TestProperties(t *testing.T) {
	var info Info
	assert.Equal(t, "", info.Property(PropertyCMakeFileName))
	assert.Equal(t, "ccap", info.PropertyOr(PropertyCMakeFileName, "ccap"))

	info.SetProperty(PropertyCMakeTargetName, "ccap::ccap")
	info.SetProperty(PropertyCMakeFileName, "ccap")
	assert.Equal(t, "ccap::ccap", info.Property(PropertyCMakeTargetName))
	assert.Equal(t, []string{PropertyCMakeFileName, PropertyCMakeTargetName}, info.PropertyKeys())
}

func TestAbs(t *testing.T) {
	root := filepath.Join("opt", "pkg")
	abs := filepath.Join(string(filepath.Separator), "usr", "lib")
	assert.Equal(t, []string{filepath.Join(root, "lib"), abs}, Abs(root, []string{"lib", abs}))
}
