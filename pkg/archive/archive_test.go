package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name    string
	content string
	dir     bool
}

func writeTarGz(t *testing.T, path string, entries []entry) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		h := &tar.Header{Name: e.name, Mode: 0644, Size: int64(len(e.content)), Typeflag: tar.TypeReg}
		if e.dir {
			h = &tar.Header{Name: e.name, Mode: 0755, Typeflag: tar.TypeDir}
		}
		require.NoError(t, tw.WriteHeader(h))
		if !e.dir {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"v1.3.2.tar.gz": FormatTarGz,
		"src.TGZ":       FormatTarGz,
		"pkg.tar.xz":    FormatTarXz,
		"pkg.txz":       FormatTarXz,
		"plain.tar":     FormatTar,
		"win.zip":       FormatZip,
	}
	for name, want := range tests {
		got, err := DetectFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := DetectFormat("source.7z")
	assert.ErrorIs(t, err, ErrUnsupportedArchive)
}

func TestExtractStripRoot(t *testing.T) {
	src := filepath.Join(t.TempDir(), "CameraCapture-1.3.2.tar.gz")
	writeTarGz(t, src, []entry{
		{name: "CameraCapture-1.3.2/", dir: true},
		{name: "CameraCapture-1.3.2/LICENSE", content: "MIT"},
		{name: "CameraCapture-1.3.2/include/ccap.h", content: "#pragma once"},
	})

	dst := t.TempDir()
	n, err := Extract(src, dst, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dst, "LICENSE"))
	require.NoError(t, err)
	assert.Equal(t, "MIT", string(data))
	assert.FileExists(t, filepath.Join(dst, "include", "ccap.h"))
	assert.NoDirExists(t, filepath.Join(dst, "CameraCapture-1.3.2"))
}

func TestExtractKeepsRoot(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.tgz")
	writeTarGz(t, src, []entry{{name: "root/file.txt", content: "x"}})

	dst := t.TempDir()
	_, err := Extract(src, dst, false)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dst, "root", "file.txt"))
}

func TestExtractRejectsTraversal(t *testing.T) {
	src := filepath.Join(t.TempDir(), "evil.tar.gz")
	writeTarGz(t, src, []entry{{name: "../../escape.txt", content: "x"}})

	dst := t.TempDir()
	_, err := Extract(src, dst, false)
	assert.ErrorIs(t, err, ErrUnsafePath)
}

func TestExtractZip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "src.zip")
	f, err := os.Create(src)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("CameraCapture-main/CMakeLists.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("project(ccap)"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dst := t.TempDir()
	n, err := Extract(src, dst, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(dst, "CMakeLists.txt"))
}

func TestCompressTarXzThenExtract(t *testing.T) {
	pkg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "lib"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "licenses"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "lib", "libccap.a"), []byte("archive"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "licenses", "LICENSE"), []byte("MIT"), 0644))

	dst := filepath.Join(t.TempDir(), "out", "ccap-1.3.2.tar.xz")
	n, err := CompressTarXz(pkg, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := t.TempDir()
	n, err = Extract(dst, out, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(out, "lib", "libccap.a"))
	require.NoError(t, err)
	assert.Equal(t, "archive", string(data))
}
