// Package archive extracts source archives and writes package archives.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

var (
	// ErrUnsupportedArchive indicates an archive format that cannot be extracted
	ErrUnsupportedArchive = errors.New("unsupported archive format")

	// ErrUnsafePath indicates an entry that would be written outside the destination
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

// Format identifies an archive container and compression
type Format string

const (
	FormatTarGz Format = "tar.gz"
	FormatTarXz Format = "tar.xz"
	FormatTar   Format = "tar"
	FormatZip   Format = "zip"
)

// DetectFormat derives the format from a file name
func DetectFormat(name string) (Format, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz, nil
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FormatTarXz, nil
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar, nil
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedArchive, filepath.Base(name))
}

// Extract unpacks the archive at src into dst. With stripRoot the first
// path component of every entry is removed.
func Extract(src, dst string, stripRoot bool) (int, error) {
	format, err := DetectFormat(src)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return 0, fmt.Errorf("creating destination: %w", err)
	}

	if format == FormatZip {
		return extractZip(src, dst, stripRoot)
	}

	f, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case FormatTarGz:
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzReader.Close()
		r = gzReader
	case FormatTarXz:
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("creating xz reader: %w", err)
		}
		r = xzReader
	}

	return extractTar(tar.NewReader(r), dst, stripRoot)
}

func extractTar(tarReader *tar.Reader, dst string, stripRoot bool) (int, error) {
	fileCount := 0

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fileCount, fmt.Errorf("reading tar entry: %w", err)
		}

		targetPath, ok, err := entryPath(dst, header.Name, stripRoot)
		if err != nil {
			return fileCount, err
		}
		if !ok {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fileCount, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}

		case tar.TypeSymlink:
			if err := checkLink(dst, targetPath, header.Linkname); err != nil {
				return fileCount, err
			}
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fileCount, fmt.Errorf("creating parent directory: %w", err)
			}
			os.Remove(targetPath)
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return fileCount, fmt.Errorf("creating symlink %s: %w", targetPath, err)
			}

		case tar.TypeReg:
			if err := writeFile(targetPath, tarReader, os.FileMode(header.Mode).Perm()); err != nil {
				return fileCount, err
			}
			fileCount++
		}
	}

	return fileCount, nil
}

func extractZip(src, dst string, stripRoot bool) (int, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("opening zip: %w", err)
	}
	defer zr.Close()

	fileCount := 0
	for _, f := range zr.File {
		targetPath, ok, err := entryPath(dst, f.Name, stripRoot)
		if err != nil {
			return fileCount, err
		}
		if !ok {
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fileCount, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fileCount, fmt.Errorf("opening zip entry %s: %w", f.Name, err)
		}
		err = writeFile(targetPath, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return fileCount, err
		}
		fileCount++
	}

	return fileCount, nil
}

// entryPath maps an archive entry name to its destination path.
// ok is false for entries that vanish after stripping the root.
func entryPath(dst, name string, stripRoot bool) (string, bool, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "./")
	if stripRoot {
		_, rest, found := strings.Cut(clean, "/")
		if !found {
			return "", false, nil
		}
		clean = rest
	}
	clean = strings.TrimSuffix(clean, "/")
	if clean == "" || clean == "." {
		return "", false, nil
	}

	target := filepath.Join(dst, filepath.FromSlash(clean))
	if !within(dst, target) {
		return "", false, fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, true, nil
}

func checkLink(dst, target, linkname string) error {
	resolved := linkname
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(target), linkname)
	}
	if !within(dst, resolved) {
		return fmt.Errorf("%w: symlink %s -> %s", ErrUnsafePath, target, linkname)
	}
	return nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func writeFile(path string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if perm == 0 {
		perm = 0644
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return out.Close()
}
