package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// CompressTarXz writes the contents of dir as a .tar.xz archive at dst.
// Entries are relative to dir; the archive has no root folder.
func CompressTarXz(dir, dst string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("creating archive directory: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	xzWriter, err := xz.NewWriter(out)
	if err != nil {
		return 0, fmt.Errorf("creating xz writer: %w", err)
	}

	tarWriter := tar.NewWriter(xzWriter)
	fileCount := 0

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			header.Name += "/"
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := io.Copy(tarWriter, f); err != nil {
			return err
		}
		fileCount++
		return nil
	})
	if err != nil {
		return fileCount, fmt.Errorf("archiving %s: %w", dir, err)
	}

	if err := tarWriter.Close(); err != nil {
		return fileCount, fmt.Errorf("closing tar stream: %w", err)
	}
	if err := xzWriter.Close(); err != nil {
		return fileCount, fmt.Errorf("closing xz stream: %w", err)
	}
	return fileCount, out.Close()
}
