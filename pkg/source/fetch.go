// Package source retrieves upstream sources described by conandata.yml.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/phuslu/log"

	"github.com/wysaid/ccapkg/pkg/archive"
)

// Fetcher downloads and unpacks sources
type Fetcher struct {
	client      *Client
	downloadDir string
	logger      *log.Logger

	// Progress receives git clone progress, nil to discard
	Progress io.Writer
}

// NewFetcher creates a fetcher keeping downloads under downloadDir
func NewFetcher(client *Client, downloadDir string, logger *log.Logger) *Fetcher {
	if client == nil {
		client = NewClient()
	}
	return &Fetcher{
		client:      client,
		downloadDir: downloadDir,
		logger:      logger,
	}
}

// Get materialises src into dst. Archives are tried mirror by mirror and
// verified against sha256 when one is declared; stripRoot drops the single
// top-level folder archives usually carry.
func (f *Fetcher) Get(ctx context.Context, src Source, dst string, stripRoot bool) error {
	if src.IsGit() {
		return f.clone(ctx, src, dst)
	}

	var lastErr error
	for _, u := range src.URL {
		archivePath, err := f.download(ctx, u)
		if err != nil {
			f.logger.Warn().Str("url", u).Err(err).Msg("download failed, trying next mirror")
			lastErr = err
			continue
		}
		defer os.Remove(archivePath)

		if src.SHA256 != "" {
			if err := verifyFileHash(archivePath, src.SHA256); err != nil {
				return err
			}
		}

		n, err := archive.Extract(archivePath, dst, stripRoot)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", filepath.Base(archivePath), err)
		}
		f.logger.Info().Int("files", n).Str("dst", dst).Msg("sources extracted")
		return nil
	}

	if lastErr == nil {
		return fmt.Errorf("source declares no url")
	}
	return fmt.Errorf("downloading sources: %w", lastErr)
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (string, error) {
	name, err := archiveName(rawURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(f.downloadDir, 0755); err != nil {
		return "", fmt.Errorf("creating download directory: %w", err)
	}

	dst := filepath.Join(f.downloadDir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	f.logger.Info().Str("url", rawURL).Msg("downloading sources")
	n, err := f.client.Download(ctx, rawURL, out)
	if err != nil {
		os.Remove(dst)
		return "", err
	}
	f.logger.Info().Str("size", humanize.Bytes(uint64(n))).Msg("download complete")

	return dst, out.Close()
}

// archiveName derives the local file name from the URL path
func archiveName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing url: %w", err)
	}
	name := path.Base(u.Path)
	if _, err := archive.DetectFormat(name); err != nil {
		return "", err
	}
	return name, nil
}

// verifyFileHash checks the sha256 of a file
func verifyFileHash(filePath, expected string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hashing %s: %w", filePath, err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%w: %s: expected %s, got %s", ErrHashMismatch, filepath.Base(filePath), expected, actual)
	}
	return nil
}
