// Package cache stores built packages together with the metadata consumers
// need to resolve them: settings, options, link info and revision.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wysaid/ccapkg/pkg/archive"
	"github.com/wysaid/ccapkg/pkg/cpp"
)

// ErrPackageNotFound indicates no cached package matches a lookup
var ErrPackageNotFound = errors.New("package not found")

const (
	infoFile      = "conaninfo.toml"
	packageSubdir = "p"
)

// Entry represents a single p/<name>/<version>/<package_id>/conaninfo.toml file
type Entry struct {
	Reference string            `toml:"reference"`
	PackageID string            `toml:"package_id"`
	Revision  string            `toml:"revision"`
	Settings  map[string]string `toml:"settings"`
	Options   map[string]string `toml:"options"`
	CppInfo   cpp.Info          `toml:"cpp_info"`
	CreatedAt time.Time         `toml:"created_at"`

	// Folder is the package folder, filled in on load
	Folder string `toml:"-"`
}

// Cache provides lookup into the local package cache
type Cache struct {
	root string
}

// New creates a Cache rooted at dir
func New(dir string) *Cache {
	return &Cache{root: dir}
}

// Root returns the cache directory
func (c *Cache) Root() string {
	return c.root
}

func (c *Cache) entryDir(ref Reference, packageID string) string {
	return filepath.Join(c.root, "p", ref.Name, ref.Version, packageID)
}

// PackageFolder returns where a package's files live
func (c *Cache) PackageFolder(ref Reference, packageID string) string {
	return filepath.Join(c.entryDir(ref, packageID), packageSubdir)
}

// BuildFolder returns the scratch folder used while building a package
func (c *Cache) BuildFolder(ref Reference, packageID string) string {
	return filepath.Join(c.root, "b", ref.Name+"-"+ref.Version+"-"+shortID(packageID))
}

// TestFolder returns the folder the verification consumer of a package is
// built in
func (c *Cache) TestFolder(ref Reference, packageID string) string {
	return c.BuildFolder(ref, packageID) + "-test"
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// SourceFolder returns where fetched sources of a reference are kept
func (c *Cache) SourceFolder(ref Reference) string {
	return filepath.Join(c.root, "s", ref.Name, ref.Version)
}

// DownloadFolder returns where source archives are downloaded to
func (c *Cache) DownloadFolder() string {
	return filepath.Join(c.root, "dl")
}

// Store computes the package revision and writes the entry metadata.
// The package folder must already be populated.
func (c *Cache) Store(e *Entry) error {
	ref, err := ParseReference(e.Reference)
	if err != nil {
		return err
	}

	folder := c.PackageFolder(ref, e.PackageID)
	if _, err := os.Stat(folder); err != nil {
		return fmt.Errorf("cache: package folder missing: %w", err)
	}

	rev, err := Revision(folder)
	if err != nil {
		return fmt.Errorf("cache: computing revision: %w", err)
	}
	e.Revision = rev
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.Folder = folder

	f, err := os.Create(filepath.Join(c.entryDir(ref, e.PackageID), infoFile))
	if err != nil {
		return fmt.Errorf("cache: writing metadata: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(e); err != nil {
		return fmt.Errorf("cache: encoding metadata: %w", err)
	}
	return f.Close()
}

// Load reads the metadata of one package
func (c *Cache) Load(ref Reference, packageID string) (*Entry, error) {
	path := filepath.Join(c.entryDir(ref, packageID), infoFile)

	var e Entry
	if _, err := toml.DecodeFile(path, &e); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s:%s", ErrPackageNotFound, ref, packageID)
		}
		return nil, fmt.Errorf("cache: failed to parse '%s': %w", path, err)
	}

	e.Folder = c.PackageFolder(ref, packageID)
	return &e, nil
}

// Packages returns every package of a reference, newest first
func (c *Cache) Packages(ref Reference) ([]*Entry, error) {
	dir := filepath.Join(c.root, "p", ref.Name, ref.Version)
	ids, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []*Entry
	for _, id := range ids {
		if !id.IsDir() {
			continue
		}
		e, err := c.Load(ref, id.Name())
		if err != nil {
			continue // Incomplete build
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// List returns every cached package
func (c *Cache) List() ([]*Entry, error) {
	names, err := os.ReadDir(filepath.Join(c.root, "p"))
	if err != nil {
		if os.IsNotExist(err) {
			return []*Entry{}, nil
		}
		return nil, err
	}

	entries := []*Entry{}
	for _, name := range names {
		versions, err := os.ReadDir(filepath.Join(c.root, "p", name.Name()))
		if err != nil {
			continue
		}
		for _, version := range versions {
			pkgs, err := c.Packages(Reference{Name: name.Name(), Version: version.Name()})
			if err != nil {
				return nil, err
			}
			entries = append(entries, pkgs...)
		}
	}
	return entries, nil
}

// Find returns the newest package of ref whose settings agree with every
// key in match. Keys missing from match are not compared.
func (c *Cache) Find(ref Reference, match map[string]string) (*Entry, error) {
	pkgs, err := c.Packages(ref)
	if err != nil {
		return nil, err
	}

	for _, e := range pkgs {
		if matches(e.Settings, match) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, ref)
}

func matches(settings, match map[string]string) bool {
	for k, v := range match {
		if settings[k] != v {
			return false
		}
	}
	return true
}

// Remove deletes every package of a reference
func (c *Cache) Remove(ref Reference) error {
	if _, err := ParseReference(ref.String()); err != nil {
		return err
	}
	dir := filepath.Join(c.root, "p", ref.Name, ref.Version)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrPackageNotFound, ref)
	}
	return os.RemoveAll(dir)
}

// ArchiveName returns the file name an entry is archived under
func ArchiveName(e *Entry) (string, error) {
	ref, err := ParseReference(e.Reference)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s.tar.xz", ref.Name, ref.Version, e.PackageID), nil
}

// Archive packs the package folder of e into dir and returns the archive
// path and the number of files written
func (c *Cache) Archive(e *Entry, dir string) (string, int, error) {
	name, err := ArchiveName(e)
	if err != nil {
		return "", 0, err
	}

	dst := filepath.Join(dir, name)
	n, err := archive.CompressTarXz(e.Folder, dst)
	if err != nil {
		return "", n, fmt.Errorf("cache: archiving %s: %w", e.Reference, err)
	}
	return dst, n, nil
}
