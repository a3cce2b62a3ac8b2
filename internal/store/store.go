// Package store persists named parameter profiles.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	paramio "github.com/idlab-discover/neckgen-cli/internal/io"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

const ext = ".json"

var ErrNotFound = errors.New("profile not found")

var unsafeChars = regexp.MustCompile(`[^a-z0-9_-]+`)

// Store saves and loads parameter sets by name. Saving an existing name
// overwrites it.
type Store interface {
	Save(name string, values registry.ValueSet) error
	Load(name string) (registry.ValueSet, error)
	List() ([]Profile, error)
	Delete(name string) error
}

// Profile describes one saved profile.
type Profile struct {
	Name     string
	Family   string
	Modified time.Time
}

// FileStore keeps one JSON parameter document per profile in a directory.
type FileStore struct {
	fs  afero.Fs
	dir string
	reg *registry.Registry
}

func NewFileStore(fs afero.Fs, dir string, reg *registry.Registry) *FileStore {
	return &FileStore{fs: fs, dir: dir, reg: reg}
}

// NewOSStore returns a FileStore on the real filesystem.
func NewOSStore(dir string, reg *registry.Registry) *FileStore {
	return NewFileStore(afero.NewOsFs(), dir, reg)
}

// Sanitize maps a profile name to its file stem: lower case, with runs of
// anything but letters, digits, '-' and '_' collapsed to '_'.
func Sanitize(name string) string {
	s := unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(s, "_")
}

func (s *FileStore) path(name string) (string, error) {
	stem := Sanitize(name)
	if stem == "" {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	return filepath.Join(s.dir, stem+ext), nil
}

// Exists reports whether a profile is saved under name.
func (s *FileStore) Exists(name string) (bool, error) {
	p, err := s.path(name)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, p)
}

func (s *FileStore) Save(name string, values registry.ValueSet) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	doc := paramio.NewDocument(values, map[string]any{"profile": name})
	f, err := s.fs.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := paramio.Encode(f, doc, "json"); err != nil {
		return fmt.Errorf("save profile %q: %w", name, err)
	}
	logf(name, "saved to %s", p)
	return nil
}

func (s *FileStore) Load(name string) (registry.ValueSet, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := paramio.Decode(f, "json")
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", name, err)
	}
	logf(name, "loaded from %s", p)
	return doc.Values(s.reg)
}

// List returns the saved profiles sorted by name.
func (s *FileStore) List() ([]Profile, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []Profile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		p := Profile{Name: name, Modified: e.ModTime()}
		if values, err := s.Load(name); err == nil {
			if f, ok := values.Family(); ok {
				p.Family = string(f)
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FileStore) Delete(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}
	logf(name, "deleted")
	return nil
}
