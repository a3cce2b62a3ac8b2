// Package preset provides standard instrument parameter sets.
package preset

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	paramio "github.com/idlab-discover/neckgen-cli/internal/io"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

//go:embed presets/*.json
var embedded embed.FS

const manifestName = "presets.json"

// Preset is the metadata of one preset file.
type Preset struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Family      string `json:"family"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	File        string `json:"file"`
}

// Catalog reads presets from a directory. A presets.json manifest fixes
// the order; without one every .json file is a preset.
type Catalog struct {
	fs  afero.Fs
	dir string
}

func NewCatalog(fsys afero.Fs, dir string) *Catalog {
	return &Catalog{fs: fsys, dir: dir}
}

// Builtin returns the catalog of presets shipped with the binary.
func Builtin() *Catalog {
	return NewCatalog(afero.FromIOFS{FS: embedded}, "presets")
}

func (c *Catalog) files() ([]string, error) {
	data, err := afero.ReadFile(c.fs, path.Join(c.dir, manifestName))
	if err == nil {
		var manifest struct {
			Presets []string `json:"presets"`
		}
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("preset manifest: %w", err)
		}
		if len(manifest.Presets) > 0 {
			return manifest.Presets, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") && e.Name() != manifestName {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (c *Catalog) read(file string) (*paramio.Document, error) {
	f, err := c.fs.Open(path.Join(c.dir, file))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := paramio.Decode(f, "json")
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", file, err)
	}
	return doc, nil
}

func metaString(doc *paramio.Document, key, fallback string) string {
	if s, ok := doc.Metadata[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// List returns the metadata of every readable preset. Files listed in the
// manifest but missing or broken are skipped.
func (c *Catalog) List() ([]Preset, error) {
	files, err := c.files()
	if err != nil {
		return nil, err
	}
	out := make([]Preset, 0, len(files))
	for _, file := range files {
		doc, err := c.read(file)
		if err != nil {
			logf(file, "skipped: %v", err)
			continue
		}
		id := metaString(doc, "preset_id", strings.TrimSuffix(file, ".json"))
		out = append(out, Preset{
			ID:          id,
			DisplayName: metaString(doc, "display_name", id),
			Family:      metaString(doc, "family", string(registry.FamilyViolin)),
			Icon:        metaString(doc, "icon", ""),
			Description: metaString(doc, "description", ""),
			File:        file,
		})
	}
	return out, nil
}

// Load returns the complete value set of the preset with the given id.
func (c *Catalog) Load(id string, reg *registry.Registry) (registry.ValueSet, error) {
	list, err := c.List()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			ids = append(ids, p.ID)
			continue
		}
		doc, err := c.read(p.File)
		if err != nil {
			return nil, err
		}
		logf(id, "loaded from %s", p.File)
		return doc.Values(reg)
	}
	return nil, apperr.Userf("unknown preset %q (available: %s)", id, strings.Join(ids, ", "))
}
