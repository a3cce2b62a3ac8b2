// Package io reads and writes parameter documents and view artifacts.
package io

import (
	"encoding/json"
	"fmt"
	stdio "io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

const (
	// FormatVersion is stamped into the metadata of every exported document.
	FormatVersion = "1.0"
	Generator     = "neckgen-cli"
)

// now is replaced in tests.
var now = time.Now

// Document is the on-disk shape of a parameter set.
type Document struct {
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
	Metadata   map[string]any `json:"metadata" yaml:"metadata"`
}

// NewDocument wraps values for export. The metadata is stamped with an id,
// the format version, a timestamp and the generator; entries in extra win.
func NewDocument(values registry.ValueSet, extra map[string]any) *Document {
	doc := &Document{
		Parameters: make(map[string]any, len(values)),
		Metadata: map[string]any{
			"id":        uuid.NewString(),
			"version":   FormatVersion,
			"timestamp": now().UTC().Format(time.RFC3339),
			"generator": Generator,
		},
	}
	for k, v := range values {
		if f, ok := v.(registry.Family); ok {
			v = string(f)
		}
		doc.Parameters[string(k)] = v
	}
	for k, v := range extra {
		doc.Metadata[k] = v
	}
	return doc
}

// Values converts the document into a complete value set. Unknown and
// calculated-only keys are ignored; missing keys take their defaults.
func (d *Document) Values(reg *registry.Registry) (registry.ValueSet, error) {
	keys := make([]string, 0, len(d.Parameters))
	for k := range d.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(registry.ValueSet, len(keys))
	var ignored []string
	for _, k := range keys {
		def, ok := reg.Lookup(registry.Key(k))
		if !ok || !def.HasInput() {
			ignored = append(ignored, k)
			continue
		}
		v, err := registry.Coerce(def, d.Parameters[k])
		if err != nil {
			return nil, apperr.Userf("invalid parameter: %v", err)
		}
		out[def.Key] = v
	}
	if len(ignored) > 0 {
		logf("import", "ignored %d unknown parameter(s): %s", len(ignored), strings.Join(ignored, ", "))
	}
	return reg.Complete(out), nil
}

// resolveFormat maps a requested format and path to "json" or "yaml".
func resolveFormat(path, format string) (string, error) {
	actual := strings.ToLower(strings.TrimSpace(format))
	switch actual {
	case "", "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			actual = "yaml"
		default:
			actual = "json"
		}
	case "json", "yaml":
		// ok
	case "yml":
		actual = "yaml"
	default:
		return "", apperr.Userf("unsupported parameter format: %q", format)
	}
	return actual, nil
}

// Encode writes doc to w as indented JSON or YAML.
func Encode(w stdio.Writer, doc *Document, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return apperr.Userf("unsupported parameter format: %q", format)
	}
}

// Decode reads a document in the given format. A missing parameters or
// metadata object decodes as empty.
func Decode(r stdio.Reader, format string) (*Document, error) {
	doc := new(Document)
	switch format {
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(doc); err != nil && err != stdio.EOF {
			return nil, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(doc); err != nil {
			return nil, err
		}
	default:
		return nil, apperr.Userf("unsupported parameter format: %q", format)
	}
	if doc.Parameters == nil {
		doc.Parameters = map[string]any{}
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	return doc, nil
}

// ReadDocument reads a parameter document from a file.
// The format parameter can be "json", "yaml", or "auto" (default).
// If "auto", the format is determined from the file extension.
func ReadDocument(path, format string) (*Document, error) {
	actual, err := resolveFormat(path, format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f, actual)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// ReadParameters reads a document and returns its complete value set.
func ReadParameters(path, format string, reg *registry.Registry) (registry.ValueSet, *Document, error) {
	doc, err := ReadDocument(path, format)
	if err != nil {
		return nil, nil, err
	}
	values, err := doc.Values(reg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	logf(path, "read %d parameter(s)", len(doc.Parameters))
	return values, doc, nil
}

// WriteParameters writes doc to a file in the specified format. The path
// extension must agree with the format.
func WriteParameters(path string, doc *Document, format string) error {
	actual, err := resolveFormat(path, format)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch actual {
	case "yaml":
		if ext != ".yaml" && ext != ".yml" {
			return apperr.Userf("output path extension %q does not match format %q", ext, actual)
		}
	case "json":
		if ext != ".json" {
			return apperr.Userf("output path extension %q does not match format %q", ext, actual)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, doc, actual); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	logf(path, "wrote %d parameter(s)", len(doc.Parameters))
	return nil
}

// WriteView writes a rendered view artifact. SVG and HTML artifacts are
// written as-is.
func WriteView(path, artifact string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg", ".html", ".htm":
	case ".pdf":
		return apperr.User("PDF export is not supported; export the SVG view and convert it")
	default:
		return apperr.Userf("unsupported view file extension %q (use .svg or .html)", ext)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, []byte(artifact), 0o644); err != nil {
		return err
	}
	logf(path, "wrote %d bytes", len(artifact))
	return nil
}
