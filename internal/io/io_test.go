package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

func edited() registry.ValueSet {
	v := registry.Default().Defaults()
	v[registry.InstrumentFamily] = "GUITAR_MANDOLIN"
	v[registry.InstrumentName] = "Parlour guitar"
	v[registry.VSL] = 632.5
	v[registry.FretJoin] = 14.0
	v[registry.ShowMeasurements] = false
	return v
}

func TestRoundTrip(t *testing.T) {
	reg := registry.Default()
	for _, name := range []string{"params.json", "params.yaml", "params.yml"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "nested", name)
			in := edited()
			if err := WriteParameters(p, NewDocument(in, nil), "auto"); err != nil {
				t.Fatalf("WriteParameters: %v", err)
			}
			out, doc, err := ReadParameters(p, "auto", reg)
			if err != nil {
				t.Fatalf("ReadParameters: %v", err)
			}
			if !out.Equal(in) {
				t.Fatalf("round trip changed values:\n in: %v\nout: %v", in, out)
			}
			if doc.Metadata["generator"] != Generator || doc.Metadata["version"] != FormatVersion {
				t.Fatalf("metadata = %v", doc.Metadata)
			}
		})
	}
}

func TestNewDocument_Metadata(t *testing.T) {
	old := now
	now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = old })

	doc := NewDocument(registry.ValueSet{registry.InstrumentFamily: registry.FamilyViol}, map[string]any{"note": "back", "version": "custom"})
	if doc.Metadata["timestamp"] != "2026-03-01T12:00:00Z" {
		t.Fatalf("timestamp = %v", doc.Metadata["timestamp"])
	}
	if doc.Metadata["note"] != "back" || doc.Metadata["version"] != "custom" {
		t.Fatalf("extra metadata not merged: %v", doc.Metadata)
	}
	if id, _ := doc.Metadata["id"].(string); len(id) != 36 {
		t.Fatalf("id = %v", doc.Metadata["id"])
	}
	if doc.Parameters["instrument_family"] != "VIOL" {
		t.Fatalf("family should be stored as a plain string, got %#v", doc.Parameters["instrument_family"])
	}
}

func TestDocumentValues_UnknownAndMissing(t *testing.T) {
	reg := registry.Default()
	doc, err := Decode(strings.NewReader(`{"parameters":{"vsl":330,"neck_angle":12,"colour":"red"},"metadata":{"anything":[1,2]}}`), "json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	values, err := doc.Values(reg)
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if v, _ := values.Number(registry.VSL); v != 330 {
		t.Fatalf("vsl = %v", v)
	}
	if _, ok := values["colour"]; ok {
		t.Fatalf("unknown key kept")
	}
	if _, ok := values[registry.NeckAngle]; ok {
		t.Fatalf("calculated-only key kept")
	}
	if v, _ := values.Number(registry.BodyStop); v != 195 {
		t.Fatalf("missing body_stop should default, got %v", v)
	}
}

func TestDecode_MissingSections(t *testing.T) {
	doc, err := Decode(strings.NewReader("{}"), "json")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Parameters == nil || doc.Metadata == nil {
		t.Fatalf("sections should decode as empty maps")
	}
	values, err := doc.Values(registry.Default())
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if !values.Equal(registry.Default().Defaults()) {
		t.Fatalf("empty document should yield defaults")
	}

	doc, err = Decode(strings.NewReader(""), "yaml")
	if err != nil || len(doc.Parameters) != 0 {
		t.Fatalf("empty yaml: doc=%v err=%v", doc, err)
	}
}

func TestDocumentValues_BadValue(t *testing.T) {
	doc := &Document{Parameters: map[string]any{"vsl": "long"}}
	if _, err := doc.Values(registry.Default()); !apperr.IsUser(err) {
		t.Fatalf("err = %v, want user error", err)
	}
}

func TestWriteParameters_FormatMismatch(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		path, format string
	}{
		{"p.json", "yaml"},
		{"p.yaml", "json"},
		{"p.txt", "json"},
		{"p.json", "xml"},
	}
	for _, tt := range tests {
		if err := WriteParameters(filepath.Join(dir, tt.path), NewDocument(edited(), nil), tt.format); err == nil {
			t.Fatalf("WriteParameters(%s, %s): expected error", tt.path, tt.format)
		}
	}
}

func TestReadParameters_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := ReadParameters(filepath.Join(dir, "missing.json"), "auto", registry.Default()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	p := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(p, []byte("parameters: {vsl: 1}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadParameters(p, "json", registry.Default()); err == nil {
		t.Fatalf("expected decode error when format does not match content")
	}
	if _, _, err := ReadParameters(p, "yaml", registry.Default()); err != nil {
		t.Fatalf("yaml content should decode when forced: %v", err)
	}
}

func TestEncode_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, NewDocument(registry.ValueSet{registry.VSL: 325.0}, nil), "json"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"parameters": {`) || !strings.Contains(buf.String(), `"metadata": {`) {
		t.Fatalf("unexpected document:\n%s", buf.String())
	}
}

func TestWriteView(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "views", "side.svg")
	if err := WriteView(p, "<svg/>"); err != nil {
		t.Fatalf("WriteView: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "<svg/>" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if err := WriteView(filepath.Join(dir, "side.pdf"), "<svg/>"); !apperr.IsUser(err) {
		t.Fatalf("pdf: err = %v, want user error", err)
	}
	if err := WriteView(filepath.Join(dir, "side.png"), "<svg/>"); !apperr.IsUser(err) {
		t.Fatalf("png: err = %v, want user error", err)
	}
}
