package store

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

func newStore() *FileStore {
	return NewFileStore(afero.NewMemMapFs(), "/profiles", registry.Default())
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"My Violin":       "my_violin",
		"  cello-2 ":      "cello-2",
		"../../etc/pass":  "etc_pass",
		"Viol / Treble!!": "viol_treble",
		"***":             "",
	}
	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Fatalf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveLoadOverwrite(t *testing.T) {
	s := newStore()
	reg := registry.Default()

	v := reg.Defaults()
	v[registry.VSL] = 340.0
	if err := s.Save("My Violin", v); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load("my violin")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Equal(v) {
		t.Fatalf("loaded values differ")
	}

	v[registry.VSL] = 350.0
	if err := s.Save("My Violin", v); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	got, _ = s.Load("My Violin")
	if n, _ := got.Number(registry.VSL); n != 350 {
		t.Fatalf("overwrite lost: vsl = %v", n)
	}
	if ok, _ := s.Exists("MY VIOLIN"); !ok {
		t.Fatalf("Exists should match the sanitised name")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	s := newStore()
	if err := afero.WriteFile(s.fs, "/profiles/partial.json", []byte(`{"parameters":{"vsl":600,"instrument_family":"VIOL","x":1}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := s.Load("partial")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f, _ := v.Family(); f != registry.FamilyViol {
		t.Fatalf("family = %v", f)
	}
	if _, ok := v.Number(registry.BreakAngle); !ok {
		t.Fatalf("missing values should default")
	}
}

func TestListAndDelete(t *testing.T) {
	s := newStore()
	if got, err := s.List(); err != nil || len(got) != 0 {
		t.Fatalf("List on missing dir = %v, %v", got, err)
	}
	reg := registry.Default()
	guitar := reg.Defaults()
	guitar[registry.InstrumentFamily] = "GUITAR_MANDOLIN"
	_ = s.Save("b guitar", guitar)
	_ = s.Save("a violin", reg.Defaults())
	_ = afero.WriteFile(s.fs, "/profiles/notes.txt", []byte("x"), 0o644)

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a_violin" || got[1].Name != "b_guitar" || got[1].Family != "GUITAR_MANDOLIN" {
		t.Fatalf("List = %+v", got)
	}

	if err := s.Delete("a violin"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("a violin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete = %v, want ErrNotFound", err)
	}
	if _, err := s.Load("a violin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load deleted = %v, want ErrNotFound", err)
	}
}

func TestInvalidName(t *testing.T) {
	s := newStore()
	if err := s.Save("///", registry.Default().Defaults()); err == nil {
		t.Fatalf("expected error for empty sanitised name")
	}
}
