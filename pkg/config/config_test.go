package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vanderheijden86/outliner/pkg/config"
	"github.com/vanderheijden86/outliner/pkg/model"
	"github.com/vanderheijden86/outliner/pkg/projection"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	if cfg.Mode != config.ModeTree {
		t.Errorf("unexpected default mode %q", cfg.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.ViewConfig)
		wantErr bool
	}{
		{"empty mode", func(c *config.ViewConfig) { c.Mode = "" }, false},
		{"flat mode", func(c *config.ViewConfig) { c.Mode = config.ModeFlat }, false},
		{"unknown mode", func(c *config.ViewConfig) { c.Mode = "spiral" }, true},
		{"text only", func(c *config.ViewConfig) { c.Filter.Text = "x" }, false},
		{"pattern only", func(c *config.ViewConfig) { c.Filter.Pattern = "x+" }, false},
		{"text and pattern", func(c *config.ViewConfig) {
			c.Filter.Text = "x"
			c.Filter.Pattern = "x+"
		}, true},
		{"bad pattern", func(c *config.ViewConfig) { c.Filter.Pattern = "(" }, true},
		{"negative field", func(c *config.ViewConfig) { c.Filter.Fields = []int{0, -1} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "view.yaml")

	want := config.ViewConfig{
		Mode: config.ModeFlat,
		Filter: config.FilterConfig{
			Text:          "item",
			CaseSensitive: true,
			Fields:        []int{0, 2},
			KeepAncestors: true,
		},
		Sort: config.SortConfig{Field: 1, Descending: true},
	}

	if err := config.SaveTo(want, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestLoadFromMissingFileYieldsDefault(t *testing.T) {
	got, err := config.LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !reflect.DeepEqual(got, config.DefaultConfig()) {
		t.Errorf("expected default config, got %+v", got)
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.yaml")
	if err := os.WriteFile(path, []byte("mode: spiral\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFrom(path); err == nil {
		t.Error("expected an error for an invalid config")
	}
}

func TestLoadFromRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "view.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.LoadFrom(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestApply(t *testing.T) {
	tree := model.NewTree(1)
	a := tree.AppendChildren(nil, "group")[0]
	tree.AppendChildren(a, "item_1", "other")

	cfg := config.DefaultConfig()
	cfg.Filter.Text = "item"
	cfg.Filter.KeepAncestors = true

	e := projection.New[*model.Node](tree)
	if err := config.Apply(cfg, e); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if !e.KeepAncestors() {
		t.Error("keep-ancestors not applied")
	}
	if e.Len() != 2 {
		t.Errorf("expected group placeholder plus item, got %d nodes", e.Len())
	}
}

func TestApplyPattern(t *testing.T) {
	tree := model.NewTree(1)
	tree.AppendChildren(nil, "item_1", "item_2", "other")

	cfg := config.DefaultConfig()
	cfg.Filter.Pattern = `^item_\d+$`

	e := projection.New[*model.Node](tree)
	if err := config.Apply(cfg, e); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if e.Len() != 2 {
		t.Errorf("expected 2 pattern matches, got %d", e.Len())
	}
}

func TestApplyFlat(t *testing.T) {
	tree := model.NewTree(1)
	a := tree.AppendChildren(nil, "b")[0]
	tree.AppendChildren(a, "a")

	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeFlat

	e := projection.New[*model.Node](tree)
	if err := config.Apply(cfg, e); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !e.Flat() {
		t.Error("flat mode not applied")
	}
	if got := e.Value(e.ChildAt(projection.Root, 0), 0); got != "a" {
		t.Errorf("expected sorted flat rows, first is %q", got)
	}
}

func TestApplyRejectsInvalid(t *testing.T) {
	tree := model.NewTree(1)
	e := projection.New[*model.Node](tree)

	cfg := config.DefaultConfig()
	cfg.Mode = "spiral"
	if err := config.Apply(cfg, e); err == nil {
		t.Error("expected an error for an invalid config")
	}
}
