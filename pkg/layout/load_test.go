package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/folio-reports/folio/pkg/errors"
)

const tomlDefinition = `
[options]
page_size = "a4"
font_size = 11

[data]
title = "Quarterly Report"

[[layouts]]
kind = "table"
columns = 2

[[layouts.children]]
text = "Revenue"
`

const yamlDefinition = `
options:
  page_size: a4
layouts:
  - kind: grid
    columns: [auto, 1fr]
    children:
      - text: Hello
      - source: amount
        format: currency
`

const jsonDefinition = `{
  "layouts": [
    {"kind": "stack", "direction": "ttb", "children": [{"text": "hi"}]}
  ]
}`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  string
		layouts int
	}{
		{name: "toml", data: tomlDefinition, format: "toml", layouts: 1},
		{name: "yaml", data: yamlDefinition, format: "yaml", layouts: 1},
		{name: "yml alias", data: yamlDefinition, format: "yml", layouts: 1},
		{name: "json", data: jsonDefinition, format: "json", layouts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(def.Layouts) != tt.layouts {
				t.Errorf("len(Layouts) = %d, want %d", len(def.Layouts), tt.layouts)
			}
		})
	}
}

func TestParseTOMLShapes(t *testing.T) {
	def, err := Parse([]byte(tomlDefinition), "toml")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if def.Options["page_size"] != "a4" {
		t.Errorf("options.page_size = %v, want a4", def.Options["page_size"])
	}
	if def.Data["title"] != "Quarterly Report" {
		t.Errorf("data.title = %v", def.Data["title"])
	}

	table := def.Layouts[0]
	if table.Kind() != "table" {
		t.Errorf("Kind() = %q, want table", table.Kind())
	}
	if !table.Has("children") {
		t.Error("table should have children")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
		code   errors.Code
	}{
		{name: "unsupported format", data: "{}", format: "ini", code: errors.ErrCodeUnsupported},
		{name: "bad toml", data: "[[[", format: "toml", code: errors.ErrCodeInvalidDefinition},
		{name: "no layouts", data: "{}", format: "json", code: errors.ErrCodeInvalidDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("Parse() = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.yaml")
	if err := os.WriteFile(path, []byte(yamlDefinition), 0644); err != nil {
		t.Fatal(err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(def.Layouts) != 1 {
		t.Errorf("len(Layouts) = %d, want 1", len(def.Layouts))
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("Load() = nil, want error")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}
