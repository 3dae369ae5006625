package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/folio-reports/folio/pkg/cache"
	"github.com/folio-reports/folio/pkg/errors"
)

const testDefinition = `
[options]
page_size = "a4"

[data.invoice]
number = "INV-001"
total = 149.5

[[layouts]]
kind = "table"
columns = ["auto", "1fr"]

[[layouts.headers]]
repeat = true

[[layouts.headers.rows]]
cells = [{ text = "Invoice" }, { source = ["invoice", "number"] }]

[[layouts.children]]
cells = [{ text = "Total" }, { source = ["invoice", "total"], format = "currency" }]
`

func writeDefinition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice.toml")
	if err := os.WriteFile(path, []byte(testDefinition), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		DefinitionPath: writeDefinition(t),
		Formats:        []string{FormatTyp, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.LayoutCount != 1 {
		t.Errorf("LayoutCount = %d, want 1", result.Stats.LayoutCount)
	}
	if result.DefinitionHash == "" || result.IRHash == "" {
		t.Error("Execute() should report content hashes")
	}

	markup := string(result.Artifacts[FormatTyp])
	if !strings.Contains(markup, `#set page(paper: "a4")`) {
		t.Errorf("markup missing preamble:\n%s", markup)
	}
	if !strings.Contains(markup, "#table(") {
		t.Errorf("markup missing table call:\n%s", markup)
	}
	if !strings.Contains(markup, "[INV-001]") {
		t.Errorf("markup missing resolved field:\n%s", markup)
	}
	if !strings.Contains(markup, "[$149.50]") {
		t.Errorf("markup missing formatted currency:\n%s", markup)
	}

	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact missing")
	}
}

func TestRunnerExecuteInlineDefinition(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Definition:       []byte(`{"layouts": [{"kind": "grid", "columns": 2, "children": ["a", "b"]}]}`),
		DefinitionFormat: "json",
		NoPreamble:       true,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	markup := string(result.Artifacts[FormatTyp])
	if strings.Contains(markup, "#set") {
		t.Errorf("NoPreamble should suppress set rules:\n%s", markup)
	}
	if !strings.Contains(markup, "columns: (auto, auto),") {
		t.Errorf("markup missing normalized tracks:\n%s", markup)
	}
}

func TestRunnerExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{DefinitionPath: writeDefinition(t)}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.CompileHit || first.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.CompileHit {
		t.Error("second run should hit the compile cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}
	if string(first.Artifacts[FormatTyp]) != string(second.Artifacts[FormatTyp]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// Refresh bypasses the compile cache
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third Execute() error = %v", err)
	}
	if third.CacheInfo.CompileHit {
		t.Error("refresh run should not hit the compile cache")
	}
}

func TestRunnerExecuteDataOverride(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	dataPath := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(dataPath, []byte(`{"invoice": {"total": 200}}`), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := runner.Execute(context.Background(), Options{
		DefinitionPath: writeDefinition(t),
		DataPath:       dataPath,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	markup := string(result.Artifacts[FormatTyp])
	if !strings.Contains(markup, "[$200.00]") {
		t.Errorf("external data should override definition data:\n%s", markup)
	}
	if !strings.Contains(markup, "[INV-001]") {
		t.Errorf("definition data outside the overlay should survive:\n%s", markup)
	}
}

func TestRunnerExecuteMissingDefinition(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		DefinitionPath: filepath.Join(t.TempDir(), "absent.toml"),
	})
	if err == nil {
		t.Fatal("Execute() = nil, want error")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestRunnerExecuteCompileError(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		Definition:       []byte(`{"layouts": [{"kind": "chart"}]}`),
		DefinitionFormat: "json",
	})
	if err == nil {
		t.Fatal("Execute() = nil, want error")
	}
	if !errors.Is(err, errors.ErrCodeUnknownElement) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnknownElement)
	}
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "d.json")
	os.WriteFile(jsonPath, []byte(`{"a": 1}`), 0644)
	yamlPath := filepath.Join(dir, "d.yaml")
	os.WriteFile(yamlPath, []byte("a: 1\n"), 0644)
	tomlPath := filepath.Join(dir, "d.toml")
	os.WriteFile(tomlPath, []byte("a = 1\n"), 0644)

	for _, path := range []string{jsonPath, yamlPath, tomlPath} {
		data, err := LoadData(path)
		if err != nil {
			t.Fatalf("LoadData(%s) error = %v", path, err)
		}
		if _, ok := data["a"]; !ok {
			t.Errorf("LoadData(%s) missing key: %v", path, data)
		}
	}

	if _, err := LoadData(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want file not found", err)
	}

	// Paths are data, not format directives.
	verbPath := filepath.Join(dir, "100%spent.json")
	if _, err := LoadData(verbPath); err == nil || !strings.Contains(err.Error(), verbPath) {
		t.Errorf("missing file error = %v, want message carrying %q", err, verbPath)
	}

	txtPath := filepath.Join(dir, "d.txt")
	os.WriteFile(txtPath, []byte("x"), 0644)
	if _, err := LoadData(txtPath); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unsupported format error = %v, want unsupported", err)
	}
}
