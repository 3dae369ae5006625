package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/folio-reports/folio/pkg/pipeline"
)

// testServer builds the API handler with caching disabled.
func testServer(t *testing.T) http.Handler {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, nil)
	t.Cleanup(func() { runner.Close() })
	return newServer(runner, charmlog.New(io.Discard))
}

func TestServeHealthz(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "ok")
	}
}

func TestServeRender(t *testing.T) {
	srv := testServer(t)

	body := `{
		"definition": "[[layouts]]\nkind = \"table\"\ncolumns = [\"auto\", \"1fr\"]\n\n[[layouts.children]]\ncells = [{ text = \"Invoice\" }, { source = [\"invoice\", \"number\"] }]\n",
		"definition_format": "toml",
		"data": {"invoice": {"number": "INV-001"}},
		"formats": ["typ", "json"]
	}`

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/render", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}

	var resp renderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.RequestID == "" {
		t.Error("response request_id is empty")
	}
	if resp.IRHash == "" {
		t.Error("response ir_hash is empty")
	}
	if resp.Layouts != 1 {
		t.Errorf("layouts = %d, want 1", resp.Layouts)
	}

	typ, ok := resp.Artifacts["typ"]
	if !ok {
		t.Fatal("missing typ artifact")
	}
	for _, want := range []string{"#table(", "columns: (auto, 1fr),", "[Invoice], [INV-001],"} {
		if !strings.Contains(typ, want) {
			t.Errorf("typ artifact missing %q:\n%s", want, typ)
		}
	}
	if _, ok := resp.Artifacts["json"]; !ok {
		t.Error("missing json artifact")
	}
}

func TestServeRenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			"invalid json body",
			`{not json`,
			"INVALID_DEFINITION",
		},
		{
			"missing definition",
			`{"definition_format": "toml"}`,
			"INVALID_DEFINITION",
		},
		{
			"missing definition format",
			`{"definition": "[[layouts]]\nkind = \"grid\"\n"}`,
			"INVALID_DEFINITION",
		},
		{
			"unknown layout kind",
			`{"definition": "[[layouts]]\nkind = \"chart\"\n", "definition_format": "toml"}`,
			"UNKNOWN_ELEMENT_TYPE",
		},
		{
			"unparseable definition",
			`{"definition": "not toml at all {{{", "definition_format": "toml"}`,
			"INVALID_DEFINITION",
		},
	}

	srv := testServer(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/render", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if resp.Error == "" {
				t.Error("error message is empty")
			}
		})
	}
}
