package compile

import (
	"reflect"
	"testing"

	"github.com/folio-reports/folio/pkg/errors"
	"github.com/folio-reports/folio/pkg/ir"
)

func TestLowerContentLabel(t *testing.T) {
	got, err := lowerContent(map[string]any{"text": "Total"})
	if err != nil {
		t.Fatalf("lowerContent() error = %v", err)
	}

	label, ok := got.(*ir.Label)
	if !ok {
		t.Fatalf("lowerContent() = %T, want *ir.Label", got)
	}
	if label.Text != "Total" {
		t.Errorf("Text = %q, want %q", label.Text, "Total")
	}
	if label.Style != nil {
		t.Errorf("Style = %v, want nil", label.Style)
	}
}

func TestLowerContentStringShorthand(t *testing.T) {
	got, err := lowerContent("plain")
	if err != nil {
		t.Fatalf("lowerContent() error = %v", err)
	}
	label, ok := got.(*ir.Label)
	if !ok || label.Text != "plain" {
		t.Errorf("lowerContent(\"plain\") = %#v, want label %q", got, "plain")
	}
}

func TestLowerContentField(t *testing.T) {
	got, err := lowerContent(map[string]any{
		"source":         []any{"item", "amount"},
		"format":         "currency",
		"decimal_places": 2,
	})
	if err != nil {
		t.Fatalf("lowerContent() error = %v", err)
	}

	field, ok := got.(*ir.Field)
	if !ok {
		t.Fatalf("lowerContent() = %T, want *ir.Field", got)
	}
	if !reflect.DeepEqual(field.Source, []string{"item", "amount"}) {
		t.Errorf("Source = %v, want [item amount]", field.Source)
	}
	if field.Format != "currency" {
		t.Errorf("Format = %q, want currency", field.Format)
	}
	if field.Decimals == nil || *field.Decimals != 2 {
		t.Errorf("Decimals = %v, want 2", field.Decimals)
	}
}

func TestLowerContentFieldSingleKey(t *testing.T) {
	got, err := lowerContent(map[string]any{"source": "amount"})
	if err != nil {
		t.Fatalf("lowerContent() error = %v", err)
	}
	field := got.(*ir.Field)
	if !reflect.DeepEqual(field.Source, []string{"amount"}) {
		t.Errorf("Source = %v, want [amount]", field.Source)
	}
}

func TestLowerContentNestedLayout(t *testing.T) {
	got, err := lowerContent(map[string]any{
		"kind":     "grid",
		"columns":  2,
		"children": []any{map[string]any{"text": "a"}},
	})
	if err != nil {
		t.Fatalf("lowerContent() error = %v", err)
	}

	nested, ok := got.(*ir.Nested)
	if !ok {
		t.Fatalf("lowerContent() = %T, want *ir.Nested", got)
	}
	grid, ok := nested.Node.(*ir.Grid)
	if !ok {
		t.Fatalf("nested node = %T, want *ir.Grid", nested.Node)
	}
	if len(grid.Columns) != 2 {
		t.Errorf("nested grid columns = %v, want 2 autos", grid.Columns)
	}
}

func TestLowerContentUnknown(t *testing.T) {
	tests := []struct {
		name string
		item any
	}{
		{name: "empty map", item: map[string]any{}},
		{name: "unknown keys", item: map[string]any{"image": "logo.png"}},
		{name: "unknown kind", item: map[string]any{"kind": "chart"}},
		{name: "number", item: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lowerContent(tt.item)
			if err == nil {
				t.Fatalf("lowerContent(%v) = nil, want error", tt.item)
			}
			if !errors.Is(err, errors.ErrCodeUnknownElement) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnknownElement)
			}
		})
	}
}

func TestLowerContentBadFormatTag(t *testing.T) {
	_, err := lowerContent(map[string]any{"source": "x", "format": "scientific"})
	if err == nil {
		t.Fatal("lowerContent() = nil, want error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestStyleFrom(t *testing.T) {
	tests := []struct {
		name string
		item map[string]any
		want *ir.Style
	}{
		{
			name: "no style attributes",
			item: map[string]any{"text": "x"},
			want: nil,
		},
		{
			name: "flat attributes",
			item: map[string]any{"font_weight": "bold", "color": "#ff0000"},
			want: &ir.Style{Weight: "bold", Color: "#ff0000"},
		},
		{
			name: "numeric size becomes points",
			item: map[string]any{"font_size": 10},
			want: &ir.Style{Size: "10pt"},
		},
		{
			name: "style map overrides flat values",
			item: map[string]any{
				"font_weight": "light",
				"style":       map[string]any{"font_weight": "bold", "font_style": "italic"},
			},
			want: &ir.Style{Weight: "bold", Slant: "italic"},
		},
		{
			name: "all six attributes",
			item: map[string]any{
				"font_size":   9.5,
				"font_weight": "semibold",
				"font_style":  "italic",
				"color":       "navy",
				"font_family": "Inter",
				"text_align":  "center",
			},
			want: &ir.Style{
				Size:   "9.5pt",
				Weight: "semibold",
				Slant:  "italic",
				Color:  "navy",
				Family: "Inter",
				Align:  "center",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := styleFrom(tt.item)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("styleFrom() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
