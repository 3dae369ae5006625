package compile

import (
	"reflect"
	"testing"

	"github.com/folio-reports/folio/pkg/errors"
)

func TestNormalizeTracks(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{name: "nil", input: nil, want: nil},
		{name: "auto keyword", input: "auto", want: []string{"auto"}},
		{name: "count of three", input: 3, want: []string{"auto", "auto", "auto"}},
		{name: "count as int64", input: int64(2), want: []string{"auto", "auto"}},
		{name: "count as whole float", input: 2.0, want: []string{"auto", "auto"}},
		{
			name:  "mixed list",
			input: []any{"auto", "1fr", "20pt"},
			want:  []string{"auto", "1fr", "20pt"},
		},
		{
			name:  "fraction map",
			input: []any{map[string]any{"fr": 2}, "auto"},
			want:  []string{"2fr", "auto"},
		},
		{
			name:  "fractional fraction",
			input: []any{map[string]any{"fr": 1.5}},
			want:  []string{"1.5fr"},
		},
		{
			name:  "bare numerics are absolute points",
			input: []any{80, 120.5},
			want:  []string{"80pt", "120.5pt"},
		},
		{name: "string slice", input: []string{"auto", "2fr"}, want: []string{"auto", "2fr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeTracks(tt.input, "columns")
			if err != nil {
				t.Fatalf("normalizeTracks() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeTracks() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A positive integer count and an explicit list of the same number of "auto"
// entries normalize identically.
func TestNormalizeTracksCountEquivalence(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		list := make([]any, n)
		for i := range list {
			list[i] = "auto"
		}

		fromCount, err := normalizeTracks(n, "columns")
		if err != nil {
			t.Fatalf("normalizeTracks(%d) error = %v", n, err)
		}
		fromList, err := normalizeTracks(list, "columns")
		if err != nil {
			t.Fatalf("normalizeTracks(list) error = %v", err)
		}

		if !reflect.DeepEqual(fromCount, fromList) {
			t.Errorf("count %d: %v != %v", n, fromCount, fromList)
		}
	}
}

func TestNormalizeTracksErrors(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "negative count", input: -1},
		{name: "zero count", input: 0},
		{name: "arbitrary string", input: "wide"},
		{name: "bool", input: true},
		{name: "nested list", input: []any{[]any{"auto"}}},
		{name: "map without fr", input: []any{map[string]any{"em": 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeTracks(tt.input, "rows")
			if err == nil {
				t.Fatalf("normalizeTracks(%v) = nil, want error", tt.input)
			}
			if !errors.Is(err, errors.ErrCodeInvalidTrack) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTrack)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{name: "int", input: 5, want: "5", ok: true},
		{name: "int64", input: int64(12), want: "12", ok: true},
		{name: "whole float", input: 3.0, want: "3", ok: true},
		{name: "fractional float", input: 2.25, want: "2.25", ok: true},
		{name: "string", input: "5", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := formatNumber(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("formatNumber(%v) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
