package typst

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	data := map[string]any{
		"invoice": map[string]any{
			"number": "INV-001",
			"total":  149.5,
		},
		"flat": "value",
	}

	tests := []struct {
		name   string
		source []string
		want   any
	}{
		{name: "top level", source: []string{"flat"}, want: "value"},
		{name: "nested", source: []string{"invoice", "number"}, want: "INV-001"},
		{name: "missing key", source: []string{"invoice", "missing"}, want: nil},
		{name: "missing root", source: []string{"nowhere"}, want: nil},
		{name: "through non-map", source: []string{"flat", "deeper"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.source, data); got != tt.want {
				t.Errorf("Resolve(%v) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	two := 2
	zero := 0
	stamp := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    any
		format   string
		decimals *int
		want     string
	}{
		{name: "nil renders empty", value: nil, format: "number", want: ""},
		{name: "raw string", value: "hello", format: "", want: "hello"},
		{name: "raw int", value: 42, format: "", want: "42"},
		{name: "raw float", value: 2.5, format: "", want: "2.5"},
		{name: "raw bool", value: true, format: "", want: "true"},
		{name: "number default decimals", value: 12.5, format: "number", want: "12.50"},
		{name: "number explicit decimals", value: 12.6, format: "number", decimals: &zero, want: "13"},
		{name: "number from int", value: 7, format: "number", decimals: &two, want: "7.00"},
		{name: "currency", value: 149.5, format: "currency", want: "$149.50"},
		{name: "currency negative", value: -3.0, format: "currency", want: "$-3.00"},
		{name: "percent scales by hundred", value: 0.125, format: "percent", want: "12.50%"},
		{name: "date from time", value: stamp, format: "date", want: "2026-03-14"},
		{name: "date from rfc3339 string", value: "2026-03-14T09:30:00Z", format: "date", want: "2026-03-14"},
		{name: "datetime from time", value: stamp, format: "datetime", want: "2026-03-14 09:30:00"},
		{name: "datetime from date string", value: "2026-03-14", format: "datetime", want: "2026-03-14 00:00:00"},
		{name: "number on string falls back raw", value: "n/a", format: "number", want: "n/a"},
		{name: "date on number falls back raw", value: 5, format: "date", want: "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatValue(tt.value, tt.format, tt.decimals)
			if got != tt.want {
				t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.format, got, tt.want)
			}
		})
	}
}
