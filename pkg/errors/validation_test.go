package errors

import (
	"strings"
	"testing"
)

func TestValidateDefinitionPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid relative path", path: "reports/invoice.toml", wantErr: false},
		{name: "valid absolute path", path: "/home/user/invoice.yaml", wantErr: false},
		{name: "empty path", path: "", wantErr: true},
		{name: "path traversal", path: "../secrets/report.toml", wantErr: true},
		{name: "null byte", path: "report\x00.toml", wantErr: true},
		{name: "too long", path: strings.Repeat("a", 501), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDefinitionPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDefinitionPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateLayoutKind(t *testing.T) {
	for _, kind := range []string{"grid", "table", "stack"} {
		if err := ValidateLayoutKind(kind); err != nil {
			t.Errorf("ValidateLayoutKind(%q) = %v, want nil", kind, err)
		}
	}

	err := ValidateLayoutKind("flexbox")
	if err == nil {
		t.Fatal("ValidateLayoutKind(\"flexbox\") = nil, want error")
	}
	if !Is(err, ErrCodeUnknownElement) {
		t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeUnknownElement)
	}
}

func TestValidateFormatTag(t *testing.T) {
	for _, tag := range []string{"", "number", "currency", "percent", "date", "datetime"} {
		if err := ValidateFormatTag(tag); err != nil {
			t.Errorf("ValidateFormatTag(%q) = %v, want nil", tag, err)
		}
	}

	if err := ValidateFormatTag("scientific"); err == nil {
		t.Error("ValidateFormatTag(\"scientific\") = nil, want error")
	}
}
