package typst

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "hello world", want: "hello world"},
		{name: "hash", input: "#total", want: `\#total`},
		{name: "brackets", input: "[x]", want: `\[x\]`},
		{name: "math and emphasis", input: "$5 *bold* _it_", want: `\$5 \*bold\* \_it\_`},
		{name: "backtick and at", input: "`code` @ref", want: "\\`code\\` \\@ref"},
		{name: "backslash", input: `a\b`, want: `a\\b`},
		{name: "percent untouched", input: "100% done", want: "100% done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.input); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Backslash is escaped in its own pass before the delimiters, so a backslash
// followed by a delimiter escapes each exactly once.
func TestEscapeBackslashBeforeDelimiter(t *testing.T) {
	if got, want := Escape(`\[`), `\\\[`; got != want {
		t.Errorf("Escape(`\\[`) = %q, want %q", got, want)
	}
}
