package typst

import "strings"

// escapeChars is the fixed ordered set of markup-significant characters.
// Backslash must come first: escaping it later would double-escape the
// backslashes introduced by earlier passes.
var escapeChars = []string{`\`, "#", "[", "]", "$", "*", "_", "`", "@"}

// Escape prefixes every markup-significant character with a backslash so the
// string renders literally in Typst markup context.
func Escape(s string) string {
	for _, c := range escapeChars {
		s = strings.ReplaceAll(s, c, `\`+c)
	}
	return s
}
