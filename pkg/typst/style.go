package typst

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/folio-reports/folio/pkg/ir"
)

// fontWeights is the closed vocabulary Typst accepts for named weights.
// Anything outside it is passed through quoted so authors see their own
// value in the output instead of a silent substitution.
var fontWeights = map[string]bool{
	"thin":       true,
	"extralight": true,
	"light":      true,
	"regular":    true,
	"medium":     true,
	"semibold":   true,
	"bold":       true,
	"extrabold":  true,
	"black":      true,
}

// styleParams maps a resolved style onto ordered #text() parameters. The
// order is fixed (size, weight, style, fill, font) so output stays stable
// across runs regardless of how the definition listed the attributes.
func styleParams(s *ir.Style) []string {
	if s.IsZero() {
		return nil
	}
	var params []string
	if s.Size != "" {
		params = append(params, "size: "+s.Size)
	}
	if s.Weight != "" {
		params = append(params, "weight: "+weightValue(s.Weight))
	}
	if s.Slant != "" {
		params = append(params, "style: "+strconv.Quote(s.Slant))
	}
	if s.Color != "" {
		params = append(params, "fill: "+colorValue(s.Color))
	}
	if s.Family != "" {
		params = append(params, "font: "+strconv.Quote(s.Family))
	}
	return params
}

// styledFragment wraps an already-escaped markup fragment in #text() and
// #align() calls as the style requires. A nil or empty style returns the
// fragment unchanged.
func styledFragment(fragment string, s *ir.Style) string {
	if s.IsZero() {
		return fragment
	}
	out := fragment
	if params := styleParams(s); len(params) > 0 {
		out = "#text(" + strings.Join(params, ", ") + ")[" + fragment + "]"
	}
	if s.Align != "" {
		out = "#align(" + s.Align + ")[" + out + "]"
	}
	return out
}

func weightValue(w string) string {
	if fontWeights[w] {
		return strconv.Quote(w)
	}
	if _, err := strconv.Atoi(w); err == nil {
		return w
	}
	return strconv.Quote(w)
}

// colorValue turns hex color notation into a Typst rgb() call. Named colors
// and anything else pass through untouched, relying on Typst's own
// predefined color identifiers.
func colorValue(c string) string {
	if strings.HasPrefix(c, "#") {
		return fmt.Sprintf("rgb(%q)", c)
	}
	return c
}
