package typst

import (
	"strconv"
	"strings"

	"github.com/folio-reports/folio/pkg/ir"
)

// DocumentOptions hold the document-wide settings emitted as a preamble
// ahead of the first layout. Empty fields are simply omitted.
type DocumentOptions struct {
	PageSize   string
	Margin     string
	FontFamily string
	FontSize   string
}

// OptionsFromMap extracts document options from a definition's options
// table. Numeric margin and font size values are read as points.
func OptionsFromMap(m map[string]any) DocumentOptions {
	var o DocumentOptions
	if v, ok := m["page_size"].(string); ok {
		o.PageSize = v
	}
	o.Margin = lengthOption(m["margin"])
	if v, ok := m["font_family"].(string); ok {
		o.FontFamily = v
	}
	o.FontSize = lengthOption(m["font_size"])
	return o
}

func lengthOption(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		if f, ok := toFloat(t); ok {
			return strconv.FormatFloat(f, 'f', -1, 64) + "pt"
		}
		return ""
	}
}

// Preamble renders the #set rules for the document options. All-empty
// options yield an empty preamble.
func Preamble(o DocumentOptions) string {
	var rules []string

	var page []string
	if o.PageSize != "" {
		page = append(page, "paper: "+strconv.Quote(o.PageSize))
	}
	if o.Margin != "" {
		page = append(page, "margin: "+o.Margin)
	}
	if len(page) > 0 {
		rules = append(rules, "#set page("+strings.Join(page, ", ")+")")
	}

	var text []string
	if o.FontFamily != "" {
		text = append(text, "font: "+strconv.Quote(o.FontFamily))
	}
	if o.FontSize != "" {
		text = append(text, "size: "+o.FontSize)
	}
	if len(text) > 0 {
		rules = append(rules, "#set text("+strings.Join(text, ", ")+")")
	}

	return strings.Join(rules, "\n")
}

// RenderDocument renders a full document: the preamble (when any option is
// set) followed by every layout, separated by blank lines.
func RenderDocument(layouts []ir.Node, data map[string]any, opts DocumentOptions) string {
	var blocks []string
	if p := Preamble(opts); p != "" {
		blocks = append(blocks, p)
	}
	for _, n := range layouts {
		blocks = append(blocks, Render(n, data))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
