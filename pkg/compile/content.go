package compile

import (
	"github.com/folio-reports/folio/pkg/errors"
	"github.com/folio-reports/folio/pkg/ir"
)

// lowerContent converts a single authored content item into an IR content
// node. Dispatch is purely on shape: a "text" key makes a label, a "source"
// key makes a field, and a recognized layout kind recurses into a nested
// layout. A plain string is shorthand for an unstyled label.
func lowerContent(item any) (ir.Content, error) {
	if s, ok := item.(string); ok {
		return &ir.Label{Text: s}, nil
	}

	m, ok := asMap(item)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownElement, "unknown element type: %v", item)
	}

	if text, ok := m["text"]; ok {
		s, _ := text.(string)
		return &ir.Label{Text: s, Style: styleFrom(m)}, nil
	}

	if source, ok := m["source"]; ok {
		keys, err := sourceKeys(source)
		if err != nil {
			return nil, err
		}
		field := &ir.Field{
			Source: keys,
			Style:  styleFrom(m),
		}
		if format, ok := m["format"].(string); ok {
			if err := errors.ValidateFormatTag(format); err != nil {
				return nil, err
			}
			field.Format = format
		}
		if d, ok := asInt(m["decimal_places"]); ok {
			field.Decimals = &d
		}
		return field, nil
	}

	switch m["kind"] {
	case "grid", "table", "stack":
		node, err := Layout(m)
		if err != nil {
			return nil, err
		}
		return &ir.Nested{Node: node}, nil
	}

	return nil, errors.New(errors.ErrCodeUnknownElement, "unknown element type: %v", item)
}

// sourceKeys normalizes a field source into an ordered key path.
// A single string is a direct lookup; a list is a nested path.
func sourceKeys(v any) ([]string, error) {
	switch s := v.(type) {
	case string:
		return []string{s}, nil
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, el := range s {
			key, ok := el.(string)
			if !ok {
				return nil, errors.New(errors.ErrCodeUnknownElement, "invalid source key: %v", el)
			}
			out = append(out, key)
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownElement, "invalid field source: %v", v)
}

// styleAttrs is the fixed ordered set of style attribute names inspected on
// a content item and on its nested "style" map.
var styleAttrs = []string{"font_size", "font_weight", "font_style", "color", "font_family", "text_align"}

// styleFrom extracts an optional style from a content item. Flat item-level
// attributes are read first; values in an explicit "style" map take
// precedence. When every attribute is absent the style is nil.
func styleFrom(m map[string]any) *ir.Style {
	var s ir.Style
	found := false

	read := func(src map[string]any) {
		for _, attr := range styleAttrs {
			v, ok := src[attr]
			if !ok || v == nil {
				continue
			}
			if val := styleValue(attr, v); val != "" {
				applyStyleAttr(&s, attr, val)
				found = true
			}
		}
	}

	read(m)
	if nested, ok := asMap(m["style"]); ok {
		read(nested)
	}

	if !found {
		return nil
	}
	return &s
}

// styleValue renders a style attribute value as its canonical token.
// Numeric sizes become point lengths; everything else is stringified.
func styleValue(attr string, v any) string {
	if attr == "font_size" {
		if n, ok := formatNumber(v); ok {
			return n + "pt"
		}
	}
	if s, ok := v.(string); ok {
		return s
	}
	if n, ok := formatNumber(v); ok {
		return n
	}
	return ""
}

// applyStyleAttr assigns a style attribute by its authored name.
func applyStyleAttr(s *ir.Style, attr, val string) {
	switch attr {
	case "font_size":
		s.Size = val
	case "font_weight":
		s.Weight = val
	case "font_style":
		s.Slant = val
	case "color":
		s.Color = val
	case "font_family":
		s.Family = val
	case "text_align":
		s.Align = val
	}
}
