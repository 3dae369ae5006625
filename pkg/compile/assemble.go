package compile

import (
	"github.com/folio-reports/folio/pkg/errors"
	"github.com/folio-reports/folio/pkg/ir"
)

// lowerCell converts an authored cell map into an IR cell.
// Position defaults to (0,0) and span to (1,1).
func lowerCell(m map[string]any) (ir.Cell, error) {
	cell := ir.Cell{Colspan: 1, Rowspan: 1}

	if pos, ok := asList(m["pos"]); ok && len(pos) == 2 {
		if c, ok := asInt(pos[0]); ok {
			cell.Column = c
		}
		if r, ok := asInt(pos[1]); ok {
			cell.Row = r
		}
	}
	if c, ok := asInt(m["column"]); ok {
		cell.Column = c
	}
	if r, ok := asInt(m["row"]); ok {
		cell.Row = r
	}
	if n, ok := asInt(m["colspan"]); ok && n > 0 {
		cell.Colspan = n
	}
	if n, ok := asInt(m["rowspan"]); ok && n > 0 {
		cell.Rowspan = n
	}

	cell.Props = resolveProps(m, cellPropNames)

	switch content := m["content"].(type) {
	case nil:
	default:
		items, ok := asList(content)
		if !ok {
			// Single content item authored without a list.
			items = []any{content}
		}
		for _, item := range items {
			lowered, err := lowerContent(item)
			if err != nil {
				return ir.Cell{}, err
			}
			cell.Content = append(cell.Content, lowered)
		}
	}

	return cell, nil
}

// lowerRow converts an authored row map into an IR row at the given index.
// The index is positional and independent of any row properties.
func lowerRow(m map[string]any, index int) (ir.Row, error) {
	row := ir.Row{
		Index: index,
		Props: resolveProps(m, rowPropNames),
	}

	cells, _ := asList(m["cells"])
	for _, v := range cells {
		cell, err := lowerCellish(v)
		if err != nil {
			return ir.Row{}, err
		}
		row.Cells = append(row.Cells, cell)
	}

	return row, nil
}

// lowerCellish accepts either a full cell map or a bare content item.
// Bare content is auto-wrapped into a synthetic single-content cell.
func lowerCellish(v any) (ir.Cell, error) {
	if isContentShaped(v) {
		content, err := lowerContent(v)
		if err != nil {
			return ir.Cell{}, err
		}
		return ir.Cell{Colspan: 1, Rowspan: 1, Content: []ir.Content{content}}, nil
	}

	m, ok := asMap(v)
	if !ok {
		return ir.Cell{}, errors.New(errors.ErrCodeUnknownElement, "unknown element type: %v", v)
	}
	return lowerCell(m)
}

// isContentShaped reports whether v is a content item: a plain string, an
// item with a "text" or "source" key, or a nested layout.
func isContentShaped(v any) bool {
	if _, ok := v.(string); ok {
		return true
	}
	m, ok := asMap(v)
	if !ok {
		return false
	}
	if _, ok := m["text"]; ok {
		return true
	}
	if _, ok := m["source"]; ok {
		return true
	}
	switch m["kind"] {
	case "grid", "table", "stack":
		return true
	}
	return false
}

// lowerBands converts a header or footer declaration into IR bands.
// Each band is either a bare list of members or a map carrying repeat/level
// alongside its rows. Bare cells inside a band are wrapped into a synthetic
// one-cell row at their position.
func lowerBands(v any, header bool) ([]ir.Band, error) {
	entries, ok := asList(v)
	if !ok {
		return nil, nil
	}

	bands := make([]ir.Band, 0, len(entries))
	for _, entry := range entries {
		band := ir.Band{Repeat: header}
		if header {
			band.Level = 1
		}

		var members []any
		if list, ok := asList(entry); ok {
			members = list
		} else if m, ok := asMap(entry); ok {
			if repeat, ok := m["repeat"].(bool); ok {
				band.Repeat = repeat
			}
			if level, ok := asInt(m["level"]); ok {
				band.Level = level
			}
			members, _ = asList(m["rows"])
		} else {
			return nil, errors.New(errors.ErrCodeUnknownElement, "unknown element type: %v", entry)
		}

		for i, member := range members {
			row, err := lowerBandRow(member, i)
			if err != nil {
				return nil, err
			}
			band.Rows = append(band.Rows, row)
		}
		bands = append(bands, band)
	}

	return bands, nil
}

// lowerBandRow lowers a band member: a full row keeps its cells, while a
// bare cell becomes a synthetic row at that position.
func lowerBandRow(member any, index int) (ir.Row, error) {
	if m, ok := asMap(member); ok {
		if _, hasCells := m["cells"]; hasCells {
			return lowerRow(m, index)
		}
	}

	cell, err := lowerCellish(member)
	if err != nil {
		return ir.Row{}, err
	}
	return ir.Row{Index: index, Cells: []ir.Cell{cell}}, nil
}

// lowerLines converts separator line declarations into structural trailing
// decorations on the container.
func lowerLines(v any) ([]ir.Line, error) {
	entries, ok := asList(v)
	if !ok {
		return nil, nil
	}

	lines := make([]ir.Line, 0, len(entries))
	for _, entry := range entries {
		m, ok := asMap(entry)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidDefinition, "invalid line declaration: %v", entry)
		}

		line := ir.Line{}
		switch m["axis"] {
		case "h", "horizontal", nil:
			line.Axis = "h"
		case "v", "vertical":
			line.Axis = "v"
		default:
			return nil, errors.New(errors.ErrCodeInvalidDefinition, "invalid line axis: %v", m["axis"])
		}

		if p, ok := asInt(m["position"]); ok {
			line.Position = p
		} else if p, ok := asInt(m["pos"]); ok {
			line.Position = p
		}
		if stroke, ok := propValue(m["stroke"]); ok {
			line.Stroke = stroke
		}
		if s, ok := asInt(m["start"]); ok {
			line.Start = &s
		}
		if e, ok := asInt(m["end"]); ok {
			line.End = &e
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// Property name sets, in canonical emission order.
var (
	cellPropNames = []string{"align", "inset", "fill", "stroke"}
	rowPropNames  = []string{"height", "fill", "stroke", "align", "inset"}
)

// resolveProps collects the named properties from an authored map in
// canonical order, dropping every property whose value is nil.
func resolveProps(m map[string]any, names []string) []ir.Prop {
	var props []ir.Prop
	for _, name := range names {
		if v, ok := propValue(m[name]); ok {
			props = append(props, ir.Prop{Name: propName(name), Value: v})
		}
	}
	return props
}

// propValue renders an authored property value as its canonical token.
// Numbers become point lengths; strings pass through; nil is dropped.
func propValue(v any) (string, bool) {
	switch tv := v.(type) {
	case nil:
		return "", false
	case string:
		return tv, tv != ""
	}
	if n, ok := formatNumber(v); ok {
		return n + "pt", true
	}
	return "", false
}

// propName maps authored snake_case property names to target-syntax names.
func propName(name string) string {
	switch name {
	case "column_gutter":
		return "column-gutter"
	case "row_gutter":
		return "row-gutter"
	}
	return name
}
