package compile

import (
	"github.com/folio-reports/folio/pkg/errors"
	"github.com/folio-reports/folio/pkg/ir"
	"github.com/folio-reports/folio/pkg/layout"
)

// Table-specific property fallbacks. Grids deliberately have none: an absent
// grid property stays absent and inherits from the surrounding document.
const (
	defaultTableStroke = "1pt"
	defaultTableInset  = "5pt"
)

// Document compiles every stand-alone layout of a definition, in order.
// The first error anywhere aborts the whole document.
func Document(def *layout.Definition) ([]ir.Node, error) {
	nodes := make([]ir.Node, 0, len(def.Layouts))
	for _, item := range def.Layouts {
		node, err := Layout(item)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Layout compiles a single declarative layout into its IR node.
func Layout(item layout.Item) (ir.Node, error) {
	kind := item.Kind()
	if err := errors.ValidateLayoutKind(kind); err != nil {
		return nil, err
	}

	switch kind {
	case "grid", "table":
		return compileContainer(item, kind)
	default:
		return compileStack(item)
	}
}

// compileContainer handles the two tabular kinds, which differ only in their
// header/footer bands and property fallbacks.
func compileContainer(m map[string]any, kind string) (ir.Node, error) {
	columns, err := normalizeTracks(m["columns"], "columns")
	if err != nil {
		return nil, err
	}
	rows, err := normalizeTracks(m["rows"], "rows")
	if err != nil {
		return nil, err
	}

	children, err := compileChildren(m["children"])
	if err != nil {
		return nil, err
	}

	lines, err := lowerLines(m["lines"])
	if err != nil {
		return nil, err
	}

	props := containerProps(m, kind)

	if kind == "grid" {
		return &ir.Grid{
			Columns:  columns,
			Rows:     rows,
			Props:    props,
			Children: children,
			Lines:    lines,
		}, nil
	}

	headers, err := lowerBands(m["headers"], true)
	if err != nil {
		return nil, err
	}
	footers, err := lowerBands(m["footers"], false)
	if err != nil {
		return nil, err
	}

	return &ir.Table{
		Columns:  columns,
		Rows:     rows,
		Props:    props,
		Headers:  headers,
		Children: children,
		Footers:  footers,
		Lines:    lines,
	}, nil
}

// compileChildren transforms container children in the fixed order required
// for visual correctness: explicit rows first (each assigned its positional
// index), then loose cells, then bare content items wrapped into synthetic
// single-content cells.
func compileChildren(v any) ([]ir.Child, error) {
	items, ok := asList(v)
	if !ok {
		return nil, nil
	}

	var rows, cells, contents []any
	for _, item := range items {
		switch {
		case hasKey(item, "cells"):
			rows = append(rows, item)
		case isContentShaped(item):
			contents = append(contents, item)
		default:
			cells = append(cells, item)
		}
	}

	var children []ir.Child
	for i, item := range rows {
		m, _ := asMap(item)
		row, err := lowerRow(m, i)
		if err != nil {
			return nil, err
		}
		children = append(children, &row)
	}
	for _, item := range cells {
		m, ok := asMap(item)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownElement, "unknown element type: %v", item)
		}
		cell, err := lowerCell(m)
		if err != nil {
			return nil, err
		}
		children = append(children, &cell)
	}
	for _, item := range contents {
		cell, err := lowerCellish(item)
		if err != nil {
			return nil, err
		}
		children = append(children, &cell)
	}

	return children, nil
}

// compileStack builds a directional stack. Its children are always
// single-content cells created here; stacks have no authored rows or cells.
func compileStack(m map[string]any) (ir.Node, error) {
	stack := &ir.Stack{Direction: "ttb"}
	if dir, ok := m["direction"].(string); ok && dir != "" {
		stack.Direction = dir
	}
	if spacing, ok := propValue(m["spacing"]); ok {
		stack.Spacing = spacing
	}

	items, _ := asList(m["children"])
	for _, item := range items {
		content, err := lowerContent(item)
		if err != nil {
			return nil, err
		}
		stack.Cells = append(stack.Cells, ir.Cell{
			Colspan: 1,
			Rowspan: 1,
			Content: []ir.Content{content},
		})
	}

	return stack, nil
}

// containerProps assembles the final container properties in canonical
// order. A column- or row-specific gutter suppresses the general gutter
// entirely; the two are never merged. Tables receive fallback stroke and
// inset when not explicitly set.
func containerProps(m map[string]any, kind string) []ir.Prop {
	var props []ir.Prop

	colGutter, hasColGutter := propValue(m["column_gutter"])
	rowGutter, hasRowGutter := propValue(m["row_gutter"])
	if hasColGutter {
		props = append(props, ir.Prop{Name: "column-gutter", Value: colGutter})
	}
	if hasRowGutter {
		props = append(props, ir.Prop{Name: "row-gutter", Value: rowGutter})
	}
	if !hasColGutter && !hasRowGutter {
		if gutter, ok := propValue(m["gutter"]); ok {
			props = append(props, ir.Prop{Name: "gutter", Value: gutter})
		}
	}

	if align, ok := propValue(m["align"]); ok {
		props = append(props, ir.Prop{Name: "align", Value: align})
	}

	if inset, ok := propValue(m["inset"]); ok {
		props = append(props, ir.Prop{Name: "inset", Value: inset})
	} else if kind == "table" {
		props = append(props, ir.Prop{Name: "inset", Value: defaultTableInset})
	}

	if fill, ok := propValue(m["fill"]); ok {
		props = append(props, ir.Prop{Name: "fill", Value: fill})
	}

	if stroke, ok := propValue(m["stroke"]); ok {
		props = append(props, ir.Prop{Name: "stroke", Value: stroke})
	} else if kind == "table" {
		props = append(props, ir.Prop{Name: "stroke", Value: defaultTableStroke})
	}

	return props
}

// hasKey reports whether item is a map carrying the given key.
func hasKey(item any, key string) bool {
	m, ok := asMap(item)
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}
