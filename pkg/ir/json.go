package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The union types serialize through explicit envelope structs with a "kind"
// discriminator. import → export → re-import produces identical trees.

type jsonDocument struct {
	Layouts []jsonNode `json:"layouts"`
}

type jsonNode struct {
	Kind      string      `json:"kind"`
	Columns   []string    `json:"columns,omitempty"`
	Rows      []string    `json:"rows,omitempty"`
	Props     []Prop      `json:"props,omitempty"`
	Children  []jsonChild `json:"children,omitempty"`
	Headers   []jsonBand  `json:"headers,omitempty"`
	Footers   []jsonBand  `json:"footers,omitempty"`
	Lines     []Line      `json:"lines,omitempty"`
	Direction string      `json:"direction,omitempty"`
	Spacing   string      `json:"spacing,omitempty"`
	Cells     []jsonCell  `json:"cells,omitempty"`
}

type jsonChild struct {
	Kind string    `json:"kind"`
	Row  *jsonRow  `json:"row,omitempty"`
	Cell *jsonCell `json:"cell,omitempty"`
}

type jsonRow struct {
	Index int        `json:"index"`
	Props []Prop     `json:"props,omitempty"`
	Cells []jsonCell `json:"cells,omitempty"`
}

type jsonCell struct {
	Column  int           `json:"column"`
	Row     int           `json:"row"`
	Colspan int           `json:"colspan"`
	Rowspan int           `json:"rowspan"`
	Props   []Prop        `json:"props,omitempty"`
	Content []jsonContent `json:"content,omitempty"`
}

type jsonBand struct {
	Repeat bool      `json:"repeat"`
	Level  int       `json:"level,omitempty"`
	Rows   []jsonRow `json:"rows,omitempty"`
}

type jsonContent struct {
	Kind     string    `json:"kind"`
	Text     string    `json:"text,omitempty"`
	Source   []string  `json:"source,omitempty"`
	Format   string    `json:"format,omitempty"`
	Decimals *int      `json:"decimals,omitempty"`
	Style    *Style    `json:"style,omitempty"`
	Layout   *jsonNode `json:"layout,omitempty"`
}

// Marshal encodes a compiled document (one node per stand-alone layout) as
// indented JSON. The output can be re-imported with [Unmarshal].
func Marshal(layouts []Node) ([]byte, error) {
	doc := jsonDocument{Layouts: make([]jsonNode, len(layouts))}
	for i, n := range layouts {
		doc.Layouts[i] = encodeNode(n)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a document previously produced by [Marshal].
func Unmarshal(data []byte) ([]Node, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	layouts := make([]Node, len(doc.Layouts))
	for i, jn := range doc.Layouts {
		n, err := decodeNode(jn)
		if err != nil {
			return nil, err
		}
		layouts[i] = n
	}
	return layouts, nil
}

// MarshalNode encodes a single layout node.
func MarshalNode(n Node) ([]byte, error) {
	data, err := json.MarshalIndent(encodeNode(n), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// UnmarshalNode decodes a single layout node.
func UnmarshalNode(data []byte) (Node, error) {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return decodeNode(jn)
}

func encodeNode(n Node) jsonNode {
	switch v := n.(type) {
	case *Grid:
		return jsonNode{
			Kind:     "grid",
			Columns:  v.Columns,
			Rows:     v.Rows,
			Props:    v.Props,
			Children: encodeChildren(v.Children),
			Lines:    v.Lines,
		}
	case *Table:
		return jsonNode{
			Kind:     "table",
			Columns:  v.Columns,
			Rows:     v.Rows,
			Props:    v.Props,
			Headers:  encodeBands(v.Headers),
			Children: encodeChildren(v.Children),
			Footers:  encodeBands(v.Footers),
			Lines:    v.Lines,
		}
	case *Stack:
		return jsonNode{
			Kind:      "stack",
			Direction: v.Direction,
			Spacing:   v.Spacing,
			Cells:     encodeCells(v.Cells),
		}
	}
	// Unreachable with a well-formed tree; the union is closed.
	return jsonNode{}
}

func decodeNode(jn jsonNode) (Node, error) {
	switch jn.Kind {
	case "grid":
		children, err := decodeChildren(jn.Children)
		if err != nil {
			return nil, err
		}
		return &Grid{
			Columns:  jn.Columns,
			Rows:     jn.Rows,
			Props:    jn.Props,
			Children: children,
			Lines:    jn.Lines,
		}, nil
	case "table":
		children, err := decodeChildren(jn.Children)
		if err != nil {
			return nil, err
		}
		headers, err := decodeBands(jn.Headers)
		if err != nil {
			return nil, err
		}
		footers, err := decodeBands(jn.Footers)
		if err != nil {
			return nil, err
		}
		return &Table{
			Columns:  jn.Columns,
			Rows:     jn.Rows,
			Props:    jn.Props,
			Headers:  headers,
			Children: children,
			Footers:  footers,
			Lines:    jn.Lines,
		}, nil
	case "stack":
		cells, err := decodeCells(jn.Cells)
		if err != nil {
			return nil, err
		}
		return &Stack{
			Direction: jn.Direction,
			Spacing:   jn.Spacing,
			Cells:     cells,
		}, nil
	}
	return nil, fmt.Errorf("decode: unknown node kind %q", jn.Kind)
}

func encodeChildren(children []Child) []jsonChild {
	if len(children) == 0 {
		return nil
	}
	out := make([]jsonChild, len(children))
	for i, c := range children {
		switch v := c.(type) {
		case *Row:
			row := encodeRow(*v)
			out[i] = jsonChild{Kind: "row", Row: &row}
		case *Cell:
			cell := encodeCell(*v)
			out[i] = jsonChild{Kind: "cell", Cell: &cell}
		}
	}
	return out
}

func decodeChildren(children []jsonChild) ([]Child, error) {
	if len(children) == 0 {
		return nil, nil
	}
	out := make([]Child, len(children))
	for i, jc := range children {
		switch jc.Kind {
		case "row":
			if jc.Row == nil {
				return nil, fmt.Errorf("decode: row child missing body")
			}
			row, err := decodeRow(*jc.Row)
			if err != nil {
				return nil, err
			}
			out[i] = &row
		case "cell":
			if jc.Cell == nil {
				return nil, fmt.Errorf("decode: cell child missing body")
			}
			cell, err := decodeCell(*jc.Cell)
			if err != nil {
				return nil, err
			}
			out[i] = &cell
		default:
			return nil, fmt.Errorf("decode: unknown child kind %q", jc.Kind)
		}
	}
	return out, nil
}

func encodeRow(r Row) jsonRow {
	return jsonRow{Index: r.Index, Props: r.Props, Cells: encodeCells(r.Cells)}
}

func decodeRow(jr jsonRow) (Row, error) {
	cells, err := decodeCells(jr.Cells)
	if err != nil {
		return Row{}, err
	}
	return Row{Index: jr.Index, Props: jr.Props, Cells: cells}, nil
}

func encodeCells(cells []Cell) []jsonCell {
	if len(cells) == 0 {
		return nil
	}
	out := make([]jsonCell, len(cells))
	for i, c := range cells {
		out[i] = encodeCell(c)
	}
	return out
}

func decodeCells(cells []jsonCell) ([]Cell, error) {
	if len(cells) == 0 {
		return nil, nil
	}
	out := make([]Cell, len(cells))
	for i, jc := range cells {
		c, err := decodeCell(jc)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func encodeCell(c Cell) jsonCell {
	jc := jsonCell{
		Column:  c.Column,
		Row:     c.Row,
		Colspan: c.Colspan,
		Rowspan: c.Rowspan,
		Props:   c.Props,
	}
	for _, content := range c.Content {
		jc.Content = append(jc.Content, encodeContent(content))
	}
	return jc
}

func decodeCell(jc jsonCell) (Cell, error) {
	c := Cell{
		Column:  jc.Column,
		Row:     jc.Row,
		Colspan: jc.Colspan,
		Rowspan: jc.Rowspan,
		Props:   jc.Props,
	}
	for _, content := range jc.Content {
		decoded, err := decodeContent(content)
		if err != nil {
			return Cell{}, err
		}
		c.Content = append(c.Content, decoded)
	}
	return c, nil
}

func encodeBands(bands []Band) []jsonBand {
	if len(bands) == 0 {
		return nil
	}
	out := make([]jsonBand, len(bands))
	for i, b := range bands {
		jb := jsonBand{Repeat: b.Repeat, Level: b.Level}
		for _, r := range b.Rows {
			jb.Rows = append(jb.Rows, encodeRow(r))
		}
		out[i] = jb
	}
	return out
}

func decodeBands(bands []jsonBand) ([]Band, error) {
	if len(bands) == 0 {
		return nil, nil
	}
	out := make([]Band, len(bands))
	for i, jb := range bands {
		b := Band{Repeat: jb.Repeat, Level: jb.Level}
		for _, jr := range jb.Rows {
			row, err := decodeRow(jr)
			if err != nil {
				return nil, err
			}
			b.Rows = append(b.Rows, row)
		}
		out[i] = b
	}
	return out, nil
}

func encodeContent(c Content) jsonContent {
	switch v := c.(type) {
	case *Label:
		return jsonContent{Kind: "label", Text: v.Text, Style: v.Style}
	case *Field:
		return jsonContent{
			Kind:     "field",
			Source:   v.Source,
			Format:   v.Format,
			Decimals: v.Decimals,
			Style:    v.Style,
		}
	case *Nested:
		inner := encodeNode(v.Node)
		return jsonContent{Kind: "layout", Layout: &inner}
	}
	return jsonContent{}
}

func decodeContent(jc jsonContent) (Content, error) {
	switch jc.Kind {
	case "label":
		return &Label{Text: jc.Text, Style: jc.Style}, nil
	case "field":
		return &Field{
			Source:   jc.Source,
			Format:   jc.Format,
			Decimals: jc.Decimals,
			Style:    jc.Style,
		}, nil
	case "layout":
		if jc.Layout == nil {
			return nil, fmt.Errorf("decode: layout content missing body")
		}
		node, err := decodeNode(*jc.Layout)
		if err != nil {
			return nil, err
		}
		return &Nested{Node: node}, nil
	}
	return nil, fmt.Errorf("decode: unknown content kind %q", jc.Kind)
}
