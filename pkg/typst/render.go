package typst

import (
	"strconv"
	"strings"

	"github.com/folio-reports/folio/pkg/ir"
)

const indentUnit = "  "

// Render produces the markup for a single compiled layout tree. The root
// container is emitted in markup context (with a leading #); nested
// containers are emitted as plain calls because they already sit inside
// code context.
func Render(n ir.Node, data map[string]any) string {
	r := &renderer{data: data}
	r.writeNode(n, 0, false)
	return r.b.String()
}

type renderer struct {
	data map[string]any
	b    strings.Builder
}

func (r *renderer) writeNode(n ir.Node, level int, code bool) {
	switch t := n.(type) {
	case *ir.Grid:
		r.openCall("grid", level, code)
		r.writeTracks(t.Columns, rowTracks(t.Rows, t.Children, 0), level+1)
		r.writeProps(t.Props, level+1)
		r.writeChildren(t.Children, "grid", level+1)
		r.writeLines(t.Lines, "grid", level+1)
		r.closeCall(level)
	case *ir.Table:
		r.openCall("table", level, code)
		r.writeTracks(t.Columns, rowTracks(t.Rows, t.Children, bandRowCount(t.Headers)), level+1)
		r.writeProps(t.Props, level+1)
		for _, band := range t.Headers {
			r.writeBand(band, "header", level+1)
		}
		r.writeChildren(t.Children, "table", level+1)
		for _, band := range t.Footers {
			r.writeBand(band, "footer", level+1)
		}
		r.writeLines(t.Lines, "table", level+1)
		r.closeCall(level)
	case *ir.Stack:
		r.openCall("stack", level, code)
		if t.Direction != "" {
			r.line(level+1, "dir: "+t.Direction+",")
		}
		if t.Spacing != "" {
			r.line(level+1, "spacing: "+t.Spacing+",")
		}
		for _, c := range t.Cells {
			r.writeStackCell(c, level+1)
		}
		r.closeCall(level)
	}
}

func (r *renderer) openCall(name string, level int, code bool) {
	r.b.WriteString(indent(level))
	if !code {
		r.b.WriteString("#")
	}
	r.b.WriteString(name + "(\n")
}

func (r *renderer) closeCall(level int) {
	r.b.WriteString(indent(level) + ")")
}

func (r *renderer) line(level int, s string) {
	r.b.WriteString(indent(level) + s + "\n")
}

func (r *renderer) writeTracks(columns, rows []string, level int) {
	if len(columns) > 0 {
		r.line(level, "columns: "+trackTuple(columns)+",")
	}
	if len(rows) > 0 {
		r.line(level, "rows: "+trackTuple(rows)+",")
	}
}

// rowTracks merges per-row height properties into the row track list: a row
// carrying a height claims the track slot at its index, and intermediate
// slots pad with auto. Table slots shift past the header rows, which Typst
// counts in the track list.
func rowTracks(rows []string, children []ir.Child, offset int) []string {
	out := rows
	copied := false
	for _, child := range children {
		row, ok := child.(*ir.Row)
		if !ok {
			continue
		}
		height := propByName(row.Props, "height")
		if height == "" {
			continue
		}
		if !copied {
			out = append([]string(nil), rows...)
			copied = true
		}
		slot := offset + row.Index
		for len(out) <= slot {
			out = append(out, "auto")
		}
		out[slot] = height
	}
	return out
}

func bandRowCount(bands []ir.Band) int {
	n := 0
	for _, b := range bands {
		n += len(b.Rows)
	}
	return n
}

func propByName(props []ir.Prop, name string) string {
	for _, p := range props {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// trackTuple renders a track list as a Typst array. A single-element array
// keeps its trailing comma so Typst reads it as an array, not a
// parenthesized scalar.
func trackTuple(tracks []string) string {
	if len(tracks) == 1 {
		return "(" + tracks[0] + ",)"
	}
	return "(" + strings.Join(tracks, ", ") + ")"
}

func (r *renderer) writeProps(props []ir.Prop, level int) {
	for _, p := range props {
		r.line(level, p.Name+": "+propOut(p)+",")
	}
}

// propOut converts a stored property value into target syntax. Fill and
// stroke values may carry hex colors, which Typst only accepts wrapped in
// rgb().
func propOut(p ir.Prop) string {
	if p.Name == "fill" || p.Name == "stroke" {
		return colorValue(p.Value)
	}
	return p.Value
}

func (r *renderer) writeChildren(children []ir.Child, kind string, level int) {
	for _, child := range children {
		switch c := child.(type) {
		case *ir.Row:
			r.writeRow(c, kind, level)
		case *ir.Cell:
			r.writeChildCell(*c, nil, kind, level)
		}
	}
}

// writeRow emits a row's cells on a single line when every fragment is
// short enough to stay one line, and one cell per line otherwise (nested
// layouts force the multi-line form).
func (r *renderer) writeRow(row *ir.Row, kind string, level int) {
	if len(row.Cells) == 0 {
		return
	}
	frags := make([]string, len(row.Cells))
	multi := false
	for i, c := range row.Cells {
		frags[i] = r.cellFragment(c, row.Props, kind, level)
		if strings.Contains(frags[i], "\n") {
			multi = true
		}
	}
	if !multi {
		r.line(level, strings.Join(frags, ", ")+",")
		return
	}
	for _, f := range frags {
		r.line(level, f+",")
	}
}

// writeChildCell emits a loose cell. A bare nested layout with no cell
// parameters is emitted as a direct call argument instead of being wrapped
// in a content block.
func (r *renderer) writeChildCell(c ir.Cell, rowProps []ir.Prop, kind string, level int) {
	if len(c.Content) == 1 && len(cellParams(c, rowProps)) == 0 {
		if nested, ok := c.Content[0].(*ir.Nested); ok {
			r.writeNode(nested.Node, level, true)
			r.b.WriteString(",\n")
			return
		}
	}
	r.line(level, r.cellFragment(c, rowProps, kind, level)+",")
}

// cellFragment renders one cell without its trailing comma. Cells with no
// position, span, or properties collapse to a bare content block; everything
// else goes through table.cell / grid.cell.
func (r *renderer) cellFragment(c ir.Cell, rowProps []ir.Prop, kind string, level int) string {
	frags := make([]string, len(c.Content))
	for i, content := range c.Content {
		frags[i] = r.contentFragment(content, level)
	}
	body := "[" + strings.Join(frags, " ") + "]"

	params := cellParams(c, rowProps)
	if len(params) == 0 {
		return body
	}
	return kind + ".cell(" + strings.Join(params, ", ") + ")" + body
}

// cellParams builds the ordered parameter list for a cell call: position,
// then spans, then the cell's own properties, then row properties the cell
// did not override. Row height never cascades onto cells; it is lowered
// into the container's row tracks instead.
func cellParams(c ir.Cell, rowProps []ir.Prop) []string {
	var params []string
	if c.Column > 0 {
		params = append(params, "x: "+strconv.Itoa(c.Column))
	}
	if c.Row > 0 {
		params = append(params, "y: "+strconv.Itoa(c.Row))
	}
	if c.Colspan > 1 {
		params = append(params, "colspan: "+strconv.Itoa(c.Colspan))
	}
	if c.Rowspan > 1 {
		params = append(params, "rowspan: "+strconv.Itoa(c.Rowspan))
	}

	seen := make(map[string]bool, len(c.Props))
	for _, p := range c.Props {
		seen[p.Name] = true
		params = append(params, p.Name+": "+propOut(p))
	}
	for _, p := range rowProps {
		if p.Name == "height" || seen[p.Name] {
			continue
		}
		params = append(params, p.Name+": "+propOut(p))
	}
	return params
}

func (r *renderer) contentFragment(content ir.Content, level int) string {
	switch t := content.(type) {
	case *ir.Label:
		return styledFragment(Escape(t.Text), t.Style)
	case *ir.Field:
		v := Resolve(t.Source, r.data)
		return styledFragment(Escape(FormatValue(v, t.Format, t.Decimals)), t.Style)
	case *ir.Nested:
		return "#" + r.callString(t.Node, level)
	default:
		return "[]"
	}
}

// callString renders a nested container as a code-context call anchored at
// the given level, without the leading indent on its first line so it can
// be embedded mid-line.
func (r *renderer) callString(n ir.Node, level int) string {
	sub := &renderer{data: r.data}
	sub.writeNode(n, level, true)
	return strings.TrimPrefix(sub.b.String(), indent(level))
}

func (r *renderer) writeBand(band ir.Band, which string, level int) {
	r.line(level, "table."+which+"(")
	if !band.Repeat {
		r.line(level+1, "repeat: false,")
	}
	if which == "header" && band.Level > 1 {
		r.line(level+1, "level: "+strconv.Itoa(band.Level)+",")
	}
	for i := range band.Rows {
		r.writeRow(&band.Rows[i], "table", level+1)
	}
	r.line(level, "),")
}

func (r *renderer) writeLines(lines []ir.Line, kind string, level int) {
	for _, l := range lines {
		name, coord := "hline", "y"
		if l.Axis == "v" {
			name, coord = "vline", "x"
		}
		params := []string{coord + ": " + strconv.Itoa(l.Position)}
		if l.Start != nil {
			params = append(params, "start: "+strconv.Itoa(*l.Start))
		}
		if l.End != nil {
			params = append(params, "end: "+strconv.Itoa(*l.End))
		}
		if l.Stroke != "" {
			params = append(params, "stroke: "+colorValue(l.Stroke))
		}
		r.line(level, kind+"."+name+"("+strings.Join(params, ", ")+"),")
	}
}

func (r *renderer) writeStackCell(c ir.Cell, level int) {
	if len(c.Content) == 1 {
		if nested, ok := c.Content[0].(*ir.Nested); ok {
			r.writeNode(nested.Node, level, true)
			r.b.WriteString(",\n")
			return
		}
	}
	frags := make([]string, len(c.Content))
	for i, content := range c.Content {
		frags[i] = r.contentFragment(content, level)
	}
	r.line(level, "["+strings.Join(frags, " ")+"],")
}

func indent(level int) string {
	return strings.Repeat(indentUnit, level)
}
