package ir

// Node is the closed union of layout node kinds.
// The three implementations are [Grid], [Table], and [Stack].
type Node interface {
	isNode()
}

// Child is the closed union of direct container children.
// A container holds explicit rows and loose cells in authored order.
type Child interface {
	isChild()
}

// Content is the closed union of cell payloads.
// The three implementations are [Label], [Field], and [Nested].
type Content interface {
	isContent()
}

// Prop is a resolved container or cell property, already rendered as a
// target-syntax value (e.g. {"inset", "5pt"}). Props are ordered; identical
// input always produces the identical ordered list.
type Prop struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Grid is a non-repeating tabular container.
// Unlike [Table], a Grid carries no fallback stroke or inset: an absent
// property stays absent and inherits from the surrounding document.
type Grid struct {
	Columns  []string // normalized column track tokens
	Rows     []string // normalized row track tokens
	Props    []Prop
	Children []Child
	Lines    []Line // trailing separator overlays, rendered before the container closes
}

// Table is a tabular container with repeatable header and footer bands and
// kind-specific property defaults (1pt stroke, 5pt inset).
type Table struct {
	Columns  []string
	Rows     []string
	Props    []Prop
	Headers  []Band
	Children []Child
	Footers  []Band
	Lines    []Line
}

// Stack lays its children out along one direction.
// Its children are always synthetic single-content cells created by the
// assembler; stacks have no authored rows.
type Stack struct {
	Direction string // "ltr", "rtl", "ttb", or "btt"
	Spacing   string // e.g. "6pt"; empty means unset
	Cells     []Cell
}

// Row is an ordered run of cells within a container.
// Index is the zero-based position assigned during compilation; it is stable
// regardless of any row properties.
type Row struct {
	Index int
	Props []Prop
	Cells []Cell
}

// Cell is a positioned container slot holding zero or more content nodes.
type Cell struct {
	Column  int
	Row     int
	Colspan int
	Rowspan int
	Props   []Prop
	Content []Content
}

// Band is a repeatable table header or footer block.
type Band struct {
	Repeat bool
	Level  int // header nesting level; zero for footers
	Rows   []Row
}

// Line is a separator overlay drawn across a grid or table.
// Lines are structural trailing decorations on their container: the renderer
// emits them immediately before the closing delimiter.
type Line struct {
	Axis     string `json:"axis"` // "h" for hline, "v" for vline
	Position int    `json:"position"`
	Stroke   string `json:"stroke,omitempty"`
	Start    *int   `json:"start,omitempty"`
	End      *int   `json:"end,omitempty"`
}

// Label is static text content with an optional style.
type Label struct {
	Text  string
	Style *Style
}

// Field is data-bound content resolved against a data context at render time.
// Source holds one key for a direct lookup or several for a nested path.
type Field struct {
	Source   []string
	Format   string // "", "number", "currency", "percent", "date", "datetime"
	Decimals *int
	Style    *Style
}

// Nested wraps a full layout node as cell content, enabling arbitrary
// recursive nesting. A Nested renders purely from its wrapped node and the
// ambient indent level; it never reads the enclosing cell.
type Nested struct {
	Node Node
}

// Style holds independently optional text styling attributes.
// Empty string means unset. A Style with every field empty is semantically
// "no style" and renders as no wrapper at all.
type Style struct {
	Size   string `json:"size,omitempty"`
	Weight string `json:"weight,omitempty"`
	Slant  string `json:"slant,omitempty"`
	Color  string `json:"color,omitempty"`
	Family string `json:"family,omitempty"`
	Align  string `json:"align,omitempty"`
}

// IsZero reports whether every style attribute is unset.
func (s *Style) IsZero() bool {
	if s == nil {
		return true
	}
	return *s == Style{}
}

func (*Grid) isNode()  {}
func (*Table) isNode() {}
func (*Stack) isNode() {}

func (*Row) isChild()  {}
func (*Cell) isChild() {}

func (*Label) isContent()  {}
func (*Field) isContent()  {}
func (*Nested) isContent() {}
