package op

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/rosed"
	"github.com/npillmayer/opgen/op/sparse"
)

// Relation is a precedence relation between two terminals.
type Relation int8

// Relations for precedence tables. NoRelation marks pairs which have not been
// declared; they are incomparable.
const (
	NoRelation Relation = iota
	LowerThan           // a <· b : shift
	EqualThan           // a ≐ b  : shift, a and b are part of the same handle
	HigherThan          // a ·> b : reduce
)

func (r Relation) String() string {
	switch r {
	case LowerThan:
		return "<"
	case EqualThan:
		return "="
	case HigherThan:
		return ">"
	}
	return " "
}

// ParseRelation converts one of "<", "=", ">" to a relation.
func ParseRelation(s string) (Relation, error) {
	switch s {
	case "<":
		return LowerThan, nil
	case "=":
		return EqualThan, nil
	case ">":
		return HigherThan, nil
	}
	return NoRelation, fmt.Errorf("unknown precedence relation %q", s)
}

// === Precedence Table ======================================================

// Table is a precedence table. It maps ordered pairs of terminals (including
// the end marker) to relations. Tables are sparse: pairs never declared are
// absent and are reported as not comparable.
type Table struct {
	matrix *sparse.IntMatrix
	index  map[Symbol]int // row/column of a symbol
	syms   []Symbol       // symbol for a row/column
}

func newTable() *Table {
	return &Table{
		matrix: sparse.NewIntMatrix(0, 0, sparse.DefaultNullValue),
		index:  make(map[Symbol]int),
	}
}

func (t *Table) inx(s Symbol) int {
	if i, ok := t.index[s]; ok {
		return i
	}
	i := len(t.syms)
	t.index[s] = i
	t.syms = append(t.syms, s)
	return i
}

// set records a relation, overwriting a previous declaration for (a, b).
func (t *Table) set(a, b Symbol, r Relation) {
	t.matrix.Set(t.inx(a), t.inx(b), int32(r))
}

// Relation returns the declared relation for (a, b). If the pair is absent
// from the table, false is returned.
func (t *Table) Relation(a, b Symbol) (Relation, bool) {
	i, ok := t.index[a]
	if !ok {
		return NoRelation, false
	}
	j, ok := t.index[b]
	if !ok {
		return NoRelation, false
	}
	v := t.matrix.Value(i, j)
	if v == t.matrix.NullValue() {
		return NoRelation, false
	}
	return Relation(v), true
}

// Size returns the number of declared pairs.
func (t *Table) Size() int {
	return t.matrix.ValueCount()
}

// Each calls f for every declared pair, ordered by first appearance of the
// symbols in declarations.
func (t *Table) Each(f func(a, b Symbol, r Relation)) {
	t.matrix.Each(func(i, j int, v int32) {
		f(t.syms[i], t.syms[j], Relation(v))
	})
}

func (t *Table) copy() *Table {
	c := &Table{
		matrix: t.matrix.Copy(),
		index:  make(map[Symbol]int, len(t.index)),
		syms:   append([]Symbol(nil), t.syms...),
	}
	for s, i := range t.index {
		c.index[s] = i
	}
	return c
}

// tableString renders the table for the given row and column symbols.
func (t *Table) tableString(syms []Symbol) string {
	data := make([][]string, 0, len(syms)+1)
	header := []string{""}
	for _, b := range syms {
		header = append(header, b.String())
	}
	data = append(data, header)
	for _, a := range syms {
		row := []string{a.String()}
		for _, b := range syms {
			r, _ := t.Relation(a, b)
			row = append(row, r.String())
		}
		data = append(data, row)
	}
	return renderTable(data, 80, true)
}

// renderTable lays out data as a text table, with the first row as a header
// separated by a horizontal rule. Header cells keep their case, as terminals and
// non-terminals differ by case only.
func renderTable(data [][]string, width int, borders bool) string {
	out := rosed.
		Edit("").
		InsertTableOpts(0, data, width, rosed.Options{
			TableBorders:             borders,
			NoTrailingLineSeparators: true,
		}).
		String()
	lines := strings.Split(out, "\n")
	header := 0 // line index of the header row
	if borders {
		header = 1
	}
	if len(data) < 2 || len(lines) <= header+1 {
		return out
	}
	var rule string
	if borders {
		rule = lines[0]
	} else {
		w := 0
		for _, l := range lines {
			if n := utf8.RuneCountInString(l); n > w {
				w = n
			}
		}
		rule = strings.Repeat("-", w)
	}
	ruled := make([]string, 0, len(lines)+1)
	ruled = append(ruled, lines[:header+1]...)
	ruled = append(ruled, rule)
	ruled = append(ruled, lines[header+1:]...)
	return strings.Join(ruled, "\n")
}
