package table

import (
	"fmt"
	"strings"

	"github.com/pkj0421/CIM/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Table
// ─────────────────────────────────────────────────────────────────────────────

// Table is an ordered, uniquely named set of columns over rows of Values.
// Row order is significant and positional indices are always contiguous from
// zero.  Operations that return a *Table never share row storage with the
// receiver, except MapColumn which rewrites a column in place.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// New returns an empty table with the given columns.  Duplicate names fail
// with ErrCodeDuplicateColumn.
func New(columns ...string) (*Table, error) {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateColumn, errors.DefaultMessageForCode(errors.ErrCodeDuplicateColumn)).
				WithDetail("column=" + c)
		}
		t.columns[i] = c
		t.index[c] = i
	}
	return t, nil
}

// MustNew is New that panics on duplicate columns.  Intended for literals in
// tests and fixed schemas.
func MustNew(columns ...string) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromRecords builds a table from string records, parsing each cell with
// Parse.  Every record must have len(columns) cells.
func FromRecords(columns []string, records [][]string) (*Table, error) {
	t, err := New(columns...)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := make([]Value, len(rec))
		for i, cell := range rec {
			row[i] = Parse(cell)
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AppendRow adds one row.  The row must have exactly one Value per column.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) != len(t.columns) {
		return errors.New(errors.ErrCodeRowWidthMismatch, errors.DefaultMessageForCode(errors.ErrCodeRowWidthMismatch)).
			WithDetailf("got %d values for %d columns", len(values), len(t.columns))
	}
	row := make([]Value, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether name is a column of t.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of name.
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, errors.MissingColumn(name)
	}
	return i, nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Cell returns the value at row i in the named column.
func (t *Table) Cell(i int, column string) (Value, error) {
	c, err := t.ColumnIndex(column)
	if err != nil {
		return Missing, err
	}
	return t.rows[i][c], nil
}

// Column returns the values of the named column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	c, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c]
	}
	return out, nil
}

// Project returns a new table holding only the named columns, in the order
// given.
func (t *Table) Project(columns ...string) (*Table, error) {
	pos := make([]int, len(columns))
	for i, c := range columns {
		p, err := t.ColumnIndex(c)
		if err != nil {
			return nil, err
		}
		pos[i] = p
	}
	out, err := New(columns...)
	if err != nil {
		return nil, err
	}
	out.rows = make([][]Value, len(t.rows))
	for r, row := range t.rows {
		nr := make([]Value, len(pos))
		for i, p := range pos {
			nr[i] = row[p]
		}
		out.rows[r] = nr
	}
	return out, nil
}

// Filter returns a new table with the rows for which keep returns true,
// in their original order.
func (t *Table) Filter(keep func(row Row) bool) *Table {
	out := t.emptyLike()
	for i := range t.rows {
		if keep(Row{t: t, i: i}) {
			out.rows = append(out.rows, t.Row(i))
		}
	}
	return out
}

// Slice returns a new table with rows [from, to).
func (t *Table) Slice(from, to int) *Table {
	if from < 0 {
		from = 0
	}
	if to > len(t.rows) {
		to = len(t.rows)
	}
	out := t.emptyLike()
	for i := from; i < to; i++ {
		out.rows = append(out.rows, t.Row(i))
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return t.Slice(0, len(t.rows))
}

// DropColumns returns a new table without the columns for which drop returns
// true.
func (t *Table) DropColumns(drop func(name string) bool) *Table {
	keep := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !drop(c) {
			keep = append(keep, c)
		}
	}
	out, _ := t.Project(keep...)
	return out
}

// DropPlaceholderColumns removes every column whose name starts with
// "Unnamed".
func (t *Table) DropPlaceholderColumns() *Table {
	return t.DropColumns(IsPlaceholderColumn)
}

// MapColumn rewrites the named column in place.
func (t *Table) MapColumn(name string, fn func(i int, v Value) Value) error {
	c, err := t.ColumnIndex(name)
	if err != nil {
		return err
	}
	for i, row := range t.rows {
		row[c] = fn(i, row[c])
	}
	return nil
}

// Each calls fn for every row in order.
func (t *Table) Each(fn func(row Row)) {
	for i := range t.rows {
		fn(Row{t: t, i: i})
	}
}

// Records returns every row as strings, with missing values rendered as "".
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = v.String()
		}
		out[i] = rec
	}
	return out
}

// String renders a short debugging summary.
func (t *Table) String() string {
	return fmt.Sprintf("Table[%d rows × %d cols: %s]", len(t.rows), len(t.columns), strings.Join(t.columns, ", "))
}

func (t *Table) emptyLike() *Table {
	out, _ := New(t.columns...)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Row
// ─────────────────────────────────────────────────────────────────────────────

// Row is a read-only view of one table row.
type Row struct {
	t *Table
	i int
}

// Index returns the row position.
func (r Row) Index() int { return r.i }

// Get returns the value in the named column, or Missing when the column does
// not exist.
func (r Row) Get(column string) Value {
	c, ok := r.t.index[column]
	if !ok {
		return Missing
	}
	return r.t.rows[r.i][c]
}

// At returns the value at column position c.
func (r Row) At(c int) Value { return r.t.rows[r.i][c] }

// Values returns a copy of the row.
func (r Row) Values() []Value { return r.t.Row(r.i) }

// ─────────────────────────────────────────────────────────────────────────────
// Multi-table helpers
// ─────────────────────────────────────────────────────────────────────────────

// SharedColumns returns the columns of a that b also has, in a's order.
func SharedColumns(a, b *Table) []string {
	var out []string
	for _, c := range a.columns {
		if b.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

// Concat stacks tables that have identical column lists.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return New()
	}
	out := tables[0].emptyLike()
	for _, t := range tables {
		if strings.Join(t.columns, "\x00") != strings.Join(out.columns, "\x00") {
			return nil, errors.New(errors.ErrCodeValidation, "concat: column lists differ").
				WithDetailf("%v vs %v", out.columns, t.columns)
		}
		for i := range t.rows {
			out.rows = append(out.rows, t.Row(i))
		}
	}
	return out, nil
}

// rowKey encodes the given column positions of a row into a comparable key.
// Missing and empty present values encode differently.
func rowKey(row []Value, pos []int) string {
	var sb strings.Builder
	for _, p := range pos {
		v := row[p]
		if !v.ok {
			sb.WriteByte(0)
		} else {
			sb.WriteByte(1)
			sb.WriteString(v.s)
		}
		sb.WriteByte(0xff)
	}
	return sb.String()
}

// positions resolves column names to indices.
func (t *Table) positions(columns []string) ([]int, error) {
	pos := make([]int, len(columns))
	for i, c := range columns {
		p, err := t.ColumnIndex(c)
		if err != nil {
			return nil, err
		}
		pos[i] = p
	}
	return pos, nil
}

// KeyCounts returns how often each key over columns occurs.
func (t *Table) KeyCounts(columns []string) (map[string]int, error) {
	pos, err := t.positions(columns)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(t.rows))
	for _, row := range t.rows {
		counts[rowKey(row, pos)]++
	}
	return counts, nil
}

// KeepUniqueKeys returns the rows of t whose key over columns occurs exactly
// once within t.
func (t *Table) KeepUniqueKeys(columns []string) (*Table, error) {
	counts, err := t.KeyCounts(columns)
	if err != nil {
		return nil, err
	}
	pos, _ := t.positions(columns)
	return t.Filter(func(r Row) bool {
		return counts[rowKey(t.rows[r.i], pos)] == 1
	}), nil
}

//Personal.AI order the ending
