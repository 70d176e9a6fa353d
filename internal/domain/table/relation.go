package table

import (
	"strings"

	"github.com/pkj0421/CIM/pkg/errors"
)

// Relation is a relational operator used to select rows.
type Relation int

const (
	Eq Relation = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

var relationText = [...]string{
	Eq: "==",
	Ne: "!=",
	Lt: "<",
	Le: "<=",
	Gt: ">",
	Ge: ">=",
}

// Relations lists every supported operator in display order.
func Relations() []Relation {
	return []Relation{Eq, Ne, Lt, Le, Gt, Ge}
}

// ParseRelation converts operator text to a Relation.  Anything outside the
// six supported operators fails with ErrCodeInvalidRelation.
func ParseRelation(s string) (Relation, error) {
	s = strings.TrimSpace(s)
	for r, text := range relationText {
		if s == text {
			return Relation(r), nil
		}
	}
	return 0, errors.InvalidRelation(s)
}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationText) {
		return "?"
	}
	return relationText[r]
}

// Holds reports whether "cell r operand" is true.  Values compare numerically
// when both parse as finite numbers and lexically otherwise.  A missing cell
// only satisfies Ne.
func (r Relation) Holds(cell, operand Value) bool {
	if cell.IsMissing() || operand.IsMissing() {
		return r == Ne && !(cell.IsMissing() && operand.IsMissing())
	}
	c := Compare(cell, operand)
	switch r {
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

// Where returns the rows of t whose value in column satisfies r against
// operand.
func (t *Table) Where(column string, r Relation, operand Value) (*Table, error) {
	c, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	return t.Filter(func(row Row) bool {
		return r.Holds(row.At(c), operand)
	}), nil
}

//Personal.AI order the ending
