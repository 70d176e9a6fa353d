package table

import (
	"github.com/pkj0421/CIM/pkg/errors"
)

// JoinKind selects which unmatched rows a join keeps.
type JoinKind int

const (
	// InnerJoin keeps only rows whose key appears on both sides.
	InnerJoin JoinKind = iota
	// OuterJoin keeps every row of both sides, padding the missing side.
	OuterJoin
)

// Join performs a natural join of left and right on the given key columns.
//
// Result columns are left's columns followed by right's non-key columns.
// A right non-key column whose name collides with a left column gets a "_y"
// suffix and the left one an "_x" suffix.  Key equality treats missing as
// equal to missing.  Each left row emits one row per matching right row (right
// order), left order preserved; for OuterJoin unmatched left rows are padded
// in place and unmatched right rows follow in their original order.
func Join(left, right *Table, on []string, kind JoinKind) (*Table, error) {
	if len(on) == 0 {
		return nil, errors.New(errors.ErrCodeNoSharedColumns, errors.DefaultMessageForCode(errors.ErrCodeNoSharedColumns))
	}
	lpos, err := left.positions(on)
	if err != nil {
		return nil, err
	}
	rpos, err := right.positions(on)
	if err != nil {
		return nil, err
	}

	isKey := make(map[string]bool, len(on))
	for _, c := range on {
		isKey[c] = true
	}
	var rextra []int
	for i, c := range right.columns {
		if !isKey[c] {
			rextra = append(rextra, i)
		}
	}

	columns := make([]string, 0, len(left.columns)+len(rextra))
	for _, c := range left.columns {
		if !isKey[c] && right.HasColumn(c) {
			columns = append(columns, c+"_x")
			continue
		}
		columns = append(columns, c)
	}
	for _, i := range rextra {
		c := right.columns[i]
		if left.HasColumn(c) {
			c += "_y"
		}
		columns = append(columns, c)
	}
	out, err := New(columns...)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string][]int, len(right.rows))
	for i, row := range right.rows {
		k := rowKey(row, rpos)
		buckets[k] = append(buckets[k], i)
	}

	matched := make([]bool, len(right.rows))
	for _, lrow := range left.rows {
		hits := buckets[rowKey(lrow, lpos)]
		if len(hits) == 0 {
			if kind == OuterJoin {
				nr := make([]Value, len(columns))
				copy(nr, lrow)
				out.rows = append(out.rows, nr)
			}
			continue
		}
		for _, ri := range hits {
			matched[ri] = true
			nr := make([]Value, 0, len(columns))
			nr = append(nr, lrow...)
			for _, c := range rextra {
				nr = append(nr, right.rows[ri][c])
			}
			out.rows = append(out.rows, nr)
		}
	}

	if kind == OuterJoin {
		for ri, rrow := range right.rows {
			if matched[ri] {
				continue
			}
			nr := make([]Value, len(columns))
			for k, lp := range lpos {
				nr[lp] = rrow[rpos[k]]
			}
			for j, c := range rextra {
				nr[len(left.columns)+j] = rrow[c]
			}
			out.rows = append(out.rows, nr)
		}
	}
	return out, nil
}

//Personal.AI order the ending
