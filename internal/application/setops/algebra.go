// Package setops performs set algebra between two compound tables.
//
// Every operation works on the columns both tables share and returns a new
// table; the bound left table is never modified.
package setops

import (
	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/prometheus"
	"github.com/pkj0421/CIM/pkg/errors"
)

// Operation names, as recorded in logs and metrics.
const (
	OpIntersection = "intersection"
	OpSub          = "sub"
	OpUnion        = "union"
	OpAdd          = "add"
	OpRows         = "rows"
	OpColumns      = "columns"
)

// Option configures an Algebra.
type Option func(*Algebra)

// WithLogger sets the logger.  The default is the process logger.
func WithLogger(l logging.Logger) Option {
	return func(a *Algebra) { a.logger = l }
}

// WithMetrics counts operations on m.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(a *Algebra) { a.metrics = m }
}

// Algebra binds the left operand of every operation.
type Algebra struct {
	left    *table.Table
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// New binds a.
func New(a *table.Table, opts ...Option) (*Algebra, error) {
	if a == nil {
		return nil, errors.New(errors.ErrCodeValidation, "no table given")
	}
	alg := &Algebra{left: a}
	for _, opt := range opts {
		opt(alg)
	}
	alg.logger = logging.OrDefault(alg.logger).Named("setops")
	return alg, nil
}

// Table returns the bound table.
func (a *Algebra) Table() *table.Table { return a.left }

// shared returns the common columns of the bound table and b.
func (a *Algebra) shared(b *table.Table) ([]string, error) {
	if b == nil {
		return nil, errors.New(errors.ErrCodeValidation, "no table given")
	}
	cols := table.SharedColumns(a.left, b)
	if len(cols) == 0 {
		return nil, errors.New(errors.ErrCodeNoSharedColumns, errors.DefaultMessageForCode(errors.ErrCodeNoSharedColumns)).
			WithDetailf("left=%v right=%v", a.left.Columns(), b.Columns())
	}
	return cols, nil
}

// projected returns both tables reduced to their shared columns.
func (a *Algebra) projected(b *table.Table) (left, right *table.Table, on []string, err error) {
	on, err = a.shared(b)
	if err != nil {
		return nil, nil, nil, err
	}
	if left, err = a.left.Project(on...); err != nil {
		return nil, nil, nil, err
	}
	if right, err = b.Project(on...); err != nil {
		return nil, nil, nil, err
	}
	return left, right, on, nil
}

func (a *Algebra) done(op string, out *table.Table, fields ...logging.Field) {
	a.metrics.ObserveSetOperation(op)
	a.logger.Debug("set operation finished",
		append([]logging.Field{logging.String("op", op), logging.Int("rows", out.Len())}, fields...)...)
}

// Intersection returns the rows whose shared-column key appears in both
// tables.
func (a *Algebra) Intersection(b *table.Table) (*table.Table, error) {
	left, right, on, err := a.projected(b)
	if err != nil {
		return nil, err
	}
	out, err := table.Join(left, right, on, table.InnerJoin)
	if err != nil {
		return nil, err
	}
	a.done(OpIntersection, out, logging.Strings("on", on))
	return out, nil
}

// Sub returns the bound table's rows, over the shared columns, whose key
// does not occur in b.  A key repeated within the bound table is dropped
// as well.
func (a *Algebra) Sub(b *table.Table) (*table.Table, error) {
	left, right, on, err := a.projected(b)
	if err != nil {
		return nil, err
	}
	all, err := table.Concat(left, right, right)
	if err != nil {
		return nil, err
	}
	out, err := all.KeepUniqueKeys(on)
	if err != nil {
		return nil, err
	}
	a.done(OpSub, out, logging.Strings("on", on))
	return out, nil
}

// Union joins both tables over every column, keeping unmatched rows of
// either side padded with missing values.
func (a *Algebra) Union(b *table.Table) (*table.Table, error) {
	on, err := a.shared(b)
	if err != nil {
		return nil, err
	}
	out, err := table.Join(a.left, b, on, table.OuterJoin)
	if err != nil {
		return nil, err
	}
	a.done(OpUnion, out, logging.Strings("on", on))
	return out, nil
}

// Add is Union restricted to the shared columns.
func (a *Algebra) Add(b *table.Table) (*table.Table, error) {
	left, right, on, err := a.projected(b)
	if err != nil {
		return nil, err
	}
	out, err := table.Join(left, right, on, table.OuterJoin)
	if err != nil {
		return nil, err
	}
	a.done(OpAdd, out, logging.Strings("on", on))
	return out, nil
}

// AbstractRows returns, for each value, the rows whose column satisfies
// relation against it.
func (a *Algebra) AbstractRows(column string, relation table.Relation, values ...table.Value) ([]*table.Table, error) {
	if !a.left.HasColumn(column) {
		return nil, errors.MissingColumn(column)
	}
	out := make([]*table.Table, 0, len(values))
	for _, v := range values {
		t, err := a.left.Where(column, relation, v)
		if err != nil {
			return nil, err
		}
		a.logger.Debug("rows selected",
			logging.String("column", column), logging.String("relation", relation.String()),
			logging.String("value", v.String()), logging.Int("rows", t.Len()))
		out = append(out, t)
	}
	a.metrics.ObserveSetOperation(OpRows)
	return out, nil
}

// AbstractColumn returns the values of one column.
func (a *Algebra) AbstractColumn(column string) ([]table.Value, error) {
	values, err := a.left.Column(column)
	if err != nil {
		return nil, err
	}
	a.metrics.ObserveSetOperation(OpColumns)
	return values, nil
}

// AbstractColumns returns one value sequence per requested column.
func (a *Algebra) AbstractColumns(columns ...string) ([][]table.Value, error) {
	out := make([][]table.Value, 0, len(columns))
	for _, c := range columns {
		values, err := a.left.Column(c)
		if err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	a.metrics.ObserveSetOperation(OpColumns)
	return out, nil
}

//Personal.AI order the ending
