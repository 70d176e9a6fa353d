package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/pkg/errors"
)

func TestJoin_Inner(t *testing.T) {
	t.Parallel()
	a := mustTable(t, []string{"id", "val"}, []string{"1", "x"}, []string{"2", "x"}, []string{"3", "y"})
	b := mustTable(t, []string{"id", "val"}, []string{"2", "x"}, []string{"3", "y"}, []string{"4", "y"})

	out, err := table.Join(a, b, []string{"id", "val"}, table.InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "val"}, out.Columns())
	assert.Equal(t, [][]string{{"2", "x"}, {"3", "y"}}, out.Records())
}

func TestJoin_InnerFansOutDuplicates(t *testing.T) {
	t.Parallel()
	a := mustTable(t, []string{"k", "l"}, []string{"1", "a"}, []string{"1", "b"})
	b := mustTable(t, []string{"k", "r"}, []string{"1", "p"}, []string{"1", "q"})

	out, err := table.Join(a, b, []string{"k"}, table.InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "l", "r"}, out.Columns())
	assert.Equal(t, [][]string{
		{"1", "a", "p"}, {"1", "a", "q"},
		{"1", "b", "p"}, {"1", "b", "q"},
	}, out.Records())
}

func TestJoin_OuterOrdersLeftThenRight(t *testing.T) {
	t.Parallel()
	a := mustTable(t, []string{"id", "name"}, []string{"1", "one"}, []string{"2", "two"})
	b := mustTable(t, []string{"id", "score"}, []string{"3", "9"}, []string{"2", "5"})

	out, err := table.Join(a, b, []string{"id"}, table.OuterJoin)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "score"}, out.Columns())
	assert.Equal(t, [][]string{
		{"1", "one", ""},
		{"2", "two", "5"},
		{"3", "", "9"},
	}, out.Records())

	name, _ := out.Cell(2, "name")
	assert.True(t, name.IsMissing())
}

func TestJoin_MissingKeysMatch(t *testing.T) {
	t.Parallel()
	a := table.MustNew("k", "l")
	require.NoError(t, a.AppendRow(table.Missing, table.Str("a")))
	b := table.MustNew("k", "r")
	require.NoError(t, b.AppendRow(table.Missing, table.Str("b")))

	out, err := table.Join(a, b, []string{"k"}, table.InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestJoin_SuffixesCollidingColumns(t *testing.T) {
	t.Parallel()
	a := mustTable(t, []string{"k", "v"}, []string{"1", "a"})
	b := mustTable(t, []string{"k", "v"}, []string{"1", "b"})

	out, err := table.Join(a, b, []string{"k"}, table.InnerJoin)
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "v_x", "v_y"}, out.Columns())
	assert.Equal(t, [][]string{{"1", "a", "b"}}, out.Records())
}

func TestJoin_NoKeys(t *testing.T) {
	t.Parallel()
	_, err := table.Join(table.MustNew("a"), table.MustNew("b"), nil, table.InnerJoin)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoSharedColumns))
}

//Personal.AI order the ending
