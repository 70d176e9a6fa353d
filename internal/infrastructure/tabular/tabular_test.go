package tabular_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/internal/infrastructure/tabular"
	"github.com/pkj0421/CIM/pkg/errors"
)

func sample() *table.Table {
	t := table.MustNew("ID", "Smiles", "pIC50")
	_ = t.AppendRow(table.Str("a1"), table.Str("CCO"), table.Str("6.5"))
	_ = t.AppendRow(table.Str("a2"), table.Str("c1ccccc1"), table.Missing)
	_ = t.AppendRow(table.Str("007"), table.Str("C#N"), table.Str("12"))
	return t
}

func assertSameTable(t *testing.T, want, got *table.Table) {
	t.Helper()
	require.Equal(t, want.Columns(), got.Columns())
	require.Equal(t, want.Len(), got.Len())
	for i := 0; i < want.Len(); i++ {
		assert.Equal(t, want.Row(i), got.Row(i), "row %d", i)
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()
	cases := map[string]tabular.Format{
		"data/a.txt":    tabular.FormatText,
		"a.TSV":         tabular.FormatText,
		"a.csv":         tabular.FormatCSV,
		"a.xlsx":        tabular.FormatXLSX,
		"a.sdf":         tabular.FormatSDF,
		"a.sd":          tabular.FormatSDF,
		"a.smi":         tabular.FormatSMI,
		"a.smiles":      tabular.FormatSMI,
		"a.parquet":     tabular.FormatParquet,
		"dir.v2/a.json": tabular.FormatJSON,
	}
	for path, want := range cases {
		got, err := tabular.FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	for _, bad := range []string{"a.png", "a.pdf", "noext"} {
		_, err := tabular.FormatFromPath(bad)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedFormat), bad)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	f, err := tabular.ParseFormat(" PNG ")
	require.NoError(t, err)
	assert.Equal(t, tabular.FormatPNG, f)
	assert.False(t, f.Loadable())
	assert.True(t, f.Exportable())
	assert.Equal(t, "dataframe", tabular.FormatDataFrame.String())

	_, err = tabular.ParseFormat("docx")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedFormat))
}

func TestSplitPath(t *testing.T) {
	t.Parallel()
	dir, name, ext := tabular.SplitPath("/tmp/in/compounds.v1.csv")
	assert.Equal(t, "/tmp/in", dir)
	assert.Equal(t, "compounds.v1", name)
	assert.Equal(t, ".csv", ext)
	dir, name, _ = tabular.SplitPath("x.sdf")
	assert.Equal(t, ".", dir)
	assert.Equal(t, "x", name)
}

func TestDelimited_RoundTrip(t *testing.T) {
	t.Parallel()
	for _, sep := range []rune{tabular.TabSeparator, tabular.CommaSeparator} {
		var buf bytes.Buffer
		require.NoError(t, tabular.WriteDelimited(&buf, sample(), sep))
		got, err := tabular.ReadDelimited(&buf, sep)
		require.NoError(t, err)
		assertSameTable(t, sample(), got)
	}
}

func TestReadDelimited_Normalization(t *testing.T) {
	t.Parallel()
	in := "\ufeff ID ,,Smiles,ID\n1,x,CCO\n2,y,NA,dup\n"
	got, err := tabular.ReadDelimited(strings.NewReader(in), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Unnamed: 1", "Smiles", "ID.1"}, got.Columns())
	assert.True(t, got.Row(0)[3].IsMissing(), "short rows are padded")
	assert.True(t, got.Row(1)[2].IsMissing(), "NA is a missing marker")

	_, err = tabular.ReadDelimited(strings.NewReader("a,b\n1,2,3\n"), ',')
	assert.True(t, errors.IsCode(err, errors.ErrCodeLoadFailed))

	empty, err := tabular.ReadDelimited(strings.NewReader(""), ',')
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Width())
}

func TestXLSX_RoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, tabular.WriteXLSX(&buf, sample()))
	got, err := tabular.ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assertSameTable(t, sample(), got)
}

func TestReadSMI(t *testing.T) {
	t.Parallel()
	in := "smiles id\nCCO ethanol\n\nc1ccccc1\nC#N\thydrogen cyanide\n"
	got, err := tabular.ReadSMI(strings.NewReader(in), "Smiles", "ID")
	require.NoError(t, err)
	assert.Equal(t, []string{"Smiles", "ID"}, got.Columns())
	require.Equal(t, 3, got.Len())
	assert.Equal(t, table.Strs("CCO", "ethanol"), got.Row(0))
	assert.Equal(t, table.Strs("c1ccccc1", "1"), got.Row(1))
	assert.Equal(t, table.Strs("C#N", "hydrogen cyanide"), got.Row(2))
}

func TestReadSMI_ConfiguredColumns(t *testing.T) {
	t.Parallel()
	got, err := tabular.ReadSMI(strings.NewReader("CCO ethanol\n"), "structure", "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"structure", "name"}, got.Columns())
	assert.Equal(t, table.Strs("CCO", "ethanol"), got.Row(0))

	_, err = tabular.ReadSMI(strings.NewReader("CCO\n"), "x", "x")
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateColumn))
}

func TestWriteSMI(t *testing.T) {
	t.Parallel()
	src := sample()
	_ = src.AppendRow(table.Str("a4"), table.Missing, table.Missing)

	var buf bytes.Buffer
	skipped, err := tabular.WriteSMI(&buf, src, "Smiles", "ID")
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "CCO\ta1\nc1ccccc1\ta2\nC#N\t007\n", buf.String())

	buf.Reset()
	_, err = tabular.WriteSMI(&buf, src, "Smiles", "")
	require.NoError(t, err)
	assert.Equal(t, "CCO\t0\nc1ccccc1\t1\nC#N\t2\n", buf.String())

	_, err = tabular.WriteSMI(&buf, src, "Smiles", "Name")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingColumn))
}

func TestJSON_RoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, tabular.WriteJSON(&buf, sample()))
	assert.Contains(t, buf.String(), `"pIC50": null`)
	got, err := tabular.ReadJSON(&buf)
	require.NoError(t, err)
	assertSameTable(t, sample(), got)
}

func TestReadJSON_KeyOrderAndTypes(t *testing.T) {
	t.Parallel()
	in := `[{"b": 1, "a": "x"}, {"a": null, "c": true, "d": {"k": [1, 2]}}]`
	got, err := tabular.ReadJSON(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "d"}, got.Columns())
	assert.Equal(t, []table.Value{table.Str("1"), table.Str("x"), table.Missing, table.Missing}, got.Row(0))
	assert.Equal(t, []table.Value{table.Missing, table.Missing, table.Str("true"), table.Str(`{"k": [1, 2]}`)}, got.Row(1))

	_, err = tabular.ReadJSON(strings.NewReader(`{"a": 1}`))
	assert.True(t, errors.IsCode(err, errors.ErrCodeLoadFailed))
}

func TestParquet_RoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, tabular.WriteParquet(&buf, sample()))
	got, err := tabular.ReadParquet(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assertSameTable(t, sample(), got)
}

//Personal.AI order the ending
