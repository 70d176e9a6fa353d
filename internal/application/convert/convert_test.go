package convert_test

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkj0421/CIM/internal/application/convert"
	"github.com/pkj0421/CIM/internal/config"
	"github.com/pkj0421/CIM/internal/domain/molecule"
	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/internal/infrastructure/chem/molfile"
	"github.com/pkj0421/CIM/internal/infrastructure/tabular"
	"github.com/pkj0421/CIM/internal/testutil"
	"github.com/pkj0421/CIM/pkg/errors"
)

const compoundsCSV = "ID,Smiles,pIC50,Unnamed: 3\n" +
	"a1,OCC,6.5,\n" +
	"a2,c1ccncc1,7.1,\n" +
	"a3,CC(=O)Oc1ccccc1C(=O)O,,\n" +
	"a4,C#N,5,\n"

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func load(t *testing.T, path string, opts ...convert.Option) *convert.Adapter {
	t.Helper()
	opts = append([]convert.Option{convert.WithOutput(&bytes.Buffer{}), convert.WithLogger(testutil.NewMockLogger())}, opts...)
	a, err := convert.NewFromPath(context.Background(), path, opts...)
	require.NoError(t, err)
	return a
}

func smilesOf(t *testing.T, a *convert.Adapter) []string {
	t.Helper()
	values, err := a.Table().Column(a.SmilesColumn())
	require.NoError(t, err)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func canonical(t *testing.T, smiles string) string {
	t.Helper()
	s, err := molecule.Canonicalize(smiles)
	require.NoError(t, err)
	return s
}

func TestNewFromPath_CanonicalizesAndDropsPlaceholders(t *testing.T) {
	t.Parallel()
	a := load(t, writeInput(t, "compounds.csv", compoundsCSV))

	assert.Equal(t, []string{"ID", "Smiles", "pIC50"}, a.Table().Columns())
	assert.Equal(t, 4, a.Table().Len())
	assert.Equal(t, canonical(t, "CCO"), smilesOf(t, a)[0])
	assert.Equal(t, canonical(t, "n1ccccc1"), smilesOf(t, a)[1])

	src := a.Source()
	assert.Equal(t, "compounds", src.Name)
	assert.Equal(t, tabular.FormatCSV, src.Format)
	assert.Equal(t, src.Dir, a.OutputDir())
}

func TestNewFromPath_Errors(t *testing.T) {
	t.Parallel()
	_, err := convert.NewFromPath(context.Background(), writeInput(t, "notes.pdf", "x"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedFormat))

	_, err = convert.NewFromPath(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeLoadFailed))

	_, err = convert.NewFromPath(context.Background(), writeInput(t, "ragged.csv", "a,b\n1,2,3\n"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeLoadFailed))
}

func TestNewFromPath_KeepsUnparsableStructures(t *testing.T) {
	t.Parallel()
	log := testutil.NewMockLogger()
	a, err := convert.NewFromPath(context.Background(),
		writeInput(t, "c.csv", "ID,Smiles\n1,C1CC\n2,CC\n"),
		convert.WithLogger(log), convert.WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, "C1CC", smilesOf(t, a)[0])
	assert.True(t, log.HasMessage("warn", "structure kept without canonicalization"))
}

func TestNewFromTable(t *testing.T) {
	t.Parallel()
	src := table.MustNew("Smiles", "Unnamed: 1")
	require.NoError(t, src.AppendRow(table.Str("OCC"), table.Missing))

	a, err := convert.NewFromTable(src, convert.WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Smiles"}, a.Table().Columns())
	assert.Equal(t, canonical(t, "CCO"), smilesOf(t, a)[0])
	assert.Equal(t, convert.Source{Dir: ".", Name: "dataframe", Format: tabular.FormatDataFrame}, a.Source())

	named, err := convert.NewFromTable(src, convert.WithName("/tmp/out", "hits"))
	require.NoError(t, err)
	assert.Equal(t, "hits", named.Source().Name)
	assert.Equal(t, "/tmp/out", named.OutputDir())

	_, err = convert.NewFromTable(nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestExport_RoundTripPreservesRowsAndStructures(t *testing.T) {
	t.Parallel()
	formats := []tabular.Format{
		tabular.FormatText,
		tabular.FormatCSV,
		tabular.FormatXLSX,
		tabular.FormatSDF,
		tabular.FormatSMI,
		tabular.FormatParquet,
		tabular.FormatJSON,
	}
	for _, f := range formats {
		f := f
		t.Run(f.String(), func(t *testing.T) {
			t.Parallel()
			out := t.TempDir()
			a := load(t, writeInput(t, "compounds.csv", compoundsCSV), convert.WithOutDir(out))

			paths, err := a.Export(f, convert.ExportOptions{SDF: convert.SDFOptions{AutoProperties: true}})
			require.NoError(t, err)
			require.Len(t, paths, 1)
			assert.Equal(t, filepath.Join(out, "compounds"+f.Extension()), paths[0])

			back := load(t, paths[0])
			assert.Equal(t, a.Table().Len(), back.Table().Len())
			assert.Equal(t, smilesOf(t, a), smilesOf(t, back))
		})
	}
}

func TestExport_Confirmation(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	a := load(t, writeInput(t, "compounds.csv", compoundsCSV),
		convert.WithOutDir(t.TempDir()), convert.WithOutput(&out))

	_, err := a.ExportSpreadsheet()
	require.NoError(t, err)
	assert.Contains(t, out.String(), `Your file "compounds" is successfully converted from csv to excel file.`)

	out.Reset()
	p, err := a.ExportDelimited(convert.DelimitedOptions{Separator: ';'})
	require.NoError(t, err)
	assert.Equal(t, ".txt", filepath.Ext(p))
	assert.Contains(t, out.String(), "to text file.")
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ID;Smiles;pIC50\n"))
}

func TestExport_SeparatorMustMatchFormat(t *testing.T) {
	t.Parallel()
	out := t.TempDir()
	a := load(t, writeInput(t, "compounds.csv", compoundsCSV), convert.WithOutDir(out))

	paths, err := a.Export(tabular.FormatText, convert.ExportOptions{Delimited: convert.DelimitedOptions{Separator: '|'}})
	require.NoError(t, err)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ID|Smiles|pIC50\n"))

	_, err = a.Export(tabular.FormatText, convert.ExportOptions{Delimited: convert.DelimitedOptions{Separator: ','}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidExportOptions))
	_, err = a.Export(tabular.FormatCSV, convert.ExportOptions{Delimited: convert.DelimitedOptions{Separator: ';'}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidExportOptions))
	assert.NoFileExists(t, filepath.Join(out, "compounds.csv"))

	cfg := config.NewDefaultConfig().Convert
	cfg.Delimiter = ","
	b := load(t, writeInput(t, "compounds.csv", compoundsCSV), convert.WithOutDir(t.TempDir()), convert.WithConvertConfig(cfg))
	_, err = b.Export(tabular.FormatText, convert.ExportOptions{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidExportOptions))
}

func TestNewFromPath_SMIUsesConfiguredColumns(t *testing.T) {
	t.Parallel()
	cfg := config.NewDefaultConfig().Convert
	cfg.SmilesColumn, cfg.IDColumn = "structure", "name"
	a := load(t, writeInput(t, "set.smi", "OCC ethanol\nc1ccncc1\n"), convert.WithConvertConfig(cfg))

	assert.Equal(t, []string{"structure", "name"}, a.Table().Columns())
	assert.Equal(t, []string{canonical(t, "OCC"), canonical(t, "c1ccncc1")}, smilesOf(t, a))
	names, err := a.Table().Column("name")
	require.NoError(t, err)
	assert.Equal(t, table.Strs("ethanol", "1"), names)
}

func TestExportStructureFile_Properties(t *testing.T) {
	t.Parallel()
	a := load(t, writeInput(t, "compounds.csv", compoundsCSV), convert.WithOutDir(t.TempDir()))

	p, err := a.ExportStructureFile(convert.SDFOptions{Properties: []string{"pIC50"}})
	require.NoError(t, err)
	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()
	entries, err := molfile.ReadAll(f)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "a1", entries[0].Title)
	assert.Equal(t, []molfile.DataItem{{Name: "pIC50", Value: "6.5"}}, entries[0].Data)

	_, err = a.ExportStructureFile(convert.SDFOptions{Properties: []string{"logP"}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingColumn))

	_, err = a.ExportStructureFile(convert.SDFOptions{IDColumn: "Name", AutoProperties: true})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMissingColumn))
}

func TestLoadSDF_SkipsBrokenRecord(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := molfile.NewWriter(&buf)
	for i, s := range []string{"CCO", "c1ccccc1"} {
		m, err := molecule.ParseSMILES(s)
		require.NoError(t, err)
		require.NoError(t, w.Write(molfile.Record{
			Title:    fmt.Sprintf("m%d", i+1),
			Molecule: m,
			Data:     []molfile.DataItem{{Name: "MW", Value: fmt.Sprint(40 + i)}},
		}))
	}
	require.NoError(t, w.Flush())
	buf.WriteString("m3\n\n\n  x  y  0  0  0  0  0  0  0  0999 V2000\nM  END\n$$$$\n")
	m, err := molecule.ParseSMILES("C#N")
	require.NoError(t, err)
	w = molfile.NewWriter(&buf)
	require.NoError(t, w.Write(molfile.Record{Title: "m4", Molecule: m}))
	require.NoError(t, w.Flush())

	log := testutil.NewMockLogger()
	a, err := convert.NewFromPath(context.Background(), writeInput(t, "set.sdf", buf.String()),
		convert.WithLogger(log), convert.WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Smiles", "MW"}, a.Table().Columns())
	require.Equal(t, 3, a.Table().Len())
	ids, _ := a.Table().Column("ID")
	assert.Equal(t, table.Strs("m1", "m2", "m4"), ids)
	assert.True(t, a.Table().Row(2)[2].IsMissing())

	skipped := 0
	for _, msg := range log.MessagesAt("warn") {
		if msg.Message == "structure record skipped" {
			skipped++
			id, _ := msg.Field("id")
			assert.Equal(t, "m3", id)
		}
	}
	assert.Equal(t, 1, skipped)
}

func twelveRows(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("ID,Smiles\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "c%d,%s\n", i, strings.Repeat("C", i+1))
	}
	return b.String()
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestExportImages_Batches(t *testing.T) {
	t.Parallel()
	out := t.TempDir()
	var confirm bytes.Buffer
	a := load(t, writeInput(t, "alkanes.csv", twelveRows(t)), convert.WithOutDir(out), convert.WithOutput(&confirm))
	require.True(t, a.NeedsBatch())

	paths, err := a.ExportImages(convert.ImageOptions{BatchSize: 5})
	require.NoError(t, err)
	dir := filepath.Join(out, "alkanes_draw")
	assert.Equal(t, []string{
		filepath.Join(dir, "alkanes_0.png"),
		filepath.Join(dir, "alkanes_1.png"),
		filepath.Join(dir, "alkanes_2.png"),
	}, paths)

	w, h := pngSize(t, paths[0])
	assert.Equal(t, [2]int{1000, 500}, [2]int{w, h})
	w, h = pngSize(t, paths[2])
	assert.Equal(t, [2]int{500, 250}, [2]int{w, h})
	assert.Contains(t, confirm.String(), "from csv to png file.")

	_, err = a.ExportImages(convert.ImageOptions{OnlyStructure: true})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidExportOptions))
}

func TestExportImages_SingleRow(t *testing.T) {
	t.Parallel()
	out := t.TempDir()
	log := testutil.NewMockLogger()
	a := load(t, writeInput(t, "few.csv", "ID,Smiles\nx,CCO\ny,C1CC\nz,C=O\n"),
		convert.WithOutDir(out), convert.WithLogger(log))
	require.False(t, a.NeedsBatch())

	paths, err := a.ExportImages(convert.ImageOptions{LabelColumn: "ID"})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "few_draw", "few.png")}, paths)
	w, h := pngSize(t, paths[0])
	assert.Equal(t, [2]int{750, 250}, [2]int{w, h})
	assert.True(t, log.HasMessage("warn", "structure drawn as empty cell"))

	_, err = a.ExportImages(convert.ImageOptions{OnlyStructure: true})
	require.NoError(t, err)
	assert.True(t, log.HasMessage("debug", "image directory already exists"))

	_, err = a.ExportImages(convert.ImageOptions{LabelColumn: "Name"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidExportOptions))
}

func TestExport_Unsupported(t *testing.T) {
	t.Parallel()
	a := load(t, writeInput(t, "compounds.csv", compoundsCSV), convert.WithOutDir(t.TempDir()))
	_, err := a.Export(tabular.FormatDataFrame, convert.ExportOptions{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedFormat))
}

//Personal.AI order the ending
