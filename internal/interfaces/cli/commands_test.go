package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkj0421/CIM/internal/infrastructure/chem/molfile"
	"github.com/pkj0421/CIM/pkg/errors"
)

// run executes the command tree with a quiet config and returns what was
// written to stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "cim.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o644))

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfg, "--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func input(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const compounds = "ID,Smiles,pIC50\na1,CCO,6.5\na2,c1ccccc1,7\na3,C#N,5\n"

func TestConvert_ToStructureFile(t *testing.T) {
	out := t.TempDir()
	stdout, err := run(t, "", "convert", input(t, "hits.csv", compounds),
		"--to", "sdf", "--auto-properties", "--out-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Your file "hits" is successfully converted from csv to sdf file.`)

	f, err := os.Open(filepath.Join(out, "hits.sdf"))
	require.NoError(t, err)
	defer f.Close()
	entries, err := molfile.ReadAll(f)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a2", entries[1].Title)
	assert.Equal(t, []molfile.DataItem{{Name: "pIC50", Value: "7"}}, entries[1].Data)
}

func TestConvert_UnavailableFormat(t *testing.T) {
	stdout, err := run(t, "", "convert", input(t, "hits.csv", compounds), "--to", "docx")
	assert.Contains(t, stdout, unavailableFormat)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedFormat))
}

func TestConvert_CommaSeparatorNeedsCSV(t *testing.T) {
	out := t.TempDir()
	_, err := run(t, "", "convert", input(t, "hits.csv", compounds), "--to", "txt", "--sep", ",", "--out-dir", out)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidExportOptions))
	assert.NoFileExists(t, filepath.Join(out, "hits.txt"))

	_, err = run(t, "", "convert", input(t, "hits.csv", compounds), "--to", "txt", "--sep", ";", "--out-dir", out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readFile(t, filepath.Join(out, "hits.txt")), "ID;Smiles;pIC50\n"))
}

func TestConvert_InteractiveStructureFile(t *testing.T) {
	out := t.TempDir()
	stdout, err := run(t, "ID\nn\npIC50\n", "convert", input(t, "hits.csv", compounds),
		"--to", "sdf", "--interactive", "--out-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Your columns are ['ID', 'Smiles', 'pIC50']. \nWhich column do you want to select to ID?:")
	assert.Contains(t, stdout, promptAuto)
	assert.Contains(t, stdout, promptProperties)
	assert.Contains(t, readFile(t, filepath.Join(out, "hits.sdf")), "> <pIC50>\n6.5\n")
}

func TestConvert_InteractiveImages(t *testing.T) {
	var b strings.Builder
	b.WriteString("ID,Smiles\n")
	for i := 0; i < 12; i++ {
		b.WriteString("c" + strings.Repeat("x", i) + "," + strings.Repeat("C", i+1) + "\n")
	}
	out := t.TempDir()
	stdout, err := run(t, "only structure\n5\n", "convert", input(t, "alkanes.csv", b.String()),
		"--to", "png", "--interactive", "--out-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "The file have 12 structures.\nHow many structures do you want to include in one png file?:")
	for _, name := range []string{"alkanes_0.png", "alkanes_1.png", "alkanes_2.png"} {
		assert.FileExists(t, filepath.Join(out, "alkanes_draw", name))
	}
}

func TestConvert_ImagesNeedBatch(t *testing.T) {
	var b strings.Builder
	b.WriteString("ID,Smiles\n")
	for i := 0; i < 6; i++ {
		b.WriteString("m,C\n")
	}
	_, err := run(t, "", "convert", input(t, "m.csv", b.String()), "--to", "png", "--out-dir", t.TempDir())
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidExportOptions))
}

func TestSet_Intersection(t *testing.T) {
	a := input(t, "a.csv", "id,val\n1,x\n2,x\n3,y\n")
	b := input(t, "b.csv", "id,val\n2,x\n3,y\n4,y\n")
	res := filepath.Join(t.TempDir(), "common.csv")

	_, err := run(t, "", "set", "intersection", a, b, "--out", res)
	require.NoError(t, err)
	assert.Equal(t, "id,val\n2,x\n3,y\n", readFile(t, res))

	_, err = run(t, "", "set", "sub", a, b, "--out", res)
	require.NoError(t, err)
	assert.Equal(t, "id,val\n1,x\n", readFile(t, res))
}

func TestSet_NoSharedColumns(t *testing.T) {
	a := input(t, "a.csv", "id\n1\n")
	b := input(t, "b.csv", "name\nx\n")
	_, err := run(t, "", "set", "union", a, b, "--out", filepath.Join(t.TempDir(), "u.csv"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoSharedColumns))
}

func TestRows_WritesOneFilePerValue(t *testing.T) {
	out := t.TempDir()
	in := input(t, "series.csv", "ID,Series\n1,A\n2,B\n3,A\n")
	_, err := run(t, "", "rows", in, "--column", "Series", "--relation", "==",
		"--value", "A", "--value", "B", "--out-dir", out)
	require.NoError(t, err)
	assert.Equal(t, "ID,Series\n1,A\n3,A\n", readFile(t, filepath.Join(out, "series_Series_0.csv")))
	assert.Equal(t, "ID,Series\n2,B\n", readFile(t, filepath.Join(out, "series_Series_1.csv")))

	_, err = run(t, "", "rows", in, "--column", "Series", "--relation", "=~", "--value", "A")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRelation))
}

func TestColumns_PrintsValues(t *testing.T) {
	in := input(t, "c.csv", "ID,pIC50\na,6.5\nb,NA\n")
	stdout, err := run(t, "", "columns", in, "--column", "ID")
	require.NoError(t, err)
	assert.Equal(t, "['a', 'b']\n[type: list, length: 2]\n", stdout)

	stdout, err = run(t, "", "columns", in, "--column", "ID", "--column", "pIC50")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pIC50:\n[6.5, nan]\n[type: list, length: 2]\n")
}

func TestShow_RendersTable(t *testing.T) {
	stdout, err := run(t, "", "show", input(t, "hits.csv", compounds), "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pIC50")
	assert.Contains(t, stdout, "a2")
	assert.NotContains(t, stdout, "a3")
	assert.Contains(t, stdout, "3 rows x 3 columns")
}

func TestCanon(t *testing.T) {
	stdout, err := run(t, "", "canon", "OCC", "CCO")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0], lines[1])

	_, err = run(t, "", "canon", "C1CC")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeInvalidSMILES))
}

func TestMetricsFile(t *testing.T) {
	metrics := filepath.Join(t.TempDir(), "cim.prom")
	_, err := run(t, "", "--metrics-file", metrics, "convert", input(t, "hits.csv", compounds),
		"--to", "json", "--out-dir", t.TempDir())
	require.NoError(t, err)
	text := readFile(t, metrics)
	assert.Contains(t, text, `cim_records_loaded_total{format="csv"} 3`)
	assert.Contains(t, text, "cim_exports_total")
}

//Personal.AI order the ending
