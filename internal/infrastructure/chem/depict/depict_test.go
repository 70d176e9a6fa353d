package depict_test

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkj0421/CIM/internal/domain/molecule"
	"github.com/pkj0421/CIM/internal/infrastructure/chem/depict"
)

func mol(t *testing.T, smiles string) *molecule.Molecule {
	t.Helper()
	m, err := molecule.ParseSMILES(smiles)
	require.NoError(t, err)
	return m
}

func TestLayout_BondLengths(t *testing.T) {
	t.Parallel()
	for _, smi := range []string{"CCCCCC", "c1ccccc1", "CC(C)(C)O", "c1ccc2ccccc2c1"} {
		m := mol(t, smi)
		pts := depict.Layout(m)
		require.Len(t, pts, len(m.Atoms))
		for _, b := range m.Bonds {
			d := pts[b.Begin].Sub(pts[b.End]).Norm()
			assert.InDelta(t, depict.BondLength, d, 0.5, "%s bond %d-%d", smi, b.Begin, b.End)
		}
		for i := range pts {
			for j := i + 1; j < len(pts); j++ {
				assert.Greater(t, pts[i].Sub(pts[j]).Norm(), 0.3, "%s atoms %d and %d overlap", smi, i, j)
			}
		}
	}
}

func TestLayout_Deterministic(t *testing.T) {
	t.Parallel()
	m := mol(t, "CC(=O)Oc1ccccc1C(=O)O")
	assert.Equal(t, depict.Layout(m), depict.Layout(m))
}

func TestLayout_ComponentsSideBySide(t *testing.T) {
	t.Parallel()
	m := mol(t, "CCO.[Na+].c1ccccc1")
	pts := depict.Layout(m)
	comps := m.Components()
	require.Len(t, comps, 3)
	maxX := func(c []int) float64 {
		v := math.Inf(-1)
		for _, a := range c {
			v = math.Max(v, pts[a].X)
		}
		return v
	}
	minX := func(c []int) float64 {
		v := math.Inf(1)
		for _, a := range c {
			v = math.Min(v, pts[a].X)
		}
		return v
	}
	for k := 1; k < len(comps); k++ {
		assert.Greater(t, minX(comps[k]), maxX(comps[k-1]))
	}
}

func TestGrid_Size(t *testing.T) {
	t.Parallel()
	g := depict.DefaultGrid()
	w, h := g.Size(12)
	assert.Equal(t, 1000, w)
	assert.Equal(t, 750, h)
	w, h = g.Size(2)
	assert.Equal(t, 500, w)
	assert.Equal(t, 250, h)
	w, h = depict.Grid{MolsPerRow: 3, CellWidth: 100, CellHeight: 80}.Size(3)
	assert.Equal(t, 300, w)
	assert.Equal(t, 80, h)
}

func TestGrid_WritePNG(t *testing.T) {
	t.Parallel()
	cells := []depict.Cell{
		{Molecule: mol(t, "c1ccncc1"), Legend: "pyridine"},
		{Molecule: mol(t, "C#N"), Legend: "hydrogen cyanide"},
		{Molecule: nil, Legend: "unparseable"},
		{Molecule: mol(t, "[NH4+].[Cl-]"), Legend: "a legend long enough to be cut at the edge of the cell"},
		{Molecule: mol(t, "N[C@@H](C)C(=O)O")},
	}
	var buf bytes.Buffer
	require.NoError(t, depict.DefaultGrid().WritePNG(&buf, cells))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

//Personal.AI order the ending
