package molecule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkj0421/CIM/internal/domain/molecule"
	"github.com/pkj0421/CIM/pkg/errors"
)

func canon(t *testing.T, smiles string) string {
	t.Helper()
	out, err := molecule.Canonicalize(smiles)
	require.NoError(t, err, smiles)
	return out
}

func TestCanonicalize_SimpleStrings(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"OCC":               "CCO",
		"CCO":               "CCO",
		"[CH4]":             "C",
		"[H]C([H])([H])[H]": "C",
		"C1=CC=CC=C1":       "c1ccccc1",
		"c1ccccc1":          "c1ccccc1",
		"CC(O)C":            "CC(C)O",
		"[Cl-].[Na+]":       "[Na+].[Cl-]",
		"[13CH4]":           "[13CH4]",
		"[NH4+]":            "[NH4+]",
	}
	for in, want := range cases {
		assert.Equal(t, want, canon(t, in), in)
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"CC(=O)Oc1ccccc1C(=O)O",
		"c1ccc2ccccc2c1",
		"c1cc[nH]c1",
		"O=c1cccc[nH]1",
		"C[N+](C)(C)C",
		"N[C@@H](C)C(=O)O",
		"F/C=C/F",
		"C/C=C\\C=C\\Cl",
		"c1ccc(-c2ccccc2)cc1",
		"C1CC2CCC1C2",
		"[O-][n+]1ccccc1",
		"CN1C=NC2=C1C(=O)N(C)C(=O)N2C",
	}
	for _, in := range inputs {
		once := canon(t, in)
		assert.Equal(t, once, canon(t, once), in)
	}
}

func TestCanonicalize_SpellingsConverge(t *testing.T) {
	t.Parallel()
	pairs := [][2]string{
		{"Cc1ccccc1", "CC1=CC=CC=C1"},
		{"c1ccncc1", "C1=CC=NC=C1"},
		{"c1cc[nH]c1", "C1=CNC=C1"},
		{"c1ccc2ccccc2c1", "C1=CC=C2C=CC=CC2=C1"},
		{"c1ccoc1", "C1=COC=C1"},
		{"OCC", "C(O)C"},
		{"Oc1ccccc1", "c1ccccc1O"},
		{"CC(=O)Oc1ccccc1C(=O)O", "OC(=O)c1ccccc1OC(C)=O"},
		{"Cn1cnc2c1c(=O)n(C)c(=O)n2C", "CN1C=NC2=C1C(=O)N(C)C(=O)N2C"},
		{"c1ccc(-c2ccccc2)cc1", "C1=CC=C(C=C1)C1=CC=CC=C1"},
		{"[O-][n+]1ccccc1", "[O-][N+]1=CC=CC=C1"},
	}
	for _, p := range pairs {
		assert.Equal(t, canon(t, p[0]), canon(t, p[1]), "%s vs %s", p[0], p[1])
	}
}

func TestCanonicalize_TetrahedralStereo(t *testing.T) {
	t.Parallel()
	l := canon(t, "N[C@@H](C)C(=O)O")
	assert.Equal(t, l, canon(t, "C[C@H](N)C(=O)O"))
	assert.Equal(t, l, canon(t, "OC(=O)[C@@H](N)C"))
	assert.NotEqual(t, l, canon(t, "N[C@H](C)C(=O)O"))
	assert.Contains(t, l, "@")

	assert.Equal(t, canon(t, "C[C@H](F)Cl"), canon(t, "C[C@@H](Cl)F"))
	assert.Equal(t, "CC(C)O", canon(t, "C[C@H](C)O"), "centre with two equal neighbours is not stereogenic")
}

func TestCanonicalize_RingRelativeStereo(t *testing.T) {
	t.Parallel()
	trans := canon(t, "C[C@H]1CC[C@H](C)CC1")
	cis := canon(t, "C[C@H]1CC[C@@H](C)CC1")
	assert.NotEqual(t, trans, cis)
	assert.Contains(t, trans, "@")
	assert.Contains(t, cis, "@")
	assert.NotEqual(t, canon(t, "CC1CCC(C)CC1"), cis)

	// Both rings are their own mirror image.
	assert.Equal(t, trans, canon(t, "C[C@@H]1CC[C@@H](C)CC1"))
	assert.Equal(t, cis, canon(t, "C[C@@H]1CC[C@H](C)CC1"))
	assert.Equal(t, trans, canon(t, trans))
	assert.Equal(t, cis, canon(t, cis))

	// A lone centre on a symmetric ring stays unspecified.
	assert.Equal(t, canon(t, "CC1CCCCC1"), canon(t, "C[C@H]1CCCCC1"))
}

func TestCanonicalize_DoubleBondStereo(t *testing.T) {
	t.Parallel()
	trans := canon(t, "F/C=C/F")
	assert.Equal(t, "F/C=C/F", trans)
	assert.Equal(t, trans, canon(t, "F\\C=C\\F"))
	cis := canon(t, "F/C=C\\F")
	assert.Equal(t, "F/C=C\\F", cis)
	assert.Equal(t, cis, canon(t, "F\\C=C/F"))
	assert.Equal(t, "C=CF", canon(t, "F/C=C"), "a bare end carries no configuration")
	assert.Equal(t, canon(t, "C/C=C/C"), canon(t, "C\\C=C\\C"))
	assert.NotEqual(t, canon(t, "C/C=C/C"), canon(t, "C/C=C\\C"))
}

func TestParseSMILES_Errors(t *testing.T) {
	t.Parallel()
	bad := []string{
		"",
		"   ",
		"C1CC",
		"C(C",
		"CC)",
		"[Xx]",
		"[C",
		"C(C)(C)(C)(C)C",
		"c1cccc1",
		"c",
		"Q",
		"C==C",
		"C1CC1C1",
		"=C",
		"C%1",
	}
	for _, in := range bad {
		_, err := molecule.ParseSMILES(in)
		require.Error(t, err, "%q", in)
		assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeInvalidSMILES), "%q: %v", in, err)
	}
}

func TestParseSMILES_Hydrogens(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"CCO":         "C2H6O",
		"c1ccccc1":    "C6H6",
		"c1cc[nH]c1":  "C4H5N",
		"O=C=O":       "CO2",
		"[H][H]":      "H2",
		"OS(=O)(=O)O": "H2O4S",
		"[NH4+]":      "H4N+",
	}
	for in, want := range cases {
		m, err := molecule.ParseSMILES(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, m.Formula(), in)
	}
}

func TestKekulized(t *testing.T) {
	t.Parallel()
	m, err := molecule.ParseSMILES("c1ccccc1")
	require.NoError(t, err)
	k, err := m.Kekulized()
	require.NoError(t, err)

	doubles := 0
	for _, b := range k.Bonds {
		assert.NotEqual(t, molecule.BondAromatic, b.Order)
		if b.Order == molecule.BondDouble {
			doubles++
		}
	}
	assert.Equal(t, 3, doubles)
	for _, a := range k.Atoms {
		assert.False(t, a.Aromatic)
	}
	// the source is untouched
	assert.True(t, m.Atoms[0].Aromatic)
	again, err := molecule.Canonicalize(k.CanonicalSMILES())
	require.NoError(t, err)
	assert.Equal(t, "c1ccccc1", again)
}

func TestRings(t *testing.T) {
	t.Parallel()
	m, err := molecule.ParseSMILES("c1ccc2ccccc2c1CC")
	require.NoError(t, err)
	ri := m.Rings()
	assert.Len(t, ri.Rings, 2)
	for _, r := range ri.Rings {
		assert.Equal(t, 6, r.Size())
	}
	last := len(m.Bonds) - 1
	assert.False(t, ri.BondInRing(last))
	assert.Equal(t, 0, ri.SmallestRingSize(last))
}

func TestService_ObservesOutcome(t *testing.T) {
	t.Parallel()
	var outcomes []bool
	svc := molecule.NewService(nil, molecule.WithObserver(func(ok bool) { outcomes = append(outcomes, ok) }))

	out, err := svc.Canonicalize("OCC")
	require.NoError(t, err)
	assert.Equal(t, "CCO", out)

	_, err = svc.Canonicalize("C1CC")
	assert.Error(t, err)
	assert.Equal(t, []bool{true, false}, outcomes)

	m, err := svc.Parse("C=O")
	require.NoError(t, err)
	assert.Equal(t, "C=O", svc.ToSMILES(m))
	assert.Equal(t, "", svc.ToSMILES(nil))
}

//Personal.AI order the ending
