package molecule

import (
	"fmt"
)

// ─────────────────────────────────────────────────────────────────────────────
// Hydrogens
// ─────────────────────────────────────────────────────────────────────────────

// assignImplicitHydrogens sets HCount on every non-bracket atom from the
// lowest allowed valence that fits its bonds.  Aromatic atoms give one
// valence to the ring.  With strict set, an atom whose bonds exceed every
// allowed valence is an error; otherwise it gets no hydrogens.
func (m *Molecule) assignImplicitHydrogens(strict bool) error {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Bracket {
			continue
		}
		h, ok := m.ImpliedHydrogens(i)
		if !ok && strict {
			return fmt.Errorf("explicit valence %d exceeds the allowed valence of %s", m.explicitValence(i), a.Symbol())
		}
		a.HCount = h
	}
	return nil
}

// ImpliedHydrogens returns the hydrogen count atom i would be read with if
// its count were not given: the lowest allowed valence for its element and
// charge that fits its bonds, less the bonds, less one for an aromatic atom.
// ok is false when the bonds exceed every allowed valence.
func (m *Molecule) ImpliedHydrogens(i int) (h int, ok bool) {
	a := &m.Atoms[i]
	vals := valencesFor(a.Element, a.Charge)
	if len(vals) == 0 {
		return 0, true
	}
	sum := m.explicitValence(i)
	v, ok := pickValence(vals, sum)
	if !ok {
		return 0, false
	}
	h = v - sum
	if a.Aromatic {
		h--
	}
	if h < 0 {
		h = 0
	}
	return h, true
}

// AssignImpliedHydrogens sets the hydrogen count of every atom whose count
// was not given explicitly (Bracket unset).
func (m *Molecule) AssignImpliedHydrogens() {
	_ = m.assignImplicitHydrogens(false)
}

// Normalize finishes a molecule assembled from a connection table: plain
// hydrogen atoms are folded into counts and the result is sanitized.
// Hydrogen counts must already be set.
func (m *Molecule) Normalize() error {
	m.foldHydrogens()
	return m.Sanitize()
}

// foldHydrogens turns plain hydrogen atoms bonded to one heavy atom into
// hydrogen counts.  Isotopic, charged or bridging hydrogens stay atoms.
func (m *Molecule) foldHydrogens() {
	remove := make([]bool, len(m.Atoms))
	found := false
	for i, a := range m.Atoms {
		if a.Element != elemH || a.Isotope != 0 || a.Charge != 0 || a.Class != 0 || len(m.adj[i]) != 1 {
			continue
		}
		b := m.Bonds[m.adj[i][0]]
		if b.Order != BondSingle {
			continue
		}
		heavy := b.Other(i)
		if m.Atoms[heavy].Element == elemH {
			continue
		}
		remove[i] = true
		found = true
	}
	if !found {
		return
	}
	for i := range remove {
		if !remove[i] {
			continue
		}
		heavy := m.Bonds[m.adj[i][0]].Other(i)
		m.Atoms[heavy].HCount++
	}
	// Re-anchor double-bond stereo that references a folded hydrogen on the
	// other substituent of the same end.
	for bi := range m.Bonds {
		s := m.Bonds[bi].Stereo
		if s == nil {
			continue
		}
		b := m.Bonds[bi]
		if remove[s.RefBegin] {
			if alt, ok := m.otherSubstituent(b.Begin, b.End, s.RefBegin, remove); ok {
				s.RefBegin, s.Cis = alt, !s.Cis
			}
		}
		if remove[s.RefEnd] {
			if alt, ok := m.otherSubstituent(b.End, b.Begin, s.RefEnd, remove); ok {
				s.RefEnd, s.Cis = alt, !s.Cis
			}
		}
	}
	m.removeAtoms(remove)
}

// otherSubstituent returns a neighbour of e that is neither the double-bond
// partner nor skip, and is not flagged for removal.
func (m *Molecule) otherSubstituent(e, partner, skip int, remove []bool) (int, bool) {
	for _, n := range m.Neighbors(e) {
		if n == partner || n == skip || (remove != nil && remove[n]) {
			continue
		}
		return n, true
	}
	return -1, false
}

//Personal.AI order the ending
