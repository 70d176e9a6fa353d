package molecule

import (
	"fmt"
)

// maxEnvelopeSize bounds the fused perimeters tested for aromaticity.
const maxEnvelopeSize = 14

// Sanitize brings a freshly built molecule into normalized form: aromatic
// flags outside rings are rejected or cleared, aromatic input is kekulized,
// aromaticity is perceived again from the Kekulé form, and stereo that the
// structure cannot support is removed.  Both spellings of an aromatic
// system therefore end in the same state.
func (m *Molecule) Sanitize() error {
	ri := m.Rings()
	for i := range m.Bonds {
		if m.Bonds[i].Order == BondAromatic && !ri.BondInRing(i) {
			m.Bonds[i].Order = BondSingle
		}
	}
	for i, a := range m.Atoms {
		if a.Aromatic && !ri.AtomInRing(i) {
			return fmt.Errorf("aromatic atom %s (%d) outside a ring", a.Symbol(), i)
		}
	}
	if err := m.kekulize(); err != nil {
		return err
	}
	m.perceiveAromaticity(ri)
	m.cleanStereo(ri)
	return nil
}

// piElectrons returns the electrons atom i gives a ring in the Kekulé form,
// or -1 when the atom cannot be part of an aromatic ring.
func (m *Molecule) piElectrons(i int, ri *RingInfo) int {
	a := &m.Atoms[i]
	if !aromaticCapable[a.Element] {
		return -1
	}
	if len(m.adj[i])+a.HCount > 3 {
		return -1
	}
	doubles, ringDouble := 0, false
	for _, bi := range m.adj[i] {
		switch m.Bonds[bi].Order {
		case BondDouble:
			doubles++
			if ri.BondInRing(bi) {
				ringDouble = true
			}
		case BondTriple, BondQuadruple:
			return -1
		}
	}
	switch {
	case doubles > 1:
		return -1
	case doubles == 1 && ringDouble:
		return 1
	case doubles == 1:
		return 0
	}
	switch a.Element {
	case elemN, elemP, elemAs:
		if a.Charge > 0 {
			return -1
		}
		return 2
	case elemO, elemS, elemSe, elemTe:
		return 2
	case elemC:
		switch {
		case a.Charge < 0:
			return 2
		case a.Charge > 0:
			return 0
		}
		return -1
	case elemB:
		if a.Charge == 0 {
			return 0
		}
		return -1
	}
	return -1
}

// perceiveAromaticity marks every ring (and fused pair perimeter) holding
// 4n+2 π electrons as aromatic.  The molecule must be in Kekulé form.
func (m *Molecule) perceiveAromaticity(ri *RingInfo) {
	pi := make([]int, len(m.Atoms))
	for i := range m.Atoms {
		m.Atoms[i].Aromatic = false
		pi[i] = m.piElectrons(i, ri)
	}
	candidates := append(append([]Ring(nil), ri.Rings...), ri.fusedEnvelopes(maxEnvelopeSize)...)
	aromaticBond := make([]bool, len(m.Bonds))
	for _, r := range candidates {
		total := 0
		ok := true
		for _, a := range r.Atoms {
			if pi[a] < 0 {
				ok = false
				break
			}
			total += pi[a]
		}
		if !ok || total%4 != 2 {
			continue
		}
		for _, a := range r.Atoms {
			m.Atoms[a].Aromatic = true
		}
		for _, bi := range r.Bonds {
			aromaticBond[bi] = true
		}
	}
	for i := range m.Bonds {
		if aromaticBond[i] {
			m.Bonds[i].Order = BondAromatic
		}
	}
}

// cleanStereo removes descriptors that do not fit the structure: double
// bond configurations on aromatic bonds or in rings smaller than eight, and
// references to atoms that are not neighbours.
func (m *Molecule) cleanStereo(ri *RingInfo) {
	for i := range m.Bonds {
		b := &m.Bonds[i]
		s := b.Stereo
		if s == nil {
			continue
		}
		switch {
		case b.Order != BondDouble:
			b.Stereo = nil
		case ri.BondInRing(i) && ri.SmallestRingSize(i) < 8:
			b.Stereo = nil
		case m.BondBetween(b.Begin, s.RefBegin) < 0 || s.RefBegin == b.End:
			b.Stereo = nil
		case m.BondBetween(b.End, s.RefEnd) < 0 || s.RefEnd == b.Begin:
			b.Stereo = nil
		}
	}
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Chirality == ChiralityNone {
			a.StereoRefs = nil
			continue
		}
		if !m.validTetrahedral(i) {
			a.Chirality = ChiralityNone
			a.StereoRefs = nil
		}
	}
}

// validTetrahedral checks that the stored references of atom i are exactly
// its four neighbours, counting at most one implicit hydrogen.
func (m *Molecule) validTetrahedral(i int) bool {
	a := &m.Atoms[i]
	if len(a.StereoRefs) != 4 || a.HCount > 1 || len(m.adj[i])+a.HCount != 4 {
		return false
	}
	hs := 0
	seen := map[int]bool{}
	for _, r := range a.StereoRefs {
		if r == ImplicitH {
			hs++
			continue
		}
		if seen[r] || m.BondBetween(i, r) < 0 {
			return false
		}
		seen[r] = true
	}
	return hs == a.HCount
}

//Personal.AI order the ending
