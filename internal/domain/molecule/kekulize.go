package molecule

import (
	"fmt"
)

// kekulizeStepLimit bounds the matching search.  Real ring systems resolve in
// a handful of steps with the fewest-choices ordering.
const kekulizeStepLimit = 200000

// Kekulized returns a copy of m in which every aromatic bond is replaced by
// an alternating single/double pattern and no atom carries an aromatic flag.
func (m *Molecule) Kekulized() (*Molecule, error) {
	c := m.Clone()
	if err := c.kekulize(); err != nil {
		return nil, err
	}
	return c, nil
}

// needsDouble reports whether aromatic atom i has a free valence that one
// double bond must satisfy.
func (m *Molecule) needsDouble(i int) bool {
	a := &m.Atoms[i]
	vals := valencesFor(a.Element, a.Charge)
	if len(vals) == 0 {
		return false
	}
	used := a.HCount
	for _, bi := range m.adj[i] {
		used += m.Bonds[bi].Order.valence()
	}
	v, ok := pickValence(vals, used)
	if !ok {
		return false
	}
	return v-used >= 1
}

func (m *Molecule) kekulize() error {
	hasAromatic := false
	for _, b := range m.Bonds {
		if b.Order == BondAromatic {
			hasAromatic = true
			break
		}
	}
	if !hasAromatic {
		for i := range m.Atoms {
			m.Atoms[i].Aromatic = false
		}
		return nil
	}

	n := len(m.Atoms)
	candidate := make([]bool, n)
	var nodes []int
	for i, a := range m.Atoms {
		if a.Aromatic && m.needsDouble(i) {
			candidate[i] = true
			nodes = append(nodes, i)
		}
	}
	nbrs := make([][]int, n)
	for _, b := range m.Bonds {
		if b.Order != BondAromatic || !candidate[b.Begin] || !candidate[b.End] {
			continue
		}
		nbrs[b.Begin] = append(nbrs[b.Begin], b.End)
		nbrs[b.End] = append(nbrs[b.End], b.Begin)
	}

	mate := make([]int, n)
	for i := range mate {
		mate[i] = -1
	}
	steps := 0
	var solve func() bool
	solve = func() bool {
		steps++
		if steps > kekulizeStepLimit {
			return false
		}
		best, bestCount := -1, n+1
		for _, a := range nodes {
			if mate[a] >= 0 {
				continue
			}
			c := 0
			for _, x := range nbrs[a] {
				if mate[x] < 0 {
					c++
				}
			}
			if c < bestCount {
				best, bestCount = a, c
				if c == 0 {
					break
				}
			}
		}
		if best < 0 {
			return true
		}
		if bestCount == 0 {
			return false
		}
		for _, x := range nbrs[best] {
			if mate[x] >= 0 {
				continue
			}
			mate[best], mate[x] = x, best
			if solve() {
				return true
			}
			mate[best], mate[x] = -1, -1
		}
		return false
	}
	if !solve() {
		return fmt.Errorf("cannot kekulize aromatic system")
	}

	for i := range m.Bonds {
		b := &m.Bonds[i]
		if b.Order != BondAromatic {
			continue
		}
		if mate[b.Begin] == b.End {
			b.Order = BondDouble
		} else {
			b.Order = BondSingle
		}
	}
	for i := range m.Atoms {
		m.Atoms[i].Aromatic = false
	}
	return nil
}

//Personal.AI order the ending
