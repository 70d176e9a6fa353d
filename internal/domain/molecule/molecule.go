// Package molecule provides the structure model CIM uses to normalize the
// Smiles identity column: a hydrogen-suppressed molecular graph, a SMILES
// parser and writer, aromaticity perception, canonical atom ranking, stereo
// bookkeeping and kekulization.
//
// A Molecule produced by ParseSMILES (or by any reader that ends with
// Sanitize) is in a normalized state: explicit hydrogen atoms are folded
// into hydrogen counts, aromaticity is perceived from a Kekulé form, and
// stereo descriptors reference neighbour atoms rather than text positions.
// Canonical output is a pure function of that state.
package molecule

import (
	"fmt"
	"slices"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Bonds
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder is the multiplicity of a bond.  BondAromatic marks a bond of a
// perceived aromatic ring.
type BondOrder int

const (
	BondSingle    BondOrder = 1
	BondDouble    BondOrder = 2
	BondTriple    BondOrder = 3
	BondQuadruple BondOrder = 4
	BondAromatic  BondOrder = 5
)

// valence returns the bond's contribution to an atom's explicit valence, with
// aromatic bonds counted as one.
func (o BondOrder) valence() int {
	if o == BondAromatic {
		return 1
	}
	return int(o)
}

// Chirality is a tetrahedral parity relative to an ordered neighbour list.
type Chirality int

const (
	ChiralityNone Chirality = iota
	// ChiralityCCW: looking from the first reference, the other three run
	// anticlockwise (SMILES "@").
	ChiralityCCW
	// ChiralityCW: clockwise (SMILES "@@").
	ChiralityCW
)

func (c Chirality) invert() Chirality {
	switch c {
	case ChiralityCCW:
		return ChiralityCW
	case ChiralityCW:
		return ChiralityCCW
	}
	return c
}

// ImplicitH is the neighbour reference used for an implicit hydrogen in a
// tetrahedral descriptor.
const ImplicitH = -1

// BondStereo records the configuration of a double bond as the relation of one
// neighbour of each end.
type BondStereo struct {
	// RefBegin is a neighbour of the bond's Begin atom, RefEnd one of End.
	RefBegin, RefEnd int
	// Cis is true when RefBegin and RefEnd lie on the same side.
	Cis bool
}

// Bond connects atoms Begin and End.
type Bond struct {
	Begin, End int
	Order      BondOrder
	// Stereo is set on double bonds with a defined configuration.
	Stereo *BondStereo
}

// Other returns the atom at the other end of the bond from a.
func (b *Bond) Other(a int) int {
	if b.Begin == a {
		return b.End
	}
	return b.Begin
}

// ─────────────────────────────────────────────────────────────────────────────
// Atoms
// ─────────────────────────────────────────────────────────────────────────────

// Atom is one heavy atom.  Hydrogens are normally carried in HCount.
type Atom struct {
	Element  int
	Isotope  int
	Charge   int
	HCount   int
	Aromatic bool
	Class    int
	// Bracket is true when the hydrogen count was given explicitly rather
	// than derived from default valences.
	Bracket bool

	Chirality Chirality
	// StereoRefs is the neighbour order Chirality refers to.  It holds atom
	// indices, with ImplicitH standing for the hydrogen.
	StereoRefs []int
}

// Symbol returns the element symbol.
func (a *Atom) Symbol() string { return Symbol(a.Element) }

// ─────────────────────────────────────────────────────────────────────────────
// Molecule
// ─────────────────────────────────────────────────────────────────────────────

// Molecule is an undirected multigraph-free molecular graph.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond
	// Name is an optional title, e.g. the first line of a molfile.
	Name string

	adj [][]int
}

// New returns an empty molecule.
func New() *Molecule { return &Molecule{} }

// AddAtom appends an atom and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	m.Atoms = append(m.Atoms, a)
	m.adj = append(m.adj, nil)
	return len(m.Atoms) - 1
}

// AddBond connects a and b and returns the bond index.  Connecting an atom
// to itself or an already bonded pair is an error.
func (m *Molecule) AddBond(a, b int, order BondOrder) (int, error) {
	if a == b {
		return -1, fmt.Errorf("atom %d bonded to itself", a)
	}
	if a < 0 || b < 0 || a >= len(m.Atoms) || b >= len(m.Atoms) {
		return -1, fmt.Errorf("bond %d-%d references a missing atom", a, b)
	}
	if m.BondBetween(a, b) >= 0 {
		return -1, fmt.Errorf("atoms %d and %d are already bonded", a, b)
	}
	m.Bonds = append(m.Bonds, Bond{Begin: a, End: b, Order: order})
	i := len(m.Bonds) - 1
	m.adj[a] = append(m.adj[a], i)
	m.adj[b] = append(m.adj[b], i)
	return i, nil
}

// AtomBonds returns the indices of the bonds incident to atom a.
func (m *Molecule) AtomBonds(a int) []int { return m.adj[a] }

// Neighbors returns the atoms bonded to a, in bond insertion order.
func (m *Molecule) Neighbors(a int) []int {
	out := make([]int, len(m.adj[a]))
	for i, bi := range m.adj[a] {
		out[i] = m.Bonds[bi].Other(a)
	}
	return out
}

// Degree returns the number of explicit neighbours of a.
func (m *Molecule) Degree(a int) int { return len(m.adj[a]) }

// BondBetween returns the index of the bond joining a and b, or -1.
func (m *Molecule) BondBetween(a, b int) int {
	if a < 0 || a >= len(m.adj) {
		return -1
	}
	for _, bi := range m.adj[a] {
		if m.Bonds[bi].Other(a) == b {
			return bi
		}
	}
	return -1
}

// explicitValence sums the valence contributions of a's bonds.
func (m *Molecule) explicitValence(a int) int {
	v := 0
	for _, bi := range m.adj[a] {
		v += m.Bonds[bi].Order.valence()
	}
	return v
}

// HeavyAtomCount returns the number of atoms in the graph.
func (m *Molecule) HeavyAtomCount() int { return len(m.Atoms) }

// Clone returns a deep copy.
func (m *Molecule) Clone() *Molecule {
	c := &Molecule{
		Atoms: make([]Atom, len(m.Atoms)),
		Bonds: make([]Bond, len(m.Bonds)),
		Name:  m.Name,
		adj:   make([][]int, len(m.adj)),
	}
	copy(c.Atoms, m.Atoms)
	for i := range c.Atoms {
		if refs := m.Atoms[i].StereoRefs; refs != nil {
			c.Atoms[i].StereoRefs = append([]int(nil), refs...)
		}
	}
	copy(c.Bonds, m.Bonds)
	for i := range c.Bonds {
		if s := m.Bonds[i].Stereo; s != nil {
			cp := *s
			c.Bonds[i].Stereo = &cp
		}
	}
	for i, l := range m.adj {
		c.adj[i] = append([]int(nil), l...)
	}
	return c
}

// Components partitions the atoms into connected components, each listed in
// ascending atom order, components ordered by their first atom.
func (m *Molecule) Components() [][]int {
	seen := make([]bool, len(m.Atoms))
	var out [][]int
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		var comp []int
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			a := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, a)
			for _, n := range m.Neighbors(a) {
				if !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
		slices.Sort(comp)
		out = append(out, comp)
	}
	return out
}

// Formula returns the Hill-order molecular formula, e.g. "C6H6O".
func (m *Molecule) Formula() string {
	counts := map[int]int{}
	h := 0
	charge := 0
	for _, a := range m.Atoms {
		counts[a.Element]++
		h += a.HCount
		charge += a.Charge
	}
	if h > 0 {
		counts[elemH] += h
	}
	var sb strings.Builder
	write := func(z int) {
		n := counts[z]
		if n == 0 {
			return
		}
		sb.WriteString(Symbol(z))
		if n > 1 {
			fmt.Fprintf(&sb, "%d", n)
		}
		delete(counts, z)
	}
	if counts[elemC] > 0 {
		write(elemC)
		write(elemH)
	}
	rest := make([]string, 0, len(counts))
	bySymbol := map[string]int{}
	for z := range counts {
		rest = append(rest, Symbol(z))
		bySymbol[Symbol(z)] = z
	}
	slices.Sort(rest)
	for _, s := range rest {
		write(bySymbol[s])
	}
	switch {
	case charge > 0:
		sb.WriteString("+")
		if charge > 1 {
			fmt.Fprintf(&sb, "%d", charge)
		}
	case charge < 0:
		sb.WriteString("-")
		if charge < -1 {
			fmt.Fprintf(&sb, "%d", -charge)
		}
	}
	return sb.String()
}

// removeAtoms deletes the flagged atoms and their bonds, remapping every
// stored index.  Stereo references to removed atoms become ImplicitH for
// tetrahedral centres; double-bond stereo referencing a removed atom is
// dropped, callers re-anchor it beforehand when possible.
func (m *Molecule) removeAtoms(remove []bool) {
	newIndex := make([]int, len(m.Atoms))
	var atoms []Atom
	for i, a := range m.Atoms {
		if remove[i] {
			newIndex[i] = -1
			continue
		}
		newIndex[i] = len(atoms)
		atoms = append(atoms, a)
	}
	for i := range atoms {
		refs := atoms[i].StereoRefs
		if refs == nil {
			continue
		}
		nr := make([]int, len(refs))
		for k, r := range refs {
			if r == ImplicitH || newIndex[r] < 0 {
				nr[k] = ImplicitH
			} else {
				nr[k] = newIndex[r]
			}
		}
		atoms[i].StereoRefs = nr
	}
	var bonds []Bond
	for _, b := range m.Bonds {
		if remove[b.Begin] || remove[b.End] {
			continue
		}
		b.Begin, b.End = newIndex[b.Begin], newIndex[b.End]
		if s := b.Stereo; s != nil {
			if newIndex[s.RefBegin] < 0 || newIndex[s.RefEnd] < 0 {
				b.Stereo = nil
			} else {
				b.Stereo = &BondStereo{RefBegin: newIndex[s.RefBegin], RefEnd: newIndex[s.RefEnd], Cis: s.Cis}
			}
		}
		bonds = append(bonds, b)
	}
	m.Atoms = atoms
	m.Bonds = bonds
	m.rebuildAdjacency()
}

func (m *Molecule) rebuildAdjacency() {
	m.adj = make([][]int, len(m.Atoms))
	for i, b := range m.Bonds {
		m.adj[b.Begin] = append(m.adj[b.Begin], i)
		m.adj[b.End] = append(m.adj[b.End], i)
	}
}

//Personal.AI order the ending
