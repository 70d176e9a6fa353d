package molecule

import (
	"fmt"
	"slices"
	"strings"
)

// SMILES writes m using the atom order it was built with.  It is meant for
// diagnostics; use CanonicalSMILES for identity.
func (m *Molecule) SMILES() string {
	ranks := make([]int, len(m.Atoms))
	for i := range ranks {
		ranks[i] = i
	}
	return m.writeSMILES(ranks)
}

type smilesWriter struct {
	m    *Molecule
	rank []int

	visited  []bool
	pos      []int
	next     int
	isTree   []bool
	isBack   []bool
	children [][]int
	closings [][]int
	openings [][]int
	from     []int

	digitOf []int
	inUse   map[int]bool
	marks   []byte
	sb      strings.Builder
}

// writeSMILES emits m with neighbours visited in ascending rank order.
// ranks must be distinct.
func (m *Molecule) writeSMILES(ranks []int) string {
	n := len(m.Atoms)
	w := &smilesWriter{
		m:        m,
		rank:     ranks,
		visited:  make([]bool, n),
		pos:      make([]int, n),
		isTree:   make([]bool, len(m.Bonds)),
		isBack:   make([]bool, len(m.Bonds)),
		children: make([][]int, n),
		closings: make([][]int, n),
		openings: make([][]int, n),
		from:     make([]int, len(m.Bonds)),
		digitOf:  make([]int, len(m.Bonds)),
		inUse:    map[int]bool{},
		marks:    make([]byte, len(m.Bonds)),
	}

	roots := w.roots()
	for _, r := range roots {
		w.explore(r, -1)
	}
	w.planDirections()
	for i, r := range roots {
		if i > 0 {
			w.sb.WriteByte('.')
		}
		w.write(r, -1)
	}
	return w.sb.String()
}

// roots returns the start atom of every component: the lowest-ranked atom
// among those with the fewest neighbours.  Components are ordered by the
// rank of their start atom.
func (w *smilesWriter) roots() []int {
	var roots []int
	for _, comp := range w.m.Components() {
		best := comp[0]
		for _, a := range comp[1:] {
			da, db := len(w.m.adj[a]), len(w.m.adj[best])
			if da < db || (da == db && w.rank[a] < w.rank[best]) {
				best = a
			}
		}
		roots = append(roots, best)
	}
	slices.SortFunc(roots, func(a, b int) int { return w.rank[a] - w.rank[b] })
	return roots
}

func (w *smilesWriter) bondsByRank(a int) []int {
	bonds := append([]int(nil), w.m.adj[a]...)
	slices.SortFunc(bonds, func(x, y int) int {
		return w.rank[w.m.Bonds[x].Other(a)] - w.rank[w.m.Bonds[y].Other(a)]
	})
	return bonds
}

// explore is the first depth-first pass: it fixes the spanning tree, the
// ring-closure bonds and the output position of every atom.
func (w *smilesWriter) explore(a, via int) {
	w.visited[a] = true
	w.pos[a] = w.next
	w.next++
	for _, bi := range w.bondsByRank(a) {
		if bi == via {
			continue
		}
		n := w.m.Bonds[bi].Other(a)
		if w.visited[n] {
			if !w.isTree[bi] && !w.isBack[bi] {
				w.isBack[bi] = true
				w.from[bi] = a
				w.closings[a] = append(w.closings[a], bi)
				w.openings[n] = append(w.openings[n], bi)
			}
			continue
		}
		w.isTree[bi] = true
		w.from[bi] = a
		w.children[a] = append(w.children[a], bi)
		w.explore(n, bi)
	}
}

func (w *smilesWriter) planDirections() {
	var stereo []int
	for bi, b := range w.m.Bonds {
		if b.Stereo != nil && b.Order == BondDouble {
			stereo = append(stereo, bi)
		}
	}
	if len(stereo) == 0 {
		return
	}
	key := func(bi int) (int, int) {
		p, q := w.pos[w.m.Bonds[bi].Begin], w.pos[w.m.Bonds[bi].End]
		if q < p {
			p, q = q, p
		}
		return p, q
	}
	slices.SortFunc(stereo, func(x, y int) int {
		px, qx := key(x)
		py, qy := key(y)
		if px != py {
			return px - py
		}
		return qx - qy
	})
	plan := &directionPlan{m: w.m, writtenFrom: w.from, pos: w.pos, marks: w.marks}
	for _, bi := range stereo {
		plan.place(bi)
	}
}

func (w *smilesWriter) lowestFreeDigit(reserved map[int]bool) int {
	for d := 1; ; d++ {
		if !w.inUse[d] && !reserved[d] {
			return d
		}
	}
}

func ringDigit(d int) string {
	if d < 10 {
		return string(rune('0' + d))
	}
	return fmt.Sprintf("%%%d", d)
}

func (w *smilesWriter) bondSymbol(bi int) string {
	if c := w.marks[bi]; c != 0 {
		return string(c)
	}
	b := &w.m.Bonds[bi]
	switch b.Order {
	case BondDouble:
		return "="
	case BondTriple:
		return "#"
	case BondQuadruple:
		return "$"
	case BondSingle:
		if w.m.Atoms[b.Begin].Aromatic && w.m.Atoms[b.End].Aromatic {
			return "-"
		}
	}
	return ""
}

func (w *smilesWriter) write(a, via int) {
	m := w.m
	at := &m.Atoms[a]

	var order []int
	if via >= 0 {
		order = append(order, m.Bonds[via].Other(a))
	}
	if at.Chirality != ChiralityNone && at.HCount == 1 {
		order = append(order, ImplicitH)
	}

	byPartner := func(bonds []int) []int {
		out := append([]int(nil), bonds...)
		slices.SortFunc(out, func(x, y int) int {
			return w.rank[m.Bonds[x].Other(a)] - w.rank[m.Bonds[y].Other(a)]
		})
		return out
	}

	var ring strings.Builder
	released := map[int]bool{}
	for _, bi := range byPartner(w.closings[a]) {
		d := w.digitOf[bi]
		ring.WriteString(w.bondSymbol(bi))
		ring.WriteString(ringDigit(d))
		released[d] = true
		order = append(order, m.Bonds[bi].Other(a))
	}
	for _, bi := range byPartner(w.openings[a]) {
		d := w.lowestFreeDigit(released)
		w.inUse[d] = true
		w.digitOf[bi] = d
		ring.WriteString(ringDigit(d))
		order = append(order, m.Bonds[bi].Other(a))
	}
	for d := range released {
		delete(w.inUse, d)
	}
	for _, bi := range w.children[a] {
		order = append(order, m.Bonds[bi].Other(a))
	}

	w.sb.WriteString(w.atomToken(a, m.ChiralityFor(a, order)))
	w.sb.WriteString(ring.String())

	last := len(w.children[a]) - 1
	for i, bi := range w.children[a] {
		child := m.Bonds[bi].Other(a)
		if i < last {
			w.sb.WriteByte('(')
			w.sb.WriteString(w.bondSymbol(bi))
			w.write(child, bi)
			w.sb.WriteByte(')')
			continue
		}
		w.sb.WriteString(w.bondSymbol(bi))
		w.write(child, bi)
	}
}

func (w *smilesWriter) atomToken(a int, chirality Chirality) string {
	at := &w.m.Atoms[a]
	sym := Symbol(at.Element)
	if at.Aromatic {
		sym = strings.ToLower(sym)
	}
	if organicSubset[at.Element] && at.Isotope == 0 && at.Charge == 0 && at.Class == 0 && chirality == ChiralityNone {
		if h, ok := w.m.ImpliedHydrogens(a); ok && h == at.HCount {
			return sym
		}
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if at.Isotope > 0 {
		fmt.Fprintf(&sb, "%d", at.Isotope)
	}
	sb.WriteString(sym)
	switch chirality {
	case ChiralityCCW:
		sb.WriteString("@")
	case ChiralityCW:
		sb.WriteString("@@")
	}
	if at.HCount > 0 {
		sb.WriteByte('H')
		if at.HCount > 1 {
			fmt.Fprintf(&sb, "%d", at.HCount)
		}
	}
	switch {
	case at.Charge == 1:
		sb.WriteByte('+')
	case at.Charge == -1:
		sb.WriteByte('-')
	case at.Charge > 1:
		fmt.Fprintf(&sb, "+%d", at.Charge)
	case at.Charge < -1:
		fmt.Fprintf(&sb, "-%d", -at.Charge)
	}
	if at.Class > 0 {
		fmt.Fprintf(&sb, ":%d", at.Class)
	}
	sb.WriteByte(']')
	return sb.String()
}

//Personal.AI order the ending
