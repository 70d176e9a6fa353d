package molecule

// ─────────────────────────────────────────────────────────────────────────────
// Stereo descriptors
// ─────────────────────────────────────────────────────────────────────────────

// hasStereo reports whether any tetrahedral centre or double-bond
// configuration is set.
func (m *Molecule) hasStereo() bool {
	for _, a := range m.Atoms {
		if a.Chirality != ChiralityNone {
			return true
		}
	}
	for _, b := range m.Bonds {
		if b.Stereo != nil {
			return true
		}
	}
	return false
}

// StereoCenters returns the atoms with a tetrahedral descriptor.
func (m *Molecule) StereoCenters() []int {
	var out []int
	for i, a := range m.Atoms {
		if a.Chirality != ChiralityNone {
			out = append(out, i)
		}
	}
	return out
}

// dropSymmetricStereo clears descriptors that cannot distinguish anything
// under the given symmetry classes.  A double bond end carrying two
// equivalent substituents loses its configuration.  A centre keeps its
// parity when its neighbours are pairwise distinct, or when exactly two are
// equivalent and both of their branches reach another kept stereo element;
// that covers relative configurations such as cis and trans
// 1,4-disubstituted rings.
func (m *Molecule) dropSymmetricStereo(classes []int) {
	for i := range m.Bonds {
		b := &m.Bonds[i]
		if b.Stereo == nil {
			continue
		}
		if m.symmetricEnd(b.Begin, b.End, classes) || m.symmetricEnd(b.End, b.Begin, classes) {
			b.Stereo = nil
		}
	}

	dependent := map[int][2]int{}
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Chirality == ChiralityNone {
			continue
		}
		pair, ok := m.equivalentPair(i, classes)
		switch {
		case !ok:
			a.Chirality, a.StereoRefs = ChiralityNone, nil
		case pair[0] >= 0:
			dependent[i] = pair
		}
	}
	for changed := true; changed; {
		changed = false
		for c, pair := range dependent {
			if m.branchHasStereo(c, pair[0]) && m.branchHasStereo(c, pair[1]) {
				continue
			}
			m.Atoms[c].Chirality, m.Atoms[c].StereoRefs = ChiralityNone, nil
			delete(dependent, c)
			changed = true
		}
	}
}

// equivalentPair inspects the neighbour classes of centre i.  It returns
// {-1, -1} if all neighbours are distinct and the two neighbours of the
// only repeated class if there is exactly one such pair; ok is false for
// any other pattern.
func (m *Molecule) equivalentPair(i int, classes []int) (pair [2]int, ok bool) {
	pair = [2]int{-1, -1}
	byClass := map[int][]int{}
	for _, n := range m.Neighbors(i) {
		byClass[classes[n]] = append(byClass[classes[n]], n)
	}
	for _, members := range byClass {
		switch {
		case len(members) == 1:
		case len(members) == 2 && pair[0] < 0:
			pair = [2]int{members[0], members[1]}
		default:
			return pair, false
		}
	}
	return pair, true
}

// branchHasStereo reports whether the part of the molecule reached from
// start without passing through centre holds a tetrahedral descriptor or a
// double-bond configuration.
func (m *Molecule) branchHasStereo(centre, start int) bool {
	seen := map[int]bool{centre: true, start: true}
	queue := []int{start}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		if m.Atoms[x].Chirality != ChiralityNone {
			return true
		}
		for _, bi := range m.adj[x] {
			b := m.Bonds[bi]
			if b.Stereo != nil {
				return true
			}
			if n := b.Other(x); !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return false
}

func (m *Molecule) symmetricEnd(e, partner int, classes []int) bool {
	var subs []int
	for _, n := range m.Neighbors(e) {
		if n != partner {
			subs = append(subs, n)
		}
	}
	switch len(subs) {
	case 0:
		return true
	case 1:
		return false
	}
	return classes[subs[0]] == classes[subs[1]]
}

// ChiralityFor translates atom i's tetrahedral descriptor to the given
// neighbour order (which may hold ImplicitH once).  The result is
// ChiralityNone if the order does not name the same four neighbours.
func (m *Molecule) ChiralityFor(i int, order []int) Chirality {
	a := &m.Atoms[i]
	if a.Chirality == ChiralityNone || len(order) != len(a.StereoRefs) {
		return ChiralityNone
	}
	perm := make([]int, len(order))
	for k, x := range order {
		perm[k] = -1
		for j, r := range a.StereoRefs {
			if r == x {
				perm[k] = j
				break
			}
		}
		if perm[k] < 0 {
			return ChiralityNone
		}
	}
	if permutationIsOdd(perm) {
		return a.Chirality.invert()
	}
	return a.Chirality
}

// SetChirality stores a descriptor for atom i relative to order.
func (m *Molecule) SetChirality(i int, order []int, c Chirality) {
	m.Atoms[i].Chirality = c
	m.Atoms[i].StereoRefs = append([]int(nil), order...)
}

func permutationIsOdd(perm []int) bool {
	inv := 0
	for i := 0; i < len(perm); i++ {
		for j := i + 1; j < len(perm); j++ {
			if perm[i] > perm[j] {
				inv++
			}
		}
	}
	return inv%2 == 1
}

// ─────────────────────────────────────────────────────────────────────────────
// Double-bond marks for output
// ─────────────────────────────────────────────────────────────────────────────

// directionPlan assigns '/' and '\' to single bonds so that every stereo
// double bond reads back with its stored configuration.  writtenFrom[bi] is
// the atom the bond symbol follows in the output; order lists the stereo
// double bonds in output order.
type directionPlan struct {
	m           *Molecule
	writtenFrom []int
	pos         []int
	marks       []byte
}

func (d *directionPlan) aboveOf(e, s int, c byte) bool {
	bi := d.m.BondBetween(e, s)
	if d.writtenFrom[bi] == e {
		return c == '/'
	}
	return c == '\\'
}

func (d *directionPlan) markFor(e, s int, above bool) byte {
	bi := d.m.BondBetween(e, s)
	after := d.writtenFrom[bi] == e
	if after == above {
		return '/'
	}
	return '\\'
}

// substituents lists the single-bond neighbours of e other than partner,
// marked bonds first, then by output position.
func (d *directionPlan) substituents(e, partner int) []int {
	var marked, free []int
	for _, bi := range d.m.adj[e] {
		b := d.m.Bonds[bi]
		s := b.Other(e)
		if s == partner || b.Order != BondSingle {
			continue
		}
		if d.marks[bi] != 0 {
			marked = append(marked, s)
		} else {
			free = append(free, s)
		}
	}
	byPos := func(xs []int) {
		for i := 1; i < len(xs); i++ {
			for j := i; j > 0 && d.pos[xs[j]] < d.pos[xs[j-1]]; j-- {
				xs[j], xs[j-1] = xs[j-1], xs[j]
			}
		}
	}
	byPos(marked)
	byPos(free)
	return append(marked, free...)
}

// fits reports whether giving substituent s of e the side above agrees with
// every mark already placed around e.
func (d *directionPlan) fits(e, partner, s int, above bool) bool {
	for _, bi := range d.m.adj[e] {
		b := d.m.Bonds[bi]
		t := b.Other(e)
		if t == partner || d.marks[bi] == 0 {
			continue
		}
		got := d.aboveOf(e, t, d.marks[bi])
		if t == s && got != above {
			return false
		}
		if t != s && got == above {
			return false
		}
	}
	return true
}

// place marks the substituents of one stereo double bond.  e1 is the end
// written first.  It reports false, leaving no new marks, when the existing
// marks leave no consistent choice.
func (d *directionPlan) place(bi int) bool {
	b := d.m.Bonds[bi]
	st := b.Stereo
	e1, e2 := b.Begin, b.End
	ref1, ref2 := st.RefBegin, st.RefEnd
	if d.pos[e2] < d.pos[e1] {
		e1, e2 = e2, e1
		ref1, ref2 = ref2, ref1
	}
	for _, s1 := range d.substituents(e1, e2) {
		b1 := d.m.BondBetween(e1, s1)
		var above1 bool
		if c := d.marks[b1]; c != 0 {
			above1 = d.aboveOf(e1, s1, c)
		} else {
			above1 = d.writtenFrom[b1] == e1
		}
		if !d.fits(e1, e2, s1, above1) {
			continue
		}
		for _, s2 := range d.substituents(e2, e1) {
			cis := st.Cis
			if s1 != ref1 {
				cis = !cis
			}
			if s2 != ref2 {
				cis = !cis
			}
			above2 := above1
			if !cis {
				above2 = !above1
			}
			if !d.fits(e2, e1, s2, above2) {
				continue
			}
			if d.marks[b1] == 0 {
				d.marks[b1] = d.markFor(e1, s1, above1)
			}
			if b2 := d.m.BondBetween(e2, s2); d.marks[b2] == 0 {
				d.marks[b2] = d.markFor(e2, s2, above2)
			}
			return true
		}
	}
	return false
}

//Personal.AI order the ending
