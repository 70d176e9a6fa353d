package molecule

import (
	"fmt"
	"slices"
)

// Ring is a cycle of the molecular graph.  Atoms are listed around the
// cycle; Bonds are sorted.
type Ring struct {
	Atoms []int
	Bonds []int
}

// Size returns the number of atoms in the ring.
func (r Ring) Size() int { return len(r.Atoms) }

// RingInfo summarizes the cycles of a molecule.
type RingInfo struct {
	// Rings holds, for every ring bond, the smallest cycle through it,
	// deduplicated.
	Rings []Ring

	bondRingSize []int
	atomInRing   []bool
}

// BondInRing reports whether bond bi lies on a cycle.
func (ri *RingInfo) BondInRing(bi int) bool { return ri.bondRingSize[bi] > 0 }

// AtomInRing reports whether atom a lies on a cycle.
func (ri *RingInfo) AtomInRing(a int) bool { return ri.atomInRing[a] }

// SmallestRingSize returns the size of the smallest cycle through bond bi,
// or 0 for a chain bond.
func (ri *RingInfo) SmallestRingSize(bi int) int { return ri.bondRingSize[bi] }

// Rings computes the ring information of a molecule.  The result reflects
// the graph at the time of the call.
func (m *Molecule) Rings() *RingInfo {
	ri := &RingInfo{
		bondRingSize: make([]int, len(m.Bonds)),
		atomInRing:   make([]bool, len(m.Atoms)),
	}
	seen := map[string]bool{}
	for bi := range m.Bonds {
		ring, ok := m.smallestCycleThrough(bi)
		if !ok {
			continue
		}
		key := fmt.Sprint(ring.Bonds)
		if !seen[key] {
			seen[key] = true
			ri.Rings = append(ri.Rings, ring)
		}
	}
	for _, r := range ri.Rings {
		for _, bi := range r.Bonds {
			if ri.bondRingSize[bi] == 0 || r.Size() < ri.bondRingSize[bi] {
				ri.bondRingSize[bi] = r.Size()
			}
		}
		for _, a := range r.Atoms {
			ri.atomInRing[a] = true
		}
	}
	return ri
}

// smallestCycleThrough finds the shortest path between the ends of bond bi
// that avoids bi itself.
func (m *Molecule) smallestCycleThrough(bi int) (Ring, bool) {
	from, to := m.Bonds[bi].Begin, m.Bonds[bi].End
	parent := make([]int, len(m.Atoms))
	via := make([]int, len(m.Atoms))
	for i := range parent {
		parent[i] = -2
	}
	parent[from] = -1
	queue := []int{from}
	for len(queue) > 0 && parent[to] == -2 {
		a := queue[0]
		queue = queue[1:]
		for _, nb := range m.adj[a] {
			if nb == bi {
				continue
			}
			n := m.Bonds[nb].Other(a)
			if parent[n] != -2 {
				continue
			}
			parent[n], via[n] = a, nb
			queue = append(queue, n)
		}
	}
	if parent[to] == -2 {
		return Ring{}, false
	}
	ring := Ring{Bonds: []int{bi}}
	for a := to; a != from; a = parent[a] {
		ring.Atoms = append(ring.Atoms, a)
		ring.Bonds = append(ring.Bonds, via[a])
	}
	ring.Atoms = append(ring.Atoms, from)
	slices.Sort(ring.Bonds)
	return ring, true
}

// fusedEnvelopes returns the perimeter of every pair of rings that share
// exactly one bond, up to maxSize atoms.  Atoms are unordered.
func (ri *RingInfo) fusedEnvelopes(maxSize int) []Ring {
	var out []Ring
	for i := 0; i < len(ri.Rings); i++ {
		for j := i + 1; j < len(ri.Rings); j++ {
			a, b := ri.Rings[i], ri.Rings[j]
			shared := intersectSorted(a.Bonds, b.Bonds)
			if len(shared) != 1 || a.Size()+b.Size()-2 > maxSize {
				continue
			}
			env := Ring{}
			for _, x := range a.Bonds {
				if x != shared[0] {
					env.Bonds = append(env.Bonds, x)
				}
			}
			for _, x := range b.Bonds {
				if x != shared[0] {
					env.Bonds = append(env.Bonds, x)
				}
			}
			slices.Sort(env.Bonds)
			atoms := map[int]bool{}
			for _, x := range a.Atoms {
				atoms[x] = true
			}
			for _, x := range b.Atoms {
				atoms[x] = true
			}
			for x := range atoms {
				env.Atoms = append(env.Atoms, x)
			}
			slices.Sort(env.Atoms)
			out = append(out, env)
		}
	}
	return out
}

func intersectSorted(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

//Personal.AI order the ending
