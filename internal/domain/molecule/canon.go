package molecule

import (
	"slices"
)

// stereoRankingLimit caps the number of complete rankings compared when a
// molecule carries stereo descriptors.
const stereoRankingLimit = 128

// Canonicalize parses smiles and returns its canonical form.
func Canonicalize(smiles string) (string, error) {
	m, err := ParseSMILES(smiles)
	if err != nil {
		return "", err
	}
	return m.CanonicalSMILES(), nil
}

// CanonicalSMILES returns the canonical SMILES of m.  The result depends
// only on the normalized structure, not on atom order or input spelling.
func (m *Molecule) CanonicalSMILES() string {
	if len(m.Atoms) == 0 {
		return ""
	}
	w := m.Clone()
	ri := w.Rings()
	classes := w.refine(w.atomInvariants(ri))
	w.dropSymmetricStereo(classes)

	limit := 1
	if w.hasStereo() {
		limit = stereoRankingLimit
	}
	best := ""
	for _, ranks := range w.rankings(classes, limit) {
		s := w.writeSMILES(ranks)
		if best == "" || s < best {
			best = s
		}
	}
	return best
}

// SymmetryClasses returns, for every atom, the index of its class of
// topologically equivalent atoms.  Stereo is not considered.
func (m *Molecule) SymmetryClasses() []int {
	return m.refine(m.atomInvariants(m.Rings()))
}

// ─────────────────────────────────────────────────────────────────────────────
// Invariants and refinement
// ─────────────────────────────────────────────────────────────────────────────

func (m *Molecule) atomInvariants(ri *RingInfo) []int {
	keys := make([][]int, len(m.Atoms))
	for i, a := range m.Atoms {
		aromatic, ring := 0, 0
		if a.Aromatic {
			aromatic = 1
		}
		if ri.AtomInRing(i) {
			ring = 1
		}
		keys[i] = []int{a.Element, a.Isotope, a.Charge, a.HCount, len(m.adj[i]), aromatic, ring, a.Class}
	}
	return denseRank(keys)
}

// refine splits rank classes by the sorted ranks and bond orders of their
// neighbours until no class splits further.  The relative order of
// existing classes is kept.
func (m *Molecule) refine(ranks []int) []int {
	classes := countClasses(ranks)
	for {
		keys := make([][]int, len(ranks))
		for a := range ranks {
			pairs := make([][2]int, 0, len(m.adj[a]))
			for _, bi := range m.adj[a] {
				n := m.Bonds[bi].Other(a)
				pairs = append(pairs, [2]int{ranks[n], int(m.Bonds[bi].Order)})
			}
			slices.SortFunc(pairs, func(x, y [2]int) int {
				if x[0] != y[0] {
					return x[0] - y[0]
				}
				return x[1] - y[1]
			})
			key := make([]int, 0, 1+2*len(pairs))
			key = append(key, ranks[a])
			for _, p := range pairs {
				key = append(key, p[0], p[1])
			}
			keys[a] = key
		}
		next := denseRank(keys)
		c := countClasses(next)
		ranks = next
		if c == classes {
			return ranks
		}
		classes = c
	}
}

// rankings completes the partial ranking by repeatedly promoting one atom of
// the lowest tied class.  Up to limit complete rankings are produced by
// trying every member of each tied class in turn.
func (m *Molecule) rankings(base []int, limit int) [][]int {
	var out [][]int
	var walk func(r []int)
	walk = func(r []int) {
		if len(out) >= limit {
			return
		}
		tied := lowestTie(r)
		if tied == nil {
			out = append(out, r)
			return
		}
		choices := tied
		if m.interchangeable(tied) {
			choices = tied[:1]
		}
		for _, pick := range choices {
			if len(out) >= limit {
				return
			}
			walk(m.refine(promote(r, pick)))
		}
	}
	walk(base)
	return out
}

// interchangeable reports whether the tied atoms are unbranched terminal
// atoms on one common neighbour, so any choice among them gives the same
// output.
func (m *Molecule) interchangeable(tied []int) bool {
	common := -1
	for _, a := range tied {
		if len(m.adj[a]) != 1 || m.Atoms[a].Chirality != ChiralityNone {
			return false
		}
		n := m.Bonds[m.adj[a][0]].Other(a)
		if common >= 0 && n != common {
			return false
		}
		common = n
	}
	return true
}

func lowestTie(ranks []int) []int {
	counts := make(map[int]int, len(ranks))
	for _, r := range ranks {
		counts[r]++
	}
	low := -1
	for r, c := range counts {
		if c > 1 && (low < 0 || r < low) {
			low = r
		}
	}
	if low < 0 {
		return nil
	}
	var tied []int
	for a, r := range ranks {
		if r == low {
			tied = append(tied, a)
		}
	}
	return tied
}

// promote places pick ahead of the other members of its class.
func promote(ranks []int, pick int) []int {
	keys := make([][]int, len(ranks))
	for a, r := range ranks {
		k := 2*r + 1
		if a == pick {
			k = 2 * r
		}
		keys[a] = []int{k}
	}
	return denseRank(keys)
}

// denseRank assigns 0-based ranks so that equal keys share a rank and
// smaller keys get smaller ranks.
func denseRank(keys [][]int) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return slices.Compare(keys[a], keys[b]) })
	ranks := make([]int, len(keys))
	r := 0
	for i, a := range idx {
		if i > 0 && slices.Compare(keys[idx[i-1]], keys[a]) != 0 {
			r++
		}
		ranks[a] = r
	}
	return ranks
}

func countClasses(ranks []int) int {
	seen := make(map[int]struct{}, len(ranks))
	for _, r := range ranks {
		seen[r] = struct{}{}
	}
	return len(seen)
}

//Personal.AI order the ending
