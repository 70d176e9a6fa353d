package molfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkj0421/CIM/internal/domain/molecule"
	"github.com/pkj0421/CIM/pkg/errors"
)

// MaxAtoms is the largest connection table the V2000 counts line can hold.
const MaxAtoms = 999

// minStereoRing is the smallest ring whose double bonds can carry a
// configuration.
const minStereoRing = 8

// Record is one structure written to an SDF stream.
type Record struct {
	Title    string
	Molecule *molecule.Molecule
	// Coords holds one position per atom.  Nil writes every atom at the
	// origin and no stereo wedges.
	Coords []molecule.Point
	Data   []DataItem
}

// Writer appends records to an SDF stream.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter returns a Writer over w.  Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one record.
func (w *Writer) Write(r Record) error {
	if err := writeMolBlock(w.w, r.Title, r.Molecule, r.Coords); err != nil {
		return err
	}
	for _, d := range r.Data {
		fmt.Fprintf(w.w, "> <%s>\n", d.Name)
		for _, line := range strings.Split(d.Value, "\n") {
			fmt.Fprintln(w.w, line)
		}
		fmt.Fprintln(w.w)
	}
	fmt.Fprintln(w.w, RecordSeparator)
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "flush structure-data file")
	}
	return nil
}

// WriteMolBlock writes a single molfile ending with "M  END".
func WriteMolBlock(w io.Writer, title string, m *molecule.Molecule, coords []molecule.Point) error {
	bw := bufio.NewWriter(w)
	if err := writeMolBlock(bw, title, m, coords); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write molfile")
	}
	return nil
}

func writeMolBlock(w *bufio.Writer, title string, m *molecule.Molecule, coords []molecule.Point) error {
	if m == nil {
		return errors.New(errors.ErrCodeMoleculeConversionFailed, "no molecule to write")
	}
	n := len(m.Atoms)
	if n > MaxAtoms || len(m.Bonds) > MaxAtoms {
		return errors.Newf(errors.ErrCodeMoleculeConversionFailed, "%d atoms and %d bonds exceed the V2000 limit of %d", n, len(m.Bonds), MaxAtoms)
	}
	placed := coords != nil
	if placed && len(coords) != n {
		return errors.Newf(errors.ErrCodeMoleculeConversionFailed, "%d coordinates for %d atoms", len(coords), n)
	}

	k, err := m.Kekulized()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeMoleculeConversionFailed, "kekulize before writing molfile")
	}
	pts := make([]molecule.Point, n)
	copy(pts, coords)

	ri := k.Rings()
	stereo := make([]int, len(k.Bonds))
	first := make([]int, len(k.Bonds))
	for bi, b := range k.Bonds {
		first[bi] = b.Begin
		if b.Order == molecule.BondQuadruple {
			return errors.New(errors.ErrCodeMoleculeConversionFailed, "quadruple bonds have no V2000 bond type")
		}
		if b.Order != molecule.BondDouble {
			continue
		}
		switch {
		case b.Stereo != nil:
			if placed && !ri.BondInRing(bi) {
				orientDoubleBond(k, pts, bi)
			}
		case hasSubstituents(k, b.Begin, b.End) && hasSubstituents(k, b.End, b.Begin):
			if s := ri.SmallestRingSize(bi); s == 0 || s >= minStereoRing {
				stereo[bi] = stereoCisTransEither
			}
		}
	}
	if placed {
		placeWedges(k, pts, stereo, first)
	}

	fmt.Fprintln(w, cleanTitle(title))
	fmt.Fprintf(w, "  %-8s%10s2D\n", "CIM", "")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", n, len(k.Bonds))

	var charges, isotopes [][2]int
	for i := range k.Atoms {
		a := &k.Atoms[i]
		sym := a.Symbol()
		if a.Element == 0 {
			sym = "*"
		}
		vvv := 0
		if h, ok := k.ImpliedHydrogens(i); !ok || h != a.HCount {
			vvv = bondValenceSum(k, i) + a.HCount
			if vvv == 0 {
				vvv = 15
			}
		}
		p := pts[i]
		fmt.Fprintf(w, "%10.4f%10.4f%10.4f %-3s%2d%3d%3d%3d%3d%3d%3d%3d%3d%3d%3d%3d\n",
			p.X, p.Y, p.Z, sym, 0, 0, 0, 0, 0, vvv, 0, 0, 0, a.Class, 0, 0)
		if a.Charge != 0 {
			charges = append(charges, [2]int{i + 1, a.Charge})
		}
		if a.Isotope != 0 {
			isotopes = append(isotopes, [2]int{i + 1, a.Isotope})
		}
	}
	for bi, b := range k.Bonds {
		a1 := first[bi]
		a2 := b.Other(a1)
		fmt.Fprintf(w, "%3d%3d%3d%3d  0  0  0\n", a1+1, a2+1, int(b.Order), stereo[bi])
	}
	writeProperty(w, "CHG", charges)
	writeProperty(w, "ISO", isotopes)
	fmt.Fprintln(w, "M  END")
	return nil
}

func cleanTitle(title string) string {
	title = strings.NewReplacer("\r", " ", "\n", " ").Replace(title)
	if len(title) > 80 {
		title = title[:80]
	}
	return title
}

// writeProperty writes "M  XXX" lines with at most eight entries each.
func writeProperty(w *bufio.Writer, tag string, pairs [][2]int) {
	for len(pairs) > 0 {
		chunk := pairs
		if len(chunk) > 8 {
			chunk = chunk[:8]
		}
		pairs = pairs[len(chunk):]
		fmt.Fprintf(w, "M  %s%3d", tag, len(chunk))
		for _, p := range chunk {
			fmt.Fprintf(w, " %3d %3d", p[0], p[1])
		}
		fmt.Fprintln(w)
	}
}

func bondValenceSum(m *molecule.Molecule, i int) int {
	sum := 0
	for _, bi := range m.AtomBonds(i) {
		sum += bondValence(m.Bonds[bi].Order)
	}
	return sum
}

func hasSubstituents(m *molecule.Molecule, e, partner int) bool {
	for _, n := range m.Neighbors(e) {
		if n != partner {
			return true
		}
	}
	return false
}

// orientDoubleBond mirrors the End side of an acyclic double bond when the
// layout disagrees with the stored configuration.
func orientDoubleBond(m *molecule.Molecule, pts []molecule.Point, bi int) {
	b := m.Bonds[bi]
	st := b.Stereo
	cis, ok := cisOf(pts[b.Begin], pts[b.End], pts[st.RefBegin], pts[st.RefEnd])
	if ok && cis == st.Cis {
		return
	}
	for _, a := range sideOf(m, b.End, b.Begin) {
		pts[a] = pts[a].Reflect(pts[b.Begin], pts[b.End])
	}
}

// sideOf returns the atoms reachable from start without passing through
// block.
func sideOf(m *molecule.Molecule, start, block int) []int {
	seen := map[int]bool{start: true, block: true}
	queue := []int{start}
	var out []int
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		out = append(out, a)
		for _, n := range m.Neighbors(a) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return out
}

// placeWedges gives every tetrahedral centre one wedge or hash bond that
// reproduces its parity from the layout.
func placeWedges(m *molecule.Molecule, pts []molecule.Point, stereo, first []int) {
	for _, c := range m.StereoCenters() {
		refs := m.Atoms[c].StereoRefs
		want := m.Atoms[c].Chirality
		for _, n := range wedgeCandidates(m, c, stereo) {
			bi := m.BondBetween(c, n)
			done := false
			for _, lift := range []float64{1, -1} {
				if chiralityOf(c, refs, pts, true, map[int]float64{n: lift}) != want {
					continue
				}
				stereo[bi] = stereoUp
				if lift < 0 {
					stereo[bi] = stereoDown
				}
				first[bi] = c
				done = true
				break
			}
			if done {
				break
			}
		}
	}
}

// wedgeCandidates lists the neighbours of c joined by a free single bond,
// those that are not centres themselves first.
func wedgeCandidates(m *molecule.Molecule, c int, stereo []int) []int {
	var plain, centres []int
	for _, bi := range m.AtomBonds(c) {
		b := m.Bonds[bi]
		if b.Order != molecule.BondSingle || stereo[bi] != stereoNone {
			continue
		}
		n := b.Other(c)
		if m.Atoms[n].Chirality != molecule.ChiralityNone {
			centres = append(centres, n)
		} else {
			plain = append(plain, n)
		}
	}
	return append(plain, centres...)
}

//Personal.AI order the ending
