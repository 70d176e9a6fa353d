// Package molfile reads and writes MDL V2000 connection tables and the
// structure-data files (SDF) built from them.
//
// Records are split on "$$$$" lines.  Each Entry keeps its title and data
// items separately from the connection table, so a caller can report an
// unparsable structure by its title and keep reading the file.
package molfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkj0421/CIM/internal/domain/molecule"
	"github.com/pkj0421/CIM/pkg/errors"
)

// RecordSeparator terminates every SDF record.
const RecordSeparator = "$$$$"

// DataItem is one "> <name>" field of an SDF record.
type DataItem struct {
	Name  string
	Value string
}

// Entry is one raw SDF record.
type Entry struct {
	// Index is the 0-based position of the record in the file.
	Index int
	// Title is the first line of the connection table.
	Title string
	Data  []DataItem

	block []string
}

// Molecule parses the connection table of the entry.
func (e *Entry) Molecule() (*molecule.Molecule, error) {
	return parseBlock(e.block)
}

// Reader iterates over the records of an SDF stream.
type Reader struct {
	sc    *bufio.Scanner
	index int
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	return &Reader{sc: sc}
}

// Next returns the next record, or io.EOF after the last one.  A trailing
// record without a separator is returned as well.
func (r *Reader) Next() (*Entry, error) {
	var lines []string
	terminated := false
	for r.sc.Scan() {
		line := strings.TrimRight(r.sc.Text(), "\r")
		if strings.TrimSpace(line) == RecordSeparator {
			terminated = true
			break
		}
		lines = append(lines, line)
	}
	if err := r.sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read structure-data file")
	}
	if !terminated && blank(lines) {
		return nil, io.EOF
	}
	e := splitEntry(lines)
	e.Index = r.index
	r.index++
	return e, nil
}

// ReadAll returns every record of r.
func ReadAll(r io.Reader) ([]*Entry, error) {
	rd := NewReader(r)
	var out []*Entry
	for {
		e, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
}

// ParseMolBlock reads a single molfile.
func ParseMolBlock(text string) (*molecule.Molecule, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	return parseBlock(lines)
}

func blank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

func splitEntry(lines []string) *Entry {
	e := &Entry{}
	end := len(lines)
	for i, l := range lines {
		if strings.HasPrefix(l, "M  END") {
			end = i + 1
			break
		}
	}
	e.block = lines[:end]
	if len(lines) > 0 {
		e.Title = strings.TrimSpace(lines[0])
	}

	var cur *DataItem
	var value []string
	flush := func() {
		if cur != nil {
			cur.Value = strings.Join(value, "\n")
			e.Data = append(e.Data, *cur)
		}
		cur, value = nil, nil
	}
	for _, l := range lines[end:] {
		switch {
		case strings.HasPrefix(l, ">"):
			flush()
			cur = &DataItem{Name: dataName(l)}
		case cur != nil && strings.TrimSpace(l) == "":
			flush()
		case cur != nil:
			value = append(value, l)
		}
	}
	flush()
	return e
}

// dataName extracts the field name from a "> <name>" header line.
func dataName(header string) string {
	open := strings.IndexByte(header, '<')
	if open < 0 {
		return strings.TrimSpace(strings.TrimPrefix(header, ">"))
	}
	end := strings.IndexByte(header[open+1:], '>')
	if end < 0 {
		return strings.TrimSpace(header[open+1:])
	}
	return header[open+1 : open+1+end]
}

// ─────────────────────────────────────────────────────────────────────────────
// Connection table
// ─────────────────────────────────────────────────────────────────────────────

func field(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

// columns reads fixed-width numeric fields of one line.  The first bad
// field is kept in err; blank optional fields read as 0.
type columns struct {
	line string
	what string
	err  error
}

func (c *columns) integer(from, to int, name string, required bool) int {
	s := field(c.line, from, to)
	if s == "" {
		if required && c.err == nil {
			c.err = invalid("%s: missing %s", c.what, name)
		}
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil && c.err == nil {
		c.err = invalid("%s: %s %q is not an integer", c.what, name, s)
	}
	return n
}

func (c *columns) number(from, to int, name string) float64 {
	s := field(c.line, from, to)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && c.err == nil {
		c.err = invalid("%s: %s %q is not a number", c.what, name, s)
	}
	return f
}

func invalid(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrCodeMoleculeInvalidFormat, format, args...)
}

func elementFor(symbol string) (z, isotope int, ok bool) {
	switch symbol {
	case "D":
		return 1, 2, true
	case "T":
		return 1, 3, true
	case "*", "A", "Q", "L", "LP", "R", "R#":
		return 0, 0, true
	}
	z, ok = molecule.AtomicNumber(symbol)
	return z, 0, ok
}

// atomBlockCharge decodes the ccc column of the atom block.
func atomBlockCharge(code int) int {
	switch code {
	case 1, 2, 3, 5, 6, 7:
		return 4 - code
	}
	return 0
}

type bondLine struct {
	index  int
	first  int
	stereo int
}

func parseBlock(lines []string) (*molecule.Molecule, error) {
	if len(lines) < 4 {
		return nil, invalid("molfile has %d lines, header needs 4", len(lines))
	}
	counts := lines[3]
	if strings.Contains(counts, "V3000") {
		return nil, invalid("V3000 connection tables are not supported")
	}
	cl := &columns{line: counts, what: "counts line"}
	nAtoms, nBonds := cl.integer(0, 3, "atom count", true), cl.integer(3, 6, "bond count", true)
	if cl.err != nil {
		return nil, cl.err
	}
	if nAtoms < 0 || nBonds < 0 {
		return nil, invalid("counts line declares %d atoms and %d bonds", nAtoms, nBonds)
	}
	if len(lines) < 4+nAtoms+nBonds {
		return nil, invalid("molfile declares %d atoms and %d bonds but has %d lines", nAtoms, nBonds, len(lines))
	}

	m := molecule.New()
	m.Name = strings.TrimSpace(lines[0])
	coords := make([]molecule.Point, 0, nAtoms)
	valence := make([]int, 0, nAtoms)
	flat := true
	for i := 0; i < nAtoms; i++ {
		l := lines[4+i]
		if len(l) < 34 {
			return nil, invalid("atom line %d is too short", i+1)
		}
		sym := field(l, 31, 34)
		z, iso, ok := elementFor(sym)
		if !ok {
			return nil, invalid("atom %d has unknown element %q", i+1, sym)
		}
		al := &columns{line: l, what: fmt.Sprintf("atom line %d", i+1)}
		p := molecule.Point{X: al.number(0, 10, "x"), Y: al.number(10, 20, "y"), Z: al.number(20, 30, "z")}
		charge := al.integer(36, 39, "charge", false)
		v := al.integer(48, 51, "valence", false)
		class := al.integer(60, 63, "mapping number", false)
		if al.err != nil {
			return nil, al.err
		}
		if p.Z != 0 {
			flat = false
		}
		coords = append(coords, p)
		valence = append(valence, v)
		m.AddAtom(molecule.Atom{
			Element: z,
			Isotope: iso,
			Charge:  atomBlockCharge(charge),
			Class:   class,
		})
	}

	var stereoBonds []bondLine
	either := map[int]bool{}
	for i := 0; i < nBonds; i++ {
		l := lines[4+nAtoms+i]
		bl := &columns{line: l, what: fmt.Sprintf("bond line %d", i+1)}
		a, b := bl.integer(0, 3, "first atom", true)-1, bl.integer(3, 6, "second atom", true)-1
		kind := bl.integer(6, 9, "bond type", true)
		st := bl.integer(9, 12, "stereo", false)
		if bl.err != nil {
			return nil, bl.err
		}
		if a < 0 || b < 0 || a >= nAtoms || b >= nAtoms {
			return nil, invalid("bond %d references a missing atom", i+1)
		}
		order := molecule.BondSingle
		switch kind {
		case 2:
			order = molecule.BondDouble
		case 3:
			order = molecule.BondTriple
		case 4:
			order = molecule.BondAromatic
			m.Atoms[a].Aromatic = true
			m.Atoms[b].Aromatic = true
		}
		bi, err := m.AddBond(a, b, order)
		if err != nil {
			return nil, invalid("bond %d: %v", i+1, err)
		}
		switch {
		case order == molecule.BondSingle && (st == stereoUp || st == stereoDown):
			stereoBonds = append(stereoBonds, bondLine{index: bi, first: a, stereo: st})
		case order == molecule.BondDouble && st == stereoCisTransEither:
			either[bi] = true
		}
	}

	charges := map[int]int{}
	isotopes := map[int]int{}
	sawCharge := false
properties:
	for _, l := range lines[4+nAtoms+nBonds:] {
		switch {
		case strings.HasPrefix(l, "M  END"):
			break properties
		case strings.HasPrefix(l, "M  CHG"):
			sawCharge = true
			if err := propertyPairs(l, nAtoms, charges); err != nil {
				return nil, err
			}
		case strings.HasPrefix(l, "M  ISO"):
			if err := propertyPairs(l, nAtoms, isotopes); err != nil {
				return nil, err
			}
		}
	}
	if sawCharge {
		for i := range m.Atoms {
			m.Atoms[i].Charge = charges[i]
		}
	}
	for i, iso := range isotopes {
		m.Atoms[i].Isotope = iso
	}

	m.AssignImpliedHydrogens()
	for i, v := range valence {
		if v == 0 {
			continue
		}
		total := v
		if v == 15 {
			total = 0
		}
		used := 0
		for _, bi := range m.AtomBonds(i) {
			used += bondValence(m.Bonds[bi].Order)
		}
		h := total - used
		if h < 0 {
			h = 0
		}
		m.Atoms[i].HCount = h
		m.Atoms[i].Bracket = true
	}

	assignTetrahedral(m, coords, flat, stereoBonds)
	assignDoubleBonds(m, coords, either)

	if err := m.Normalize(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMoleculeInvalidFormat, "sanitize molfile structure")
	}
	return m, nil
}

func bondValence(o molecule.BondOrder) int {
	if o == molecule.BondAromatic {
		return 1
	}
	return int(o)
}

// propertyPairs reads an "M  CHG"/"M  ISO" line into dst (0-based atoms).
func propertyPairs(line string, nAtoms int, dst map[int]int) error {
	fields := strings.Fields(line[6:])
	if len(fields) == 0 {
		return invalid("empty property line %q", line)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || len(fields) < 1+2*n {
		return invalid("malformed property line %q", line)
	}
	for k := 0; k < n; k++ {
		atom, err1 := strconv.Atoi(fields[1+2*k])
		val, err2 := strconv.Atoi(fields[2+2*k])
		if err1 != nil || err2 != nil || atom < 1 || atom > nAtoms {
			return invalid("malformed property line %q", line)
		}
		dst[atom-1] = val
	}
	return nil
}

// assignTetrahedral derives centre parities.  Flat layouts need a wedge or
// hash bond starting at the centre; 3D coordinates are used directly.
func assignTetrahedral(m *molecule.Molecule, coords []molecule.Point, flat bool, wedges []bondLine) {
	lifts := map[int]map[int]float64{}
	for _, w := range wedges {
		b := m.Bonds[w.index]
		other := b.Other(w.first)
		if lifts[w.first] == nil {
			lifts[w.first] = map[int]float64{}
		}
		if w.stereo == stereoUp {
			lifts[w.first][other] = 1
		} else {
			lifts[w.first][other] = -1
		}
	}
	for c := range m.Atoms {
		lift := lifts[c]
		if flat && lift == nil {
			continue
		}
		a := &m.Atoms[c]
		nbrs := m.Neighbors(c)
		if len(nbrs)+a.HCount != 4 || a.HCount > 1 {
			continue
		}
		refs := append([]int(nil), nbrs...)
		if a.HCount == 1 {
			refs = append(refs, molecule.ImplicitH)
		}
		if ch := chiralityOf(c, refs, coords, flat, lift); ch != molecule.ChiralityNone {
			m.SetChirality(c, refs, ch)
		}
	}
}

// assignDoubleBonds derives cis/trans relations from coordinates for every
// double bond not marked "either".
func assignDoubleBonds(m *molecule.Molecule, coords []molecule.Point, either map[int]bool) {
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		if b.Order != molecule.BondDouble || either[bi] {
			continue
		}
		x, okx := firstSubstituent(m, b.Begin, b.End)
		y, oky := firstSubstituent(m, b.End, b.Begin)
		if !okx || !oky {
			continue
		}
		cis, ok := cisOf(coords[b.Begin], coords[b.End], coords[x], coords[y])
		if !ok {
			continue
		}
		b.Stereo = &molecule.BondStereo{RefBegin: x, RefEnd: y, Cis: cis}
	}
}

func firstSubstituent(m *molecule.Molecule, e, partner int) (int, bool) {
	best := math.MaxInt
	for _, n := range m.Neighbors(e) {
		if n != partner && n < best {
			best = n
		}
	}
	return best, best != math.MaxInt
}

//Personal.AI order the ending
