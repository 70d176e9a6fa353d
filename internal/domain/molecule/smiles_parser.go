package molecule

import (
	"fmt"
	"strings"

	"github.com/pkj0421/CIM/pkg/errors"
)

// ParseSMILES reads a SMILES string into a sanitized molecule.  Surrounding
// whitespace is ignored; anything else that is not SMILES syntax is an
// ErrCodeMoleculeInvalidSMILES error.
func ParseSMILES(smiles string) (*Molecule, error) {
	src := strings.TrimSpace(smiles)
	if src == "" {
		return nil, errors.InvalidSMILES(smiles, "empty input")
	}
	p := &smilesParser{
		src:   src,
		mol:   New(),
		prev:  -1,
		rings: make(map[int]*ringOpen),
		dirs:  make(map[int]dirMark),
	}
	if err := p.parse(); err != nil {
		return nil, errors.InvalidSMILES(smiles, err.Error())
	}
	m := p.mol
	p.applyChirality()
	p.applyDirectionalBonds()
	if err := m.assignImplicitHydrogens(true); err != nil {
		return nil, errors.InvalidSMILES(smiles, err.Error())
	}
	m.foldHydrogens()
	if err := m.Sanitize(); err != nil {
		return nil, errors.InvalidSMILES(smiles, err.Error())
	}
	return m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Parser state
// ─────────────────────────────────────────────────────────────────────────────

const refPending = -2

type ringOpen struct {
	atom  int
	slot  int
	order BondOrder
	dir   byte
}

// dirMark is a '/' or '\' written on a single bond, read as "to" following
// "from" in the text.
type dirMark struct {
	from, to int
	c        byte
}

type smilesParser struct {
	src string
	pos int
	mol *Molecule

	// refs is the textual neighbour order of every atom.
	refs   [][]int
	chiral []Chirality
	rings  map[int]*ringOpen
	dirs   map[int]dirMark
	stack  []int
	prev   int

	bondOrder BondOrder
	bondDir   byte
	bondSet   bool
}

func (p *smilesParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("position %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch without a preceding atom")
			}
			if p.bondSet {
				return p.errorf("bond symbol before '('")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return p.errorf("unbalanced ')'")
			}
			if p.bondSet {
				return p.errorf("bond symbol before ')'")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.bondSet {
				return p.errorf("bond symbol before '.'")
			}
			p.prev = -1
			p.pos++
		case strings.IndexByte("-=#$:/\\", c) >= 0:
			if p.bondSet {
				return p.errorf("consecutive bond symbols")
			}
			p.bondSet = true
			switch c {
			case '-':
				p.bondOrder = BondSingle
			case '=':
				p.bondOrder = BondDouble
			case '#':
				p.bondOrder = BondTriple
			case '$':
				p.bondOrder = BondQuadruple
			case ':':
				p.bondOrder = BondAromatic
			default:
				p.bondOrder = BondSingle
				p.bondDir = c
			}
			p.pos++
		case c >= '0' && c <= '9', c == '%':
			if p.prev < 0 {
				return p.errorf("ring bond without a preceding atom")
			}
			num, err := p.ringNumber()
			if err != nil {
				return err
			}
			if err := p.ringBond(num); err != nil {
				return err
			}
		case c == '[':
			a, err := p.bracketAtom()
			if err != nil {
				return err
			}
			if err := p.addAtom(a); err != nil {
				return err
			}
		default:
			a, err := p.organicAtom()
			if err != nil {
				return err
			}
			if err := p.addAtom(a); err != nil {
				return err
			}
		}
	}
	switch {
	case len(p.stack) > 0:
		return fmt.Errorf("unbalanced '('")
	case len(p.rings) > 0:
		for n := range p.rings {
			return fmt.Errorf("unclosed ring bond %d", n)
		}
	case p.bondSet:
		return fmt.Errorf("bond symbol at end of input")
	case len(p.mol.Atoms) == 0:
		return fmt.Errorf("no atoms")
	}
	return nil
}

func (p *smilesParser) resetBond() {
	p.bondOrder, p.bondDir, p.bondSet = 0, 0, false
}

// implicitOrder is the order of an unwritten bond between a and b.
func (p *smilesParser) implicitOrder(a, b int) BondOrder {
	if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		return BondAromatic
	}
	return BondSingle
}

func (p *smilesParser) addAtom(a Atom) error {
	idx := p.mol.AddAtom(a)
	p.refs = append(p.refs, nil)
	p.chiral = append(p.chiral, a.Chirality)
	p.mol.Atoms[idx].Chirality = ChiralityNone

	if p.prev >= 0 {
		order := p.bondOrder
		if !p.bondSet {
			order = p.implicitOrder(p.prev, idx)
		}
		bi, err := p.mol.AddBond(p.prev, idx, order)
		if err != nil {
			return p.errorf("%v", err)
		}
		if p.bondDir != 0 {
			p.dirs[bi] = dirMark{from: p.prev, to: idx, c: p.bondDir}
		}
		p.refs[p.prev] = append(p.refs[p.prev], idx)
		p.refs[idx] = append(p.refs[idx], p.prev)
	} else if p.bondSet {
		return p.errorf("bond symbol without a preceding atom")
	}
	if a.Bracket && a.HCount > 0 {
		p.refs[idx] = append(p.refs[idx], ImplicitH)
	}
	p.resetBond()
	p.prev = idx
	return nil
}

func (p *smilesParser) ringNumber() (int, error) {
	if p.src[p.pos] != '%' {
		n := int(p.src[p.pos] - '0')
		p.pos++
		return n, nil
	}
	if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
		return 0, p.errorf("'%%' must be followed by two digits")
	}
	n := int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
	p.pos += 3
	return n, nil
}

func (p *smilesParser) ringBond(num int) error {
	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = &ringOpen{atom: p.prev, slot: len(p.refs[p.prev]), order: p.bondOrder, dir: p.bondDir}
		p.refs[p.prev] = append(p.refs[p.prev], refPending)
		p.resetBond()
		return nil
	}
	delete(p.rings, num)
	if open.atom == p.prev {
		return p.errorf("ring bond %d closes on its own atom", num)
	}
	order := open.order
	switch {
	case order != 0 && p.bondOrder != 0 && order != p.bondOrder:
		return p.errorf("ring bond %d has conflicting bond orders", num)
	case order == 0 && p.bondOrder != 0:
		order = p.bondOrder
	case order == 0:
		order = p.implicitOrder(open.atom, p.prev)
	}
	bi, err := p.mol.AddBond(open.atom, p.prev, order)
	if err != nil {
		return p.errorf("ring bond %d: %v", num, err)
	}
	switch {
	case open.dir != 0:
		p.dirs[bi] = dirMark{from: open.atom, to: p.prev, c: open.dir}
	case p.bondDir != 0:
		p.dirs[bi] = dirMark{from: p.prev, to: open.atom, c: p.bondDir}
	}
	p.refs[open.atom][open.slot] = p.prev
	p.refs[p.prev] = append(p.refs[p.prev], open.atom)
	p.resetBond()
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Atoms
// ─────────────────────────────────────────────────────────────────────────────

func (p *smilesParser) organicAtom() (Atom, error) {
	s := p.src[p.pos:]
	switch {
	case strings.HasPrefix(s, "Cl"):
		p.pos += 2
		return Atom{Element: elemCl}, nil
	case strings.HasPrefix(s, "Br"):
		p.pos += 2
		return Atom{Element: elemBr}, nil
	}
	c := s[0]
	p.pos++
	switch c {
	case '*':
		return Atom{Element: 0}, nil
	case 'B':
		return Atom{Element: elemB}, nil
	case 'C':
		return Atom{Element: elemC}, nil
	case 'N':
		return Atom{Element: elemN}, nil
	case 'O':
		return Atom{Element: elemO}, nil
	case 'P':
		return Atom{Element: elemP}, nil
	case 'S':
		return Atom{Element: elemS}, nil
	case 'F':
		return Atom{Element: elemF}, nil
	case 'I':
		return Atom{Element: elemI}, nil
	case 'b':
		return Atom{Element: elemB, Aromatic: true}, nil
	case 'c':
		return Atom{Element: elemC, Aromatic: true}, nil
	case 'n':
		return Atom{Element: elemN, Aromatic: true}, nil
	case 'o':
		return Atom{Element: elemO, Aromatic: true}, nil
	case 'p':
		return Atom{Element: elemP, Aromatic: true}, nil
	case 's':
		return Atom{Element: elemS, Aromatic: true}, nil
	}
	p.pos--
	if isUpper(c) || isLower(c) {
		return Atom{}, p.errorf("element %q must be written in brackets or is unknown", c)
	}
	return Atom{}, p.errorf("unexpected character %q", c)
}

func (p *smilesParser) bracketAtom() (Atom, error) {
	start := p.pos
	end := strings.IndexByte(p.src[start:], ']')
	if end < 0 {
		return Atom{}, p.errorf("unterminated bracket atom")
	}
	body := p.src[start+1 : start+end]
	p.pos = start + end + 1
	if strings.IndexByte(body, '[') >= 0 {
		return Atom{}, fmt.Errorf("position %d: nested '[' in bracket atom", start)
	}

	a := Atom{Bracket: true}
	i := 0
	for i < len(body) && isDigit(body[i]) {
		a.Isotope = a.Isotope*10 + int(body[i]-'0')
		i++
	}

	sym, aromatic, n := bracketSymbol(body[i:])
	if n == 0 {
		return Atom{}, fmt.Errorf("position %d: unknown element in [%s]", start, body)
	}
	z, _ := AtomicNumber(sym)
	if aromatic && !aromaticCapable[z] {
		return Atom{}, fmt.Errorf("position %d: %s cannot be aromatic", start, sym)
	}
	a.Element, a.Aromatic = z, aromatic
	i += n

	if i < len(body) && body[i] == '@' {
		i++
		a.Chirality = ChiralityCCW
		switch {
		case i < len(body) && body[i] == '@':
			a.Chirality = ChiralityCW
			i++
		case i+1 < len(body) && isUpper(body[i]) && isUpper(body[i+1]):
			class := body[i : i+2]
			i += 2
			k := 0
			for i < len(body) && isDigit(body[i]) {
				k = k*10 + int(body[i]-'0')
				i++
			}
			switch {
			case class == "TH" && k == 1:
				a.Chirality = ChiralityCCW
			case class == "TH" && k == 2:
				a.Chirality = ChiralityCW
			default:
				// Allene, square-planar and higher orders are accepted but
				// not retained.
				a.Chirality = ChiralityNone
			}
		}
	}

	if i < len(body) && body[i] == 'H' {
		i++
		a.HCount = 1
		if i < len(body) && isDigit(body[i]) {
			a.HCount = 0
			for i < len(body) && isDigit(body[i]) {
				a.HCount = a.HCount*10 + int(body[i]-'0')
				i++
			}
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		ch := body[i]
		i++
		switch {
		case i < len(body) && isDigit(body[i]):
			mag := 0
			for i < len(body) && isDigit(body[i]) {
				mag = mag*10 + int(body[i]-'0')
				i++
			}
			a.Charge = sign * mag
		default:
			mag := 1
			for i < len(body) && body[i] == ch {
				mag++
				i++
			}
			a.Charge = sign * mag
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || !isDigit(body[i]) {
			return Atom{}, fmt.Errorf("position %d: atom class needs digits", start)
		}
		for i < len(body) && isDigit(body[i]) {
			a.Class = a.Class*10 + int(body[i]-'0')
			i++
		}
	}

	if i != len(body) {
		return Atom{}, fmt.Errorf("position %d: unexpected %q in bracket atom", start, body[i:])
	}
	return a, nil
}

// bracketSymbol reads the element symbol at the start of s and reports
// whether it was written aromatic and how many bytes it used.
func bracketSymbol(s string) (string, bool, int) {
	if s == "" {
		return "", false, 0
	}
	if s[0] == '*' {
		return "*", false, 1
	}
	if isLower(s[0]) {
		for _, sym := range []string{"se", "as", "te"} {
			if strings.HasPrefix(s, sym) {
				return strings.ToUpper(sym[:1]) + sym[1:], true, 2
			}
		}
		switch s[0] {
		case 'b', 'c', 'n', 'o', 'p', 's':
			return strings.ToUpper(s[:1]), true, 1
		}
		return "", false, 0
	}
	if !isUpper(s[0]) {
		return "", false, 0
	}
	if len(s) > 1 && isLower(s[1]) {
		if _, ok := AtomicNumber(s[:2]); ok {
			return s[:2], false, 2
		}
	}
	if _, ok := AtomicNumber(s[:1]); ok {
		return s[:1], false, 1
	}
	return "", false, 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// ─────────────────────────────────────────────────────────────────────────────
// Stereo from text
// ─────────────────────────────────────────────────────────────────────────────

func (p *smilesParser) applyChirality() {
	for i, c := range p.chiral {
		if c == ChiralityNone {
			continue
		}
		p.mol.Atoms[i].Chirality = c
		p.mol.Atoms[i].StereoRefs = append([]int(nil), p.refs[i]...)
	}
}

// above reports whether substituent x of atom e sits on the upper side of
// the e double bond, as read from the mark on the e-x bond.
func (d dirMark) above(e, x int) bool {
	if d.from == e && d.to == x {
		return d.c == '/'
	}
	return d.c == '\\'
}

func (p *smilesParser) applyDirectionalBonds() {
	if len(p.dirs) == 0 {
		return
	}
	m := p.mol
	side := func(e, partner int) (int, bool, bool) {
		for _, bi := range m.adj[e] {
			x := m.Bonds[bi].Other(e)
			if x == partner {
				continue
			}
			if d, ok := p.dirs[bi]; ok {
				return x, d.above(e, x), true
			}
		}
		return -1, false, false
	}
	for i := range m.Bonds {
		b := &m.Bonds[i]
		if b.Order != BondDouble {
			continue
		}
		x, ax, okx := side(b.Begin, b.End)
		y, ay, oky := side(b.End, b.Begin)
		if okx && oky {
			b.Stereo = &BondStereo{RefBegin: x, RefEnd: y, Cis: ax == ay}
		}
	}
}

//Personal.AI order the ending
