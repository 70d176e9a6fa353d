package molecule

// symbols is indexed by atomic number; index 0 is the wildcard atom "*".
var symbols = []string{
	"*",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for z, s := range symbols {
		m[s] = z
	}
	return m
}()

// Element numbers used by name in the perception code.
const (
	elemH  = 1
	elemB  = 5
	elemC  = 6
	elemN  = 7
	elemO  = 8
	elemF  = 9
	elemP  = 15
	elemS  = 16
	elemCl = 17
	elemAs = 33
	elemSe = 34
	elemBr = 35
	elemTe = 52
	elemI  = 53
)

// Symbol returns the element symbol for an atomic number.
func Symbol(z int) string {
	if z < 0 || z >= len(symbols) {
		return "*"
	}
	return symbols[z]
}

// AtomicNumber returns the atomic number for a symbol, case-sensitive.
func AtomicNumber(symbol string) (int, bool) {
	z, ok := atomicNumbers[symbol]
	return z, ok
}

// organicSubset lists the elements that may be written without brackets.
var organicSubset = map[int]bool{
	0: true, elemB: true, elemC: true, elemN: true, elemO: true, elemP: true,
	elemS: true, elemF: true, elemCl: true, elemBr: true, elemI: true,
}

// aromaticCapable lists the elements that may carry an aromatic flag, and so
// be written in lower case.
var aromaticCapable = map[int]bool{
	elemB: true, elemC: true, elemN: true, elemO: true, elemP: true, elemS: true,
	elemAs: true, elemSe: true, elemTe: true,
}

// defaultValences holds the normal valences of main-group elements, lowest
// first.
var defaultValences = map[int][]int{
	elemH:  {1},
	elemB:  {3},
	elemC:  {4},
	elemN:  {3, 5},
	elemO:  {2},
	elemF:  {1},
	14:     {4},
	elemP:  {3, 5},
	elemS:  {2, 4, 6},
	elemCl: {1},
	elemAs: {3, 5},
	elemSe: {2, 4, 6},
	elemBr: {1},
	elemTe: {2, 4, 6},
	elemI:  {1, 3, 5},
}

// valencesFor returns the allowed valences of an element carrying the given
// formal charge, using the valences of the isoelectronic neutral element of
// the same period (N+ behaves like C, O- like F, C- like N).  Metals and
// elements without a table entry return nil.
func valencesFor(z, charge int) []int {
	if charge == 0 {
		return defaultValences[z]
	}
	eff := z - charge
	if periodOf(eff) != periodOf(z) || eff <= 0 {
		return nil
	}
	return defaultValences[eff]
}

func periodOf(z int) int {
	switch {
	case z <= 2:
		return 1
	case z <= 10:
		return 2
	case z <= 18:
		return 3
	case z <= 36:
		return 4
	case z <= 54:
		return 5
	default:
		return 6
	}
}

// pickValence returns the smallest allowed valence ≥ used.
func pickValence(valences []int, used int) (int, bool) {
	for _, v := range valences {
		if v >= used {
			return v, true
		}
	}
	return 0, false
}

//Personal.AI order the ending
