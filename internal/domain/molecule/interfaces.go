package molecule

// Canonicalizer rewrites structure notation into its canonical spelling.
// Two inputs describing the same structure return the same string.
type Canonicalizer interface {
	Canonicalize(smiles string) (string, error)
}

// Toolkit is the structure engine the conversion layer depends on.
type Toolkit interface {
	Canonicalizer

	// Parse reads SMILES into a sanitized molecule.
	Parse(smiles string) (*Molecule, error)

	// ToSMILES returns the canonical SMILES of a molecule built elsewhere,
	// e.g. read from a molfile.
	ToSMILES(m *Molecule) string
}

//Personal.AI order the ending
