package molecule

import (
	"github.com/pkj0421/CIM/internal/infrastructure/monitoring/logging"
)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithObserver registers a callback invoked after every Canonicalize call
// with its outcome.
func WithObserver(fn func(ok bool)) ServiceOption {
	return func(s *Service) { s.observe = fn }
}

// Service is the in-process Toolkit.
type Service struct {
	logger  logging.Logger
	observe func(ok bool)
}

var _ Toolkit = (*Service)(nil)

// NewService returns a Toolkit logging through logger (nil selects the
// process default).
func NewService(logger logging.Logger, opts ...ServiceOption) *Service {
	s := &Service{logger: logging.OrDefault(logger).Named("molecule")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse reads SMILES into a sanitized molecule.
func (s *Service) Parse(smiles string) (*Molecule, error) {
	return ParseSMILES(smiles)
}

// Canonicalize returns the canonical SMILES for smiles.
func (s *Service) Canonicalize(smiles string) (string, error) {
	out, err := Canonicalize(smiles)
	if s.observe != nil {
		s.observe(err == nil)
	}
	if err != nil {
		s.logger.Debug("canonicalization failed", logging.String("smiles", smiles), logging.Err(err))
		return "", err
	}
	return out, nil
}

// ToSMILES returns the canonical SMILES of m.
func (s *Service) ToSMILES(m *Molecule) string {
	if m == nil {
		return ""
	}
	return m.CanonicalSMILES()
}

//Personal.AI order the ending
