package tagger

// Supply is a fresh-name/fresh-tag counter threaded explicitly through
// a pass rather than kept as ambient global state (spec design note:
// "treat as capability object, not ambient state").
type Supply struct {
	n uint32
}

// NewSupply starts a counter at start (the tagger and the two
// post-lift re-tagging passes each own an independent Supply).
func NewSupply(start uint32) *Supply { return &Supply{n: start} }

// Next returns the current value then increments.
func (s *Supply) Next() uint32 {
	v := s.n
	s.n++
	return v
}

// Peek returns the current value without consuming it.
func (s *Supply) Peek() uint32 { return s.n }
