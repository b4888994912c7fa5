package account

// Protected is the set of account names exempt from all reconcile
// operations. It is built once from the local administrative group's
// membership and never mutated afterwards.
type Protected map[string]struct{}

// NewProtected builds a protected set from a list of names.
func NewProtected(names []string) Protected {
	p := make(Protected, len(names))
	for _, n := range names {
		p[n] = struct{}{}
	}
	return p
}

// Contains reports whether name is protected.
func (p Protected) Contains(name string) bool {
	_, ok := p[name]
	return ok
}
