package domain

// Phase is the host lifecycle stage. It only moves forward.
type Phase int

const (
	// PhasePreLoad batches mirror work until the checkpoint.
	PhasePreLoad Phase = iota
	// PhaseCanRegister is entered by the one-shot checkpoint.
	PhaseCanRegister
	// PhaseLoaded is entered once the host has finished loading. Clients are notified from here on.
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhasePreLoad:
		return "preload"
	case PhaseCanRegister:
		return "can_register"
	case PhaseLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Synced reports whether the checkpoint has run and the trees are kept mirrored inline.
func (p Phase) Synced() bool {
	return p >= PhaseCanRegister
}

// Next returns the phase that follows p.
func (p Phase) Next() (Phase, bool) {
	if p >= PhaseLoaded {
		return p, false
	}
	return p + 1, true
}

// MarshalText renders the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
