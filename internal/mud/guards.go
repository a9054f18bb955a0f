package mud

// Capability is a precondition a verb declares on itself. The router
// checks every capability before the handler runs, so handlers can
// assume their preconditions hold.
type Capability int

const (
	// CapAdmin requires the admin flag. The refusal is the generic
	// "Huh?" so admin verbs stay invisible to everyone else.
	CapAdmin Capability = iota
	// CapSeated requires a seat at a table.
	CapSeated
	// CapHasDeck requires an active deck.
	CapHasDeck
)

// CheckResult is the typed outcome of a capability check.
type CheckResult struct {
	OK      bool
	Message string
}

func (s *Session) check(c Capability) CheckResult {
	switch c {
	case CapAdmin:
		if !s.flags().Admin {
			return CheckResult{Message: "Huh?"}
		}
	case CapSeated:
		if s.table == nil {
			return CheckResult{Message: "You're not at a table!"}
		}
	case CapHasDeck:
		if s.activeDeck() == nil {
			return CheckResult{Message: "You don't have a deck!"}
		}
	}
	return CheckResult{OK: true}
}
