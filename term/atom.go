package term

// Reserved atom identifiers. Booleans are the atoms false and true, and every
// atom table assigns them these ids.
const (
	AtomFalse uint64 = 0
	AtomTrue  uint64 = 1
)
