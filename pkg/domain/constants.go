package domain

// Engine defaults. They are exposed so hosts can reason about the same numbers the
// engine uses when no option overrides them.
const (
	// DefaultSnapThreshold is the maximum Euclidean distance, in world units, between two
	// terminal keys for them to be merged into one junction.
	DefaultSnapThreshold = 60.0

	// DefaultStepLimit caps the number of BFS expansions per simulation.
	DefaultStepLimit = 10000

	// DefaultNominalVoltage is used when the source does not carry a configured voltage.
	DefaultNominalVoltage = 3.3
)
