package matcher

// Config holds matcher tuning.
//
// The sync path (fresh provider transactions) and the stored-window
// checker historically used different tolerances; both are kept as
// separate defaults rather than unified.
type Config struct {
	AmountTolerance float64 // fraction of the rent amount
	MinConfidence   float64 // accept threshold for scored matches
}

// DefaultSyncConfig returns the tolerance used when classifying
// freshly fetched bank transactions.
func DefaultSyncConfig() Config {
	return Config{
		AmountTolerance: 0.05,
		MinConfidence:   0.6,
	}
}

// DefaultWindowConfig returns the looser tolerance used by the
// stored-transaction window checker.
func DefaultWindowConfig() Config {
	return Config{
		AmountTolerance: 0.10,
		MinConfidence:   0.6,
	}
}

// Result describes how a transaction scored against a property.
// The individual sub-check flags are kept for audit logging and for
// tests asserting boundary behavior.
type Result struct {
	Matched          bool
	Confidence       float64
	AmountMatch      bool
	KeywordMatch     bool
	NicknameMatch    bool
	RentKeywordMatch bool
}
