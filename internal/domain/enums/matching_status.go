package enums

// MatchingStatus is the admin-facing projection filter over matchings.
type MatchingStatus string

const (
	// MatchingStatusSucceeded selects matchings where both sides responded.
	MatchingStatusSucceeded MatchingStatus = "succeeded"
)
