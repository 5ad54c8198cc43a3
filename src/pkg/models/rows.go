package models

// MatcherRow is one environments row joined to its owning service,
// as returned by the matcher configuration query.
type MatcherRow struct {
	EnvironmentID   string
	ServiceName     string
	MatchingContent string

	// MatchingContentHex is HEX(matching_content) straight from the
	// database, so hidden whitespace or encoding damage is visible.
	MatchingContentHex string
}

// CheckRow is one historical check execution record.
type CheckRow struct {
	ID      string
	Result  string
	Reason  string
	Command string
	Output  string
}
