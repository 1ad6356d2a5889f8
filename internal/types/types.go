package types

import (
	"fmt"
	"strings"
)

// Variant selects which GitHub entities an analysis run fetches
type Variant string

const (
	// VariantEvents walks the user's public event feed
	VariantEvents Variant = "events"
	// VariantCommits walks every owned repository's commits authored by the user
	VariantCommits Variant = "commits"
	// VariantRepos adds per-repository commit counts and language totals
	VariantRepos Variant = "repos"
)

// Variants lists every supported variant in display order
var Variants = []Variant{VariantEvents, VariantCommits, VariantRepos}

// ParseVariant maps user input onto a Variant. Empty input selects VariantEvents.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return VariantEvents, nil
	case VariantEvents, VariantCommits, VariantRepos:
		return v, nil
	default:
		return "", fmt.Errorf("unknown variant %q", s)
	}
}

// AnalyzeRequest is the inbound form: a cosmetic display name, the GitHub
// login to analyze and the variant to run.
type AnalyzeRequest struct {
	DisplayName string  `json:"display_name" form:"display_name"`
	Username    string  `json:"username" form:"username"`
	Variant     Variant `json:"variant" form:"variant"`
}
