package matching

import (
	"strings"
)

// Interest strings are stored in the canonical delimited form
// ",tag1,tag2," so a tag is always a whole comma-delimited token.
// Matching tokenizes and intersects sets instead of running substring
// patterns against the stored string: ",mus," must never match ",music,".

// TokenizeInterests splits a stored interest string into its tags.
// Empty tokens produced by the leading/trailing delimiters are dropped.
// An empty or absent interests string yields no tags.
func TokenizeInterests(interests string) []string {
	if interests == "" {
		return nil
	}

	var tags []string
	for _, tok := range strings.Split(interests, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			tags = append(tags, tok)
		}
	}
	return tags
}

// CanonicalizeInterests normalizes a caller-supplied interest list into
// the stored form ",tag1,tag2,". An input with no tags canonicalizes to
// the empty string.
func CanonicalizeInterests(interests string) string {
	tags := TokenizeInterests(interests)
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

// TagSet builds a lookup set from a list of tags.
func TagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

// SharesInterest reports whether any tag in the candidate interest
// string appears, token-exact, in the subject's tag set.
func SharesInterest(subject map[string]struct{}, candidateInterests string) bool {
	if len(subject) == 0 {
		return false
	}
	for _, tag := range TokenizeInterests(candidateInterests) {
		if _, ok := subject[tag]; ok {
			return true
		}
	}
	return false
}
