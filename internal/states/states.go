// Package states resolves U.S. state names and postal abbreviations mentioned
// in recall text to a canonical list of postal codes.
package states

import (
	"regexp"
	"strings"
)

type entry struct {
	Abb  string
	Name string
}

// table pairs every postal code with its full name, including territories and
// the US/"nationwide" pseudo-entry used when a recall names no specific state.
// Loaded once, read-only.
var table = []entry{
	{"AL", "Alabama"},
	{"AK", "Alaska"},
	{"AS", "American Samoa"},
	{"AZ", "Arizona"},
	{"AR", "Arkansas"},
	{"CA", "California"},
	{"CO", "Colorado"},
	{"CT", "Connecticut"},
	{"DE", "Delaware"},
	{"DC", "District of Columbia"},
	{"FM", "Federated States of Micronesia"},
	{"FL", "Florida"},
	{"GA", "Georgia"},
	{"GU", "Guam"},
	{"HI", "Hawaii"},
	{"ID", "Idaho"},
	{"IL", "Illinois"},
	{"IN", "Indiana"},
	{"IA", "Iowa"},
	{"KS", "Kansas"},
	{"KY", "Kentucky"},
	{"LA", "Louisiana"},
	{"ME", "Maine"},
	{"MH", "Marshall Islands"},
	{"MD", "Maryland"},
	{"MA", "Massachusetts"},
	{"MI", "Michigan"},
	{"MN", "Minnesota"},
	{"MS", "Mississippi"},
	{"MO", "Missouri"},
	{"MT", "Montana"},
	{"US", "nationwide"},
	{"NE", "Nebraska"},
	{"NV", "Nevada"},
	{"NH", "New Hampshire"},
	{"NJ", "New Jersey"},
	{"NM", "New Mexico"},
	{"NY", "New York"},
	{"NC", "North Carolina"},
	{"ND", "North Dakota"},
	{"MP", "Northern Mariana Islands"},
	{"OH", "Ohio"},
	{"OK", "Oklahoma"},
	{"OR", "Oregon"},
	{"PW", "Palau"},
	{"PA", "Pennsylvania"},
	{"PR", "Puerto Rico"},
	{"RI", "Rhode Island"},
	{"SC", "South Carolina"},
	{"SD", "South Dakota"},
	{"TN", "Tennessee"},
	{"TX", "Texas"},
	{"UT", "Utah"},
	{"VT", "Vermont"},
	{"VI", "Virgin Islands"},
	{"VA", "Virginia"},
	{"WA", "Washington"},
	{"WV", "West Virginia"},
	{"WI", "Wisconsin"},
	{"WY", "Wyoming"},
}

// abbPatterns require a non-word character (or string boundary) on both sides
// of the two-letter code so codes never match inside other words.
var abbPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(table))
	for i, e := range table {
		patterns[i] = regexp.MustCompile(`(?:\A|\W)` + e.Abb + `(?:\W|\z)`)
	}
	return patterns
}()

// ResolveParagraphs scans page paragraphs for abbreviation and full-name
// mentions and returns the union as postal codes, deduplicated in first-seen
// order: codes matched verbatim first, then codes implied by full-name hits.
// An empty result is valid and means no specific state was named.
func ResolveParagraphs(paragraphs []string) []string {
	matched := make([]string, 0)
	seen := map[string]struct{}{}
	add := func(abb string) {
		if _, ok := seen[abb]; ok {
			return
		}
		seen[abb] = struct{}{}
		matched = append(matched, abb)
	}

	for _, p := range paragraphs {
		for i := range table {
			if abbPatterns[i].MatchString(p) {
				add(table[i].Abb)
			}
		}
	}

	nameHit := make([]bool, len(table))
	for _, p := range paragraphs {
		for i := range table {
			if strings.Contains(p, table[i].Name) {
				nameHit[i] = true
			}
		}
	}
	for i := range table {
		if nameHit[i] {
			add(table[i].Abb)
		}
	}

	return matched
}

// ResolveFreeText resolves a single free-text states field (the USDA feed
// format) by full-name containment only; the feed never uses bare
// abbreviations.
func ResolveFreeText(text string) []string {
	matched := make([]string, 0)
	if text == "" {
		return matched
	}
	for i := range table {
		if strings.Contains(text, table[i].Name) {
			matched = append(matched, table[i].Abb)
		}
	}
	return matched
}
