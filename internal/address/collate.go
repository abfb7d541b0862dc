package address

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLanguage orders names the way a Thai reader expects (leading vowels
// such as เ and โ are not sorted by their code point).
var DefaultLanguage = language.Thai

// sortNames drops duplicates from names and sorts the rest by collation
// order for tag. A Collator is not safe for concurrent use, so one is built
// per call.
func sortNames(tag language.Tag, names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	collate.New(tag).SortStrings(out)
	return out
}
