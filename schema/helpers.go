package schema

import (
	"strings"
	"unicode"
)

// trimNamePart strips punctuation from both ends of a name part, keeping
// hyphens and apostrophes that belong to the name itself.
func trimNamePart(p string) string {
	cp := strings.TrimFunc(p, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '-' && r != '\''
	})
	return cp
}

// AbbreviateName formats "Jordan Avery Lee" to "Jordan L" for narrow table columns.
// Single-part names are returned unchanged.
func AbbreviateName(name string) string {
	var parts []string
	for _, p := range strings.Fields(strings.Trim(strings.TrimSpace(name), "()\"'`")) {
		if cp := trimNamePart(p); cp != "" {
			parts = append(parts, cp)
		}
	}

	switch len(parts) {
	case 0:
		return strings.TrimSpace(name)
	case 1:
		return parts[0]
	}
	last := []rune(parts[len(parts)-1])
	return parts[0] + " " + string(last[0])
}

// statusAliases maps lowercase user input to statuses.
var statusAliases = map[string]AdoptionStatus{
	"not enough data":    StatusNotEnoughData,
	"not-enough-data":    StatusNotEnoughData,
	"insufficient":       StatusNotEnoughData,
	"full adopter":       StatusFullAdopter,
	"full-adopter":       StatusFullAdopter,
	"full":               StatusFullAdopter,
	"growing":            StatusGrowing,
	"stagnant/declining": StatusStagnant,
	"stagnant":           StatusStagnant,
	"declining":          StatusStagnant,
	"indeterminate":      StatusIndeterminate,
}

// ParseStatus resolves a status name or alias, ignoring case.
func ParseStatus(s string) (AdoptionStatus, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}
