// Package classes canonicalizes worksheet names into the official class
// taxonomy and infers the class type.
package classes

import "strings"

// DetectiveDiversions is the canonical name several legacy spellings fold into.
const DetectiveDiversions = "Detective Diversions"

const privateInvestigator = "Private Investigator"

var stripPrefixes = []string{"league ", "cwags "}

// Classes whose level number is conventionally left off the sheet name.
var levelSuffixes = map[string]string{
	"patrol":       "Patrol 1",
	"detective":    "Detective 2",
	"investigator": "Investigator 3",
	"super sleuth": "Super Sleuth 4",
}

// Normalize returns the canonical class name for a raw sheet name.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")

	for stripped := true; stripped; {
		stripped = false
		for _, p := range stripPrefixes {
			if len(name) > len(p) && strings.EqualFold(name[:len(p)], p) {
				name = strings.TrimSpace(name[len(p):])
				stripped = true
			}
		}
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "overseers"), strings.HasPrefix(lower, "det div"):
		return DetectiveDiversions
	case strings.HasPrefix(lower, "private investigator") && name != privateInvestigator:
		return privateInvestigator
	}
	if canonical, ok := levelSuffixes[lower]; ok {
		return canonical
	}
	return name
}

// Class types stored on trial_classes.class_type.
const (
	TypeRally     = "rally"
	TypeGames     = "games"
	TypeObedience = "obedience"
	TypeScent     = "scent"
)

// TypeOf infers the class type from the raw, un-normalized sheet name.
func TypeOf(rawName string) string {
	lower := strings.ToLower(rawName)
	switch {
	case strings.Contains(lower, "rally"):
		return TypeRally
	case strings.Contains(lower, "games"):
		return TypeGames
	case strings.Contains(lower, "obedience"):
		return TypeObedience
	default:
		return TypeScent
	}
}
