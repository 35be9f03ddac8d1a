// Package pluralize derives the plural form of a model name used in route
// paths, SDK client method groups, and scaffold variable names. It is
// consulted by the controller, route, and SDK emitters identically, which
// is what guarantees spec.md §8's testable property that a route's path
// segment and the generated SDK client's method-group name agree.
package pluralize

import "strings"

// irregulars maps a singular noun to its plural form for the common cases
// regular suffix rules get wrong.
var irregulars = map[string]string{
	"person": "people",
	"child":  "children",
	"man":    "men",
	"woman":  "women",
	"tooth":  "teeth",
	"foot":   "feet",
	"mouse":  "mice",
	"goose":  "geese",
	"datum":  "data",
	"child ": "children",
}

// uncountable nouns are returned unchanged.
var uncountable = map[string]bool{
	"equipment":   true,
	"information": true,
	"series":      true,
	"species":     true,
	"feedback":    true,
}

var vowels = "aeiou"

// Pluralizer derives plural forms, honoring config overrides before
// falling back to regular English rules. Overrides keys are matched
// case-insensitively against the model's own name, not the lowercased
// form, so config authors can write the name as it appears in the schema.
type Pluralizer struct {
	overrides map[string]string
}

// New builds a Pluralizer. overrides maps a model name (as it appears in
// the schema) to its desired plural form, per spec.md §6 pluralOverrides.
func New(overrides map[string]string) *Pluralizer {
	lowered := make(map[string]string, len(overrides))
	for k, v := range overrides {
		lowered[strings.ToLower(k)] = v
	}
	return &Pluralizer{overrides: lowered}
}

// Plural returns the plural form of name.
func (p *Pluralizer) Plural(name string) string {
	if p != nil {
		if override, ok := p.overrides[strings.ToLower(name)]; ok {
			return override
		}
	}
	return regularPlural(name)
}

func regularPlural(name string) string {
	lower := strings.ToLower(name)
	if uncountable[lower] {
		return name
	}
	if irregular, ok := irregulars[lower]; ok {
		return matchCase(name, irregular)
	}

	switch {
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !strings.ContainsRune(vowels, rune(lower[len(lower)-2])):
		return name[:len(name)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return name + "es"
	case strings.HasSuffix(lower, "fe"):
		return name[:len(name)-2] + "ves"
	case strings.HasSuffix(lower, "f") && !strings.HasSuffix(lower, "ff"):
		return name[:len(name)-1] + "ves"
	default:
		return name + "s"
	}
}

// matchCase applies name's leading-capital convention to replacement.
func matchCase(name, replacement string) string {
	if name == "" || replacement == "" {
		return replacement
	}
	if strings.ToUpper(name[:1]) == name[:1] {
		return strings.ToUpper(replacement[:1]) + replacement[1:]
	}
	return replacement
}

// Singular is a best-effort inverse, used only for diagnostic suggestions
// (e.g. "did you mean the singular model name?"), never for path
// generation, since pluralization is lossy.
func Singular(plural string) string {
	lower := strings.ToLower(plural)
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		return plural[:len(plural)-3] + "y"
	case strings.HasSuffix(lower, "ves") && len(lower) > 3:
		return plural[:len(plural)-3] + "f"
	case strings.HasSuffix(lower, "es") && len(lower) > 2:
		return plural[:len(plural)-2]
	case strings.HasSuffix(lower, "s") && len(lower) > 1:
		return plural[:len(plural)-1]
	default:
		return plural
	}
}
