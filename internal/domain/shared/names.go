package shared

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowercase connectives kept in lower case inside person names
var nameParticles = map[string]bool{
	"da": true, "das": true, "de": true, "do": true, "dos": true, "e": true,
}

// NormalizePersonName collapses whitespace and title-cases a person's name,
// keeping Portuguese particles ("da", "dos", ...) in lower case.
func NormalizePersonName(name string) string {
	words := strings.Fields(name)
	caser := cases.Title(language.BrazilianPortuguese)
	for i, w := range words {
		lower := strings.ToLower(w)
		if i > 0 && nameParticles[lower] {
			words[i] = lower
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}
