// Package teams resolves team identity across providers that spell names differently.
package teams

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// abbreviations are expanded only when they stand alone as a word
var abbreviations = map[string]string{
	"st": "state",
	"mt": "mount",
	"ft": "fort",
}

// compounds apply after abbreviation expansion, on adjacent words
var compounds = []struct {
	from []string
	to   []string
}{
	{from: []string{"app", "state"}, to: []string{"appalachian", "state"}},
}

var punctuation = strings.NewReplacer(
	"'", "",
	"’", "",
	"‘", "",
	"`", "",
	".", "",
	"-", "",
	"–", "",
	"—", "",
	"&", "",
	"(", "",
	")", "",
)

// Normalize reduces a team name to a canonical comparison key.
// The result contains no whitespace and Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	s := stripMarks(name)
	s = punctuation.Replace(s)
	s = strings.ToLower(s)

	words := strings.Fields(s)
	for i, w := range words {
		if full, ok := abbreviations[w]; ok {
			words[i] = full
		}
	}
	words = expandCompounds(words)

	key := strings.Join(words, "")
	if full, ok := abbreviations[key]; ok {
		// "S T" collapses to "st"; expand so a second pass is a no-op
		key = full
	}
	return key
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func expandCompounds(words []string) []string {
	for _, c := range compounds {
		for i := 0; i+len(c.from) <= len(words); i++ {
			if !slices.Equal(words[i:i+len(c.from)], c.from) {
				continue
			}
			expanded := make([]string, 0, len(words)-len(c.from)+len(c.to))
			expanded = append(expanded, words[:i]...)
			expanded = append(expanded, c.to...)
			expanded = append(expanded, words[i+len(c.from):]...)
			words = expanded
			i += len(c.to) - 1
		}
	}
	return words
}
