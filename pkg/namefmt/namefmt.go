// Package namefmt converts raw vernacular names into display form.
package namefmt

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var smallWords = func() map[string]struct{} {
	words := []string{
		"a", "an", "and", "as", "at", "but", "by", "en", "for", "if", "in",
		"nor", "of", "on", "or", "per", "the", "to", "v", "via", "vs",
		"de", "du", "des", "la", "le", "les", "el", "y", "da", "do", "dos",
		"der", "die", "das", "und",
	}
	res := make(map[string]struct{}, len(words))
	for _, w := range words {
		res[w] = struct{}{}
	}
	return res
}()

// Format returns a title-cased name. Small words such as articles and
// prepositions stay lower-case unless they start or end the name.
// Acronyms and words with inner capitals keep their case.
func Format(name string) string {
	return FormatLang(name, "")
}

// FormatLang is Format that applies casing rules of a language.
func FormatLang(name, lang string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}

	tag := language.Und
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			tag = t
		}
	}
	caser := cases.Title(tag, cases.NoLower)
	lower := cases.Lower(tag)

	last := len(words) - 1
	for i, w := range words {
		if keepCase(w) {
			continue
		}
		lw := lower.String(w)
		if _, ok := smallWords[lw]; ok && i != 0 && i != last {
			words[i] = lw
			continue
		}
		words[i] = caser.String(lw)
	}
	return strings.Join(words, " ")
}

// keepCase is true for acronyms of two or more letters and for words
// with a capital letter after the first one.
func keepCase(w string) bool {
	var letters, uppers int
	var inner bool
	for i, r := range []rune(w) {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			uppers++
			if i > 0 {
				inner = true
			}
		}
	}
	if letters >= 2 && uppers == letters {
		return true
	}
	return inner && uppers < letters
}
