package models

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
	reSlug     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Slugify lowers free text into an ascii slug [a-z0-9-]: diacritics are
// stripped (é → e), runs of anything else collapse to single hyphens.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugifyUnicode keeps letters and digits from any script. Sponsored-event
// slugs are unicode-aware, so CJK titles survive as-is.
func SlugifyUnicode(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastDash := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// ValidSlug reports whether s is an ascii slug token.
func ValidSlug(s string) bool {
	return s != "" && reSlug.MatchString(s)
}

// ValidUnicodeSlug allows letters and digits from any script plus hyphen
// and underscore.
func ValidUnicodeSlug(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
