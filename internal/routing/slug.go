// internal/routing/slug.go
//
// Slug and path helpers.
//
// • MakeSlug(title) ─ converts Turkish or English text into a URL-safe slug
//   restricted to ASCII a-z, 0-9 and “-”.
// • BuildPath(parent, slug) ─ joins parent path + slug with a single “/” and
//   guarantees exactly one leading slash.
//
// Rules (MakeSlug)
// ----------------
// 1. Lower-case with Turkish casing rules (İ → i, I → ı).
// 2. Transliterate ğ→g, ü→u, ş→s, ı→i, ö→o, ç→c.
// 3. Convert any run of non-[a-z0-9] characters to one “-”.
// 4. Trim leading / trailing “-”.
// 5. Cap at 100 bytes, trimming a dash the cut may expose.
//
// MakeSlug is idempotent: its output contains only [a-z0-9-] with no
// leading, trailing, or doubled dash, and step 3 maps such input to itself.

package routing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxSlugLen = 100

var trFold = strings.NewReplacer(
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ı", "i",
	"ö", "o",
	"ç", "c",
)

// MakeSlug converts title → lower-kebab ASCII.  Empty or symbol-only input
// yields "".
func MakeSlug(title string) string {
	// Casers are stateful; one per call.
	src := trFold.Replace(cases.Lower(language.Turkish).String(title))

	var b strings.Builder
	b.Grow(len(src))

	lastWasDash := false
	for _, r := range src {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteByte('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// BuildPath joins parent + slug ensuring exactly one leading slash and no
// duplicate separators.
func BuildPath(parent, slug string) string {
	parent = strings.Trim(parent, "/")
	slug = strings.Trim(slug, "/")

	switch {
	case parent == "" && slug == "":
		return "/"
	case parent == "":
		return "/" + slug
	case slug == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + slug
	}
}
