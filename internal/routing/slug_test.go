// internal/routing/slug_test.go

package routing

import (
	"regexp"
	"strings"
	"testing"
)

var slugShape = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

func TestMakeSlugExamples(t *testing.T) {
	cases := map[string]string{
		"Akdeniz Kıyıları Karavan Rotası":     "akdeniz-kiyilari-karavan-rotasi",
		"Tekne Bakımı: İlkbahar Hazırlığı":    "tekne-bakimi-ilkbahar-hazirligi",
		"Kapadokya Çevresi":                   "kapadokya-cevresi",
		"ISPARTA gülleri":                     "isparta-gulleri",
		"  --Marina   Seçimi Rehberi!!  ":     "marina-secimi-rehberi",
		"Göreme & Ürgüp (5 gün)":              "goreme-urgup-5-gun",
		"":                                    "",
		"!!!":                                 "",
		"already-a-slug":                      "already-a-slug",
		"Şile'de Hafta Sonu":                  "sile-de-hafta-sonu",
		"Café crème":                          "caf-cr-me",
	}
	for in, want := range cases {
		if got := MakeSlug(in); got != want {
			t.Errorf("MakeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeSlugProperties(t *testing.T) {
	inputs := []string{
		"Karadeniz Sahil Rotası",
		"Uzungöl doğal güzelliği",
		"--ÇĞİÖŞÜ çğıöşü--",
		"a  b\t\tc\nd",
		"Emoji 🚐 karavan",
		strings.Repeat("Uzun Başlık ", 20),
		"İSTANBUL",
		"-x-",
	}
	for _, in := range inputs {
		s := MakeSlug(in)
		if !slugShape.MatchString(s) {
			t.Errorf("MakeSlug(%q) = %q has invalid shape", in, s)
		}
		if again := MakeSlug(s); again != s {
			t.Errorf("not idempotent: %q → %q → %q", in, s, again)
		}
		if len(s) > maxSlugLen {
			t.Errorf("MakeSlug(%q) longer than %d", in, maxSlugLen)
		}
	}
}

func TestBuildPath(t *testing.T) {
	cases := []struct{ parent, slug, want string }{
		{"", "", "/"},
		{"blog", "", "/blog"},
		{"", "hakkimizda", "/hakkimizda"},
		{"/karavan/", "/kapadokya-cevresi/", "/karavan/kapadokya-cevresi"},
	}
	for _, c := range cases {
		if got := BuildPath(c.parent, c.slug); got != c.want {
			t.Errorf("BuildPath(%q, %q) = %q, want %q", c.parent, c.slug, got, c.want)
		}
	}
}
