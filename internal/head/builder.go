// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page's
// <head> element.  It is scoped to a single request.  Handlers seed it from
// the site settings, then narrow it with the post or route being shown;
// the base layout emits the result.
//
// Features
// --------
//   - Seed           site_title / site_description / site_keywords defaults.
//   - Page           per-page title, joined to the site title.
//   - Override       metaTitle / metaDescription from a post or route.
//   - Meta, Link     arbitrary tags with deduplication.
//   - JSONLD         raw JSON-LD wrapped in <script type="application/ld+json">.
package head

import (
	"html/template"
	"strings"
	"sync"
)

const titleSep = " | "

// Builder is used by one request at a time; the mutex only guards against
// template helpers reading while a handler still writes.
type Builder struct {
	mu sync.Mutex

	site        string
	title       string
	description string
	keywords    string
	canonical   string
	image       string

	metas  []string
	links  []string
	jsonLD []string

	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Value helpers
// ------------------------------------------------------------------

// Seed applies site-wide defaults from the settings map.  Missing keys
// leave the current value alone.
func (b *Builder) Seed(settings map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v := strings.TrimSpace(settings["site_title"]); v != "" {
		b.site = v
	}
	if v := strings.TrimSpace(settings["site_description"]); v != "" {
		b.description = v
	}
	if v := strings.TrimSpace(settings["site_keywords"]); v != "" {
		b.keywords = v
	}
}

// Page sets the page-specific part of the title.  The last caller wins.
func (b *Builder) Page(t string) {
	b.mu.Lock()
	b.title = strings.TrimSpace(t)
	b.mu.Unlock()
}

// Override applies an entity's metaTitle and metaDescription.  A non-empty
// metaTitle replaces the whole title, site name included.
func (b *Builder) Override(metaTitle, metaDescription string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v := strings.TrimSpace(metaTitle); v != "" {
		b.title = v
		b.site = ""
	}
	if v := strings.TrimSpace(metaDescription); v != "" {
		b.description = v
	}
}

// Describe replaces the site description with a page summary.  Call it
// before Override so a metaDescription still wins.
func (b *Builder) Describe(d string) {
	b.mu.Lock()
	if v := strings.TrimSpace(d); v != "" {
		b.description = v
	}
	b.mu.Unlock()
}

// Canonical records the absolute page URL.
func (b *Builder) Canonical(u string) {
	b.mu.Lock()
	b.canonical = u
	b.mu.Unlock()
}

// Image records the Open Graph image.
func (b *Builder) Image(u string) {
	b.mu.Lock()
	b.image = u
	b.mu.Unlock()
}

// TitleText is the plain title: "<page> | <site>", either part alone, or "".
func (b *Builder) TitleText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.title != "" && b.site != "":
		return b.title + titleSep + b.site
	case b.title != "":
		return b.title
	default:
		return b.site
	}
}

// DescriptionText returns the meta description.
func (b *Builder) DescriptionText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.description
}

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	t := b.TitleText()
	if t == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(t) + "</title>")
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

func (b *Builder) Meta(tag string)  { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string)  { b.add("link:"+tag, &b.links, tag) }
func (b *Builder) JSONLD(js string) { b.add("jsonld:"+hash(js), &b.jsonLD, js) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// hash creates a short, stable key for JSON-LD strings.
func hash(s string) string {
	if len(s) > 32 {
		return s[:32]
	}
	return s
}

// ------------------------------------------------------------------
// Rendering helpers called from templates
// ------------------------------------------------------------------

// Metas renders description, keywords, Open Graph tags and any extra
// meta tags.
func (b *Builder) Metas() template.HTML {
	var sb strings.Builder
	title := b.TitleText()
	b.mu.Lock()
	defer b.mu.Unlock()
	meta := func(attr, name, content string) {
		if content == "" {
			return
		}
		sb.WriteString(`<meta ` + attr + `="` + name + `" content="`)
		sb.WriteString(template.HTMLEscapeString(content))
		sb.WriteString(`">`)
	}
	meta("name", "description", b.description)
	meta("name", "keywords", b.keywords)
	meta("property", "og:title", title)
	meta("property", "og:description", b.description)
	meta("property", "og:image", b.image)
	meta("property", "og:url", b.canonical)
	sb.WriteString(strings.Join(b.metas, ""))
	return template.HTML(sb.String())
}

// Links renders the canonical link plus any extra link tags.
func (b *Builder) Links() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	if b.canonical != "" {
		sb.WriteString(`<link rel="canonical" href="` + template.HTMLEscapeString(b.canonical) + `">`)
	}
	sb.WriteString(strings.Join(b.links, ""))
	return template.HTML(sb.String())
}

// JSON returns all JSON-LD blocks wrapped in <script> tags.
func (b *Builder) JSON() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.jsonLD) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">`)
		sb.WriteString(js)
		sb.WriteString(`</script>`)
	}
	return template.HTML(sb.String())
}
