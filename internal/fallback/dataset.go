// internal/fallback/dataset.go
//
// Bundled sample content.
//
// Context
// -------
// dataset.yaml is embedded in the binary and decoded once.  Its keys use the
// API's JSON names, so the YAML tree is re-encoded as JSON and decoded into
// the same content types the API client returns; the pages cannot tell the
// two sources apart except through the banner.
//
// Post and route bodies are authored in Markdown and rendered to HTML here,
// matching the HTML the admin stores for live content.

package fallback

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/yanizio/viyakaptan/internal/content"
)

//go:embed dataset.yaml
var datasetYAML []byte

// Dataset is the full sample site.
type Dataset struct {
	Settings   map[string]string      `json:"settings"`
	Categories []content.Category     `json:"categories"`
	Posts      []content.Post         `json:"posts"`
	Routes     []content.CaravanRoute `json:"routes"`
	Hero       *content.HeroSection   `json:"hero"`
	Features   []content.FeatureCard  `json:"features"`
	Team       []content.TeamMember   `json:"team"`
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Typographer),
)

var (
	once    sync.Once
	sample  *Dataset
	loadErr error
)

// Sample returns the decoded dataset.  The embedded file is part of the
// build, so a decode failure is a programming error and panics.
func Sample() *Dataset {
	once.Do(func() { sample, loadErr = Parse(datasetYAML) })
	if loadErr != nil {
		panic(fmt.Sprintf("fallback: embedded dataset: %v", loadErr))
	}
	return sample
}

// Parse decodes a dataset document and renders its Markdown bodies.
func Parse(doc []byte) (*Dataset, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(doc, &tree); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("re-encode: %w", err)
	}
	var d Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	for i := range d.Posts {
		if d.Posts[i].Content, err = render(d.Posts[i].Content); err != nil {
			return nil, fmt.Errorf("post %q: %w", d.Posts[i].Slug, err)
		}
	}
	for i := range d.Routes {
		if d.Routes[i].Content, err = render(d.Routes[i].Content); err != nil {
			return nil, fmt.Errorf("route %q: %w", d.Routes[i].Slug, err)
		}
		d.Routes[i].Difficulty = content.ParseDifficulty(string(d.Routes[i].Difficulty))
	}
	if d.Settings == nil {
		d.Settings = map[string]string{}
	}

	sort.SliceStable(d.Posts, func(i, j int) bool {
		a, b := d.Posts[i].PublishedAt, d.Posts[j].PublishedAt
		return a != nil && (b == nil || a.After(*b))
	})
	return &d, nil
}

func render(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

//
// lookups
//

// PostBySlug returns nil when slug is not in the dataset.
func (d *Dataset) PostBySlug(slug string) *content.Post {
	for i := range d.Posts {
		if d.Posts[i].Slug == slug {
			p := d.Posts[i]
			return &p
		}
	}
	return nil
}

// RouteBySlug returns nil when slug is not in the dataset.
func (d *Dataset) RouteBySlug(slug string) *content.CaravanRoute {
	for i := range d.Routes {
		if d.Routes[i].Slug == slug {
			r := d.Routes[i]
			return &r
		}
	}
	return nil
}

// Homepage assembles the landing-page bundle from the sample.
func (d *Dataset) Homepage() content.Homepage {
	return content.Homepage{
		Hero:     d.Hero,
		Features: d.Features,
		Posts:    d.Posts,
		Routes:   d.Routes,
		Settings: d.Settings,
	}
}
