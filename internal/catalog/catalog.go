// Package catalog serves the read-only wellbeing resource list with the
// same filter and window mechanics as the community feed.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"CommunityEngine/internal/session"
	"CommunityEngine/internal/view"
)

//go:embed resources.yaml
var defaultResources []byte

// Resource is one catalog entry.
type Resource struct {
	ID          int    `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Format      string `yaml:"format"`
	Duration    string `yaml:"duration"`
	Link        string `yaml:"link"`
}

// Criteria narrows the catalog. Categories are slugs ("mental-health");
// formats match case-insensitively and a plural form ("videos") is accepted.
type Criteria struct {
	Search     string
	Categories []string
	Formats    []string
}

// Page is the windowed part of a filtered catalog.
type Page struct {
	Resources []Resource
	Total     int
	HasMore   bool
}

// Empty reports whether no resource matched.
func (p Page) Empty() bool {
	return p.Total == 0
}

// Catalog is an immutable resource list.
type Catalog struct {
	resources []Resource
}

// New builds a catalog from resources in display order.
func New(resources []Resource) *Catalog {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return &Catalog{resources: out}
}

// Default returns the built-in resource list.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultResources))
}

// Load decodes a YAML resource list.
func Load(r io.Reader) (*Catalog, error) {
	var resources []Resource
	if err := yaml.NewDecoder(r).Decode(&resources); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode resources: %w", err)
	}
	return New(resources), nil
}

// Len is the number of resources.
func (c *Catalog) Len() int {
	return len(c.resources)
}

// Filter returns matching resources in catalog order.
func (c *Catalog) Filter(criteria Criteria) []Resource {
	search := criteria.Search
	categories := toSet(criteria.Categories, Slug)
	formats := toSet(criteria.Formats, formatKey)

	return view.Select(c.resources,
		func(r Resource) bool {
			return search == "" || view.ContainsFold(r.Title, search) || view.ContainsFold(r.Description, search)
		},
		func(r Resource) bool {
			if len(categories) == 0 {
				return true
			}
			_, ok := categories[Slug(r.Category)]
			return ok
		},
		func(r Resource) bool {
			if len(formats) == 0 {
				return true
			}
			_, ok := formats[formatKey(r.Format)]
			return ok
		},
	)
}

// Slug lower-cases s and joins its words with '-'.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func formatKey(s string) string {
	return strings.TrimSuffix(Slug(s), "s")
}

func toSet(values []string, key func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if k := key(v); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

// Browser pairs a catalog with one viewer's window.
type Browser struct {
	catalog *Catalog

	mu     sync.Mutex
	window session.Window
}

// NewBrowser starts with the resource window; a zero initial uses the default.
func NewBrowser(catalog *Catalog, initial int) *Browser {
	if initial <= 0 {
		initial = session.DefaultResourceWindow
	}
	return &Browser{catalog: catalog, window: session.NewWindow(initial, initial)}
}

// Page filters the catalog and windows the result.
func (b *Browser) Page(criteria Criteria) Page {
	matched := b.catalog.Filter(criteria)

	b.mu.Lock()
	window := b.window
	b.mu.Unlock()

	return Page{
		Resources: view.Window(matched, window.Visible(len(matched))),
		Total:     len(matched),
		HasMore:   window.HasMore(len(matched)),
	}
}

// LoadMore grows the window and returns its new size.
func (b *Browser) LoadMore() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.window.LoadMore()
}
