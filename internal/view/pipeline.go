// Package view derives filtered and ordered views from store snapshots.
package view

import (
	"strings"

	"CommunityEngine/internal/domain"
)

// Pipeline applies filter criteria to a post sequence. It holds no state
// besides its sort strategies, so identical inputs give identical output.
type Pipeline struct {
	registry *Registry
}

// NewPipeline wires a sort registry; nil uses DefaultRegistry.
func NewPipeline(registry *Registry) *Pipeline {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Pipeline{registry: registry}
}

// Apply filters by search text and category, then orders the result. The
// search text is a case-insensitive substring taken as typed, whitespace
// included. The input slice is never modified and the result is never nil.
func (p *Pipeline) Apply(posts []domain.Post, criteria domain.FilterCriteria) []domain.Post {
	search := criteria.SearchText
	categories := categorySet(criteria.Categories)

	out := Select(posts,
		func(post domain.Post) bool {
			return search == "" || ContainsFold(post.Title, search) || ContainsFold(post.Content, search)
		},
		func(post domain.Post) bool {
			if len(categories) == 0 {
				return true
			}
			_, ok := categories[post.Category.Key()]
			return ok
		},
	)

	sorter, err := p.registry.Resolve(domain.ParseSortKey(string(criteria.Sort)))
	if err != nil {
		return out
	}
	sorter.Sort(out)
	return out
}

// Apply runs the default pipeline.
func Apply(posts []domain.Post, criteria domain.FilterCriteria) []domain.Post {
	return defaultPipeline.Apply(posts, criteria)
}

var defaultPipeline = NewPipeline(nil)

func categorySet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if c, ok := domain.ParseCategory(v); ok {
			set[c.Key()] = struct{}{}
			continue
		}
		if key := strings.ToLower(strings.TrimSpace(v)); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}
