package view

import (
	"fmt"
	"slices"

	"CommunityEngine/internal/domain"
)

// Sorter orders a view in place. Implementations must be stable so that
// ties keep store order.
type Sorter interface {
	Key() domain.SortKey
	Sort(posts []domain.Post)
}

// Registry maps sort keys to their strategies.
type Registry struct {
	sorters map[domain.SortKey]Sorter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sorters: map[domain.SortKey]Sorter{}}
}

// DefaultRegistry registers the recent, popular and active orderings.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(recentSorter{})
	r.Register(ByDescending(domain.SortPopular, func(p domain.Post) int { return p.LikeCount }))
	r.Register(ByDescending(domain.SortActive, func(p domain.Post) int { return p.CommentCount }))
	return r
}

// Register adds or replaces a sorter.
func (r *Registry) Register(sorter Sorter) {
	if r.sorters == nil {
		r.sorters = map[domain.SortKey]Sorter{}
	}
	r.sorters[sorter.Key()] = sorter
}

// Resolve returns the sorter for key or an error if it is absent.
func (r *Registry) Resolve(key domain.SortKey) (Sorter, error) {
	if sorter, ok := r.sorters[key]; ok {
		return sorter, nil
	}
	return nil, fmt.Errorf("sort key %q is not registered", key)
}

type recentSorter struct{}

func (recentSorter) Key() domain.SortKey { return domain.SortRecent }

// Sort leaves store order (newest first) untouched.
func (recentSorter) Sort([]domain.Post) {}

type descendingSorter struct {
	key   domain.SortKey
	value func(domain.Post) int
}

// ByDescending sorts stably by value, largest first.
func ByDescending(key domain.SortKey, value func(domain.Post) int) Sorter {
	return descendingSorter{key: key, value: value}
}

func (d descendingSorter) Key() domain.SortKey { return d.key }

func (d descendingSorter) Sort(posts []domain.Post) {
	slices.SortStableFunc(posts, func(a, b domain.Post) int {
		return d.value(b) - d.value(a)
	})
}
