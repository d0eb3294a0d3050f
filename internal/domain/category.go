package domain

import "strings"

// Category groups posts by topic. Values are stored canonically cased.
type Category string

const (
	CategoryAcademic  Category = "Academic"
	CategoryWellBeing Category = "Well-being"
	CategorySocial    Category = "Social"
	CategoryCareer    Category = "Career"
	CategoryGeneral   Category = "General"
)

var categoryLookup = map[string]Category{
	"academic":   CategoryAcademic,
	"well-being": CategoryWellBeing,
	"wellbeing":  CategoryWellBeing,
	"well being": CategoryWellBeing,
	"social":     CategorySocial,
	"career":     CategoryCareer,
	"general":    CategoryGeneral,
}

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{CategoryAcademic, CategoryWellBeing, CategorySocial, CategoryCareer, CategoryGeneral}
}

// ParseCategory resolves user input case-insensitively, accepting the
// "wellbeing" spelling used by filter checkboxes.
func ParseCategory(value string) (Category, bool) {
	c, ok := categoryLookup[strings.ToLower(strings.TrimSpace(value))]
	return c, ok
}

// Key is the lower-cased form used for filter membership.
func (c Category) Key() string {
	return strings.ToLower(string(c))
}

func (c Category) String() string {
	return string(c)
}

// SortKey selects the ordering of a view.
type SortKey string

const (
	SortRecent  SortKey = "recent"
	SortPopular SortKey = "popular"
	SortActive  SortKey = "active"
)

// ParseSortKey is case-insensitive; anything unrecognised means recent.
func ParseSortKey(value string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(value))) {
	case SortPopular:
		return SortPopular
	case SortActive:
		return SortActive
	default:
		return SortRecent
	}
}

// FilterCriteria is supplied per query and never stored.
type FilterCriteria struct {
	SearchText string
	Categories []string
	Sort       SortKey
}
