package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDraftValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		draft   PostDraft
		missing []string
	}{
		{name: "complete", draft: PostDraft{Title: "t", Content: "c", Category: "general"}},
		{name: "empty title", draft: PostDraft{Content: "x", Category: "general"}, missing: []string{"title"}},
		{name: "everything empty", draft: PostDraft{}, missing: []string{"title", "content", "category"}},
		{name: "unknown category", draft: PostDraft{Title: "t", Content: "c", Category: "sports"}, missing: []string{"category"}},
		{name: "alias category", draft: PostDraft{Title: "t", Content: "c", Category: "WellBeing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.draft.Validate()
			if len(tt.missing) == 0 {
				require.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.missing, verr.Missing())
		})
	}
}

func TestAuthorValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Author{Name: "Sarah Johnson", Initials: "SJ", AvatarRef: "/placeholder.svg?height=40&width=40"}.Validate())

	var verr *ValidationError
	require.ErrorAs(t, Author{Initials: "ABCD"}.Validate(), &verr)
	assert.True(t, verr.Has("name"))
	assert.True(t, verr.Has("initials"))
}

func TestCommentValidate(t *testing.T) {
	t.Parallel()

	var verr *ValidationError
	require.ErrorAs(t, Comment{Author: Author{Name: "Jamie Lee"}}.Validate(), &verr)
	assert.Equal(t, []string{"content"}, verr.Missing())
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]Category{
		"academic":    CategoryAcademic,
		"ACADEMIC":    CategoryAcademic,
		" Well-being": CategoryWellBeing,
		"wellbeing":   CategoryWellBeing,
		"career":      CategoryCareer,
	} {
		got, ok := ParseCategory(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := ParseCategory("sports")
	assert.False(t, ok)
	assert.Equal(t, "well-being", CategoryWellBeing.Key())
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SortPopular, ParseSortKey("Popular"))
	assert.Equal(t, SortActive, ParseSortKey(" active "))
	assert.Equal(t, SortRecent, ParseSortKey("recent"))
	assert.Equal(t, SortRecent, ParseSortKey("trending"))
}

func TestAuthorNormalized(t *testing.T) {
	t.Parallel()

	a := Author{Name: "  mary ann jo smith "}.Normalized()
	assert.Equal(t, "mary ann jo smith", a.Name)
	assert.Equal(t, "MAJ", a.Initials)

	kept := Author{Name: "John Smith", Initials: "JS"}.Normalized()
	assert.Equal(t, "JS", kept.Initials)
	assert.True(t, Author{}.IsZero())
}

func TestPostClone(t *testing.T) {
	t.Parallel()

	p := Post{ID: 1, Comments: []Comment{{ID: 1, Content: "a"}}}
	c := p.Clone()
	c.Comments[0].Content = "changed"
	assert.Equal(t, "a", p.Comments[0].Content)
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewValidationError(FieldError{Field: "title", Reason: "is required"}, FieldError{Field: "content", Reason: "is required"})
	assert.Equal(t, "validation failed: title is required, content is required", err.Error())
}
