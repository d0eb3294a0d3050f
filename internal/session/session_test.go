package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommunityEngine/internal/domain"
)

type mapLookup map[int64]domain.Post

func (m mapLookup) Get(id int64) (domain.Post, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return domain.Post{}, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
}

func TestWindowLoadMoreIsMonotonic(t *testing.T) {
	t.Parallel()

	w := NewWindow(3, 3)
	prev := w.Size()
	for i := 0; i < 10; i++ {
		size := w.LoadMore()
		assert.Equal(t, prev+3, size)
		prev = size
	}
}

func TestWindowTruncatesGracefully(t *testing.T) {
	t.Parallel()

	w := NewWindow(3, 3)
	w.LoadMore()

	assert.Equal(t, 6, w.Visible(10))
	assert.Equal(t, 2, w.Visible(2), "narrowed view never renders past its end")
	assert.Equal(t, 0, w.Visible(0))
	assert.True(t, w.HasMore(7))
	assert.False(t, w.HasMore(6))

	w.Reset()
	assert.Equal(t, 3, w.Size())
}

func TestWindowDefaults(t *testing.T) {
	t.Parallel()

	w := NewWindow(0, -1)
	assert.Equal(t, DefaultPostWindow, w.Size())
	assert.Equal(t, DefaultStep, w.Step())
	assert.Equal(t, 5, NewWindow(DefaultResourceWindow, 0).Size())
}

func TestSessionResolve(t *testing.T) {
	t.Parallel()

	lookup := mapLookup{7: {ID: 7, Title: "Managing stress"}}
	s := New(NewWindow(3, 3))

	_, err := s.Resolve(lookup)
	require.ErrorIs(t, err, domain.ErrNotFound)

	s.Select(7)
	post, err := s.Resolve(lookup)
	require.NoError(t, err)
	assert.Equal(t, "Managing stress", post.Title)

	s.Select(8)
	_, err = s.Resolve(lookup)
	require.ErrorIs(t, err, domain.ErrNotFound)

	s.Clear()
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestSessionDialogs(t *testing.T) {
	t.Parallel()

	s := New(NewWindow(3, 3))
	assert.Equal(t, DialogNone, s.Dialog())

	s.Open(DialogShare, 3)
	assert.Equal(t, DialogShare, s.Dialog())
	id, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)

	s.Close()
	assert.Equal(t, DialogNone, s.Dialog())
	assert.Equal(t, "none", s.Dialog().String())

	assert.Equal(t, 6, s.LoadMore())
	s.ResetWindow()
	assert.Equal(t, 3, s.Window().Size())
}
