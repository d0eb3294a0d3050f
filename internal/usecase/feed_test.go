package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/session"
)

func newFeed(t *testing.T) (*Feed, *harness) {
	t.Helper()

	h := newHarness(t)
	return NewFeed(FeedDeps{Store: h.store, Mutator: h.mutator}), h
}

func postIDs(posts []domain.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestFeedPageWindow(t *testing.T) {
	t.Parallel()

	feed, h := newFeed(t)
	for i := 0; i < 4; i++ {
		_, err := h.mutator.CreatePost(context.Background(), domain.PostDraft{Title: "extra", Content: "more", Category: "General"}, domain.Author{})
		require.NoError(t, err)
	}

	page := feed.Page(domain.FilterCriteria{})
	assert.Len(t, page.Posts, 3)
	assert.Equal(t, 7, page.Total)
	assert.True(t, page.HasMore)

	assert.Equal(t, 6, feed.LoadMore())
	page = feed.Page(domain.FilterCriteria{})
	assert.Len(t, page.Posts, 6)
	assert.True(t, page.HasMore)

	feed.LoadMore()
	page = feed.Page(domain.FilterCriteria{})
	assert.Len(t, page.Posts, 7)
	assert.False(t, page.HasMore)
	assert.Equal(t, 9, page.Window)
}

func TestFeedWindowSurvivesNarrowingFilter(t *testing.T) {
	t.Parallel()

	feed, _ := newFeed(t)
	feed.LoadMore()

	page := feed.Page(domain.FilterCriteria{Categories: []string{"academic"}})
	assert.Equal(t, []int64{1}, postIDs(page.Posts))
	assert.Equal(t, 6, page.Window)
	assert.False(t, page.HasMore)

	page = feed.Page(domain.FilterCriteria{SearchText: "no such thing"})
	assert.True(t, page.Empty())
	assert.Empty(t, page.Posts)

	feed.Session().ResetWindow()
	assert.Equal(t, 3, feed.Page(domain.FilterCriteria{}).Window)
}

func TestFeedViewSortsPopular(t *testing.T) {
	t.Parallel()

	feed, _ := newFeed(t)
	got := feed.View(domain.FilterCriteria{Sort: domain.SortPopular})
	assert.Equal(t, []int64{3, 1, 2}, postIDs(got))
}

func TestFeedCommentDialog(t *testing.T) {
	t.Parallel()

	feed, h := newFeed(t)

	post, err := feed.OpenComments(1)
	require.NoError(t, err)
	assert.Len(t, post.Comments, 2)
	assert.Equal(t, session.DialogComment, feed.Session().Dialog())

	_, err = feed.SubmitComment(context.Background(), domain.Author{}, "   ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, session.DialogComment, feed.Session().Dialog())

	updated, err := feed.SubmitComment(context.Background(), domain.Author{}, "Flashcards help too")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.CommentCount)
	assert.Equal(t, session.DialogNone, feed.Session().Dialog())
	assert.Equal(t, []string{"Comment added"}, titles(h.recorder.Sent()))

	_, err = feed.OpenComments(404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedSubmitCommentWithoutSelection(t *testing.T) {
	t.Parallel()

	feed, _ := newFeed(t)
	_, err := feed.SubmitComment(context.Background(), domain.Author{}, "hello")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFeedShareClosesDialogOnCompletion(t *testing.T) {
	t.Parallel()

	feed, h := newFeed(t)
	handle, err := feed.OpenShare(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, session.DialogShare, feed.Session().Dialog())

	uri, err := handle.Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "https://studentwell.com/community/post/2", uri)
	assert.Equal(t, session.DialogNone, feed.Session().Dialog())
	assert.Equal(t, []string{"Post shared"}, titles(h.recorder.Sent()))
}

func TestFeedShareCompletesAfterDialogMovesOn(t *testing.T) {
	t.Parallel()

	feed, h := newFeed(t)
	h.mutator.shareLatency = 100 * time.Millisecond

	handle, err := feed.OpenShare(context.Background(), 2)
	require.NoError(t, err)

	_, err = feed.OpenComments(3)
	require.NoError(t, err)

	_, err = handle.Wait(waitCtx(t))
	require.NoError(t, err)

	assert.Equal(t, session.DialogComment, feed.Session().Dialog())
	id, ok := feed.Session().Selected()
	assert.True(t, ok)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, []string{"Post shared"}, titles(h.recorder.Sent()))
}

func TestFeedShareUnknownPost(t *testing.T) {
	t.Parallel()

	feed, _ := newFeed(t)
	_, err := feed.OpenShare(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, session.DialogNone, feed.Session().Dialog())
}

func TestFeedSelectedResolvesWhenFilteredOut(t *testing.T) {
	t.Parallel()

	feed, _ := newFeed(t)
	_, err := feed.OpenComments(2)
	require.NoError(t, err)

	page := feed.Page(domain.FilterCriteria{Categories: []string{"Academic"}})
	assert.NotContains(t, postIDs(page.Posts), int64(2))

	selected, err := feed.Selected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), selected.ID)
}
