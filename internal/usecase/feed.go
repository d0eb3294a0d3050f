package usecase

import (
	"context"
	"fmt"

	"CommunityEngine/internal/deferred"
	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/ports"
	"CommunityEngine/internal/session"
	"CommunityEngine/internal/view"
)

// Page is the materialised part of a view.
type Page struct {
	Posts   []domain.Post
	Total   int
	Window  int
	HasMore bool
}

// Empty reports whether nothing matched the criteria.
func (p Page) Empty() bool {
	return p.Total == 0
}

// FeedDeps wires the feed.
type FeedDeps struct {
	Store    ports.PostStore
	Pipeline *view.Pipeline
	Session  *session.Session
	Mutator  *Mutator
}

// Feed drives one viewer's community page: it recomputes the view from
// the store on every read, windows it, and routes dialog actions to the
// mutator using the session's selected post.
type Feed struct {
	store    ports.PostStore
	pipeline *view.Pipeline
	session  *session.Session
	mutator  *Mutator
}

// NewFeed constructs a feed; missing pipeline or session get defaults.
func NewFeed(deps FeedDeps) *Feed {
	pipeline := deps.Pipeline
	if pipeline == nil {
		pipeline = view.NewPipeline(nil)
	}
	sess := deps.Session
	if sess == nil {
		sess = session.New(session.NewWindow(session.DefaultPostWindow, session.DefaultStep))
	}
	return &Feed{
		store:    deps.Store,
		pipeline: pipeline,
		session:  sess,
		mutator:  deps.Mutator,
	}
}

// Session exposes the viewer state.
func (f *Feed) Session() *session.Session {
	return f.session
}

// View returns the full filtered and ordered view.
func (f *Feed) View(criteria domain.FilterCriteria) []domain.Post {
	return f.pipeline.Apply(f.store.All(), criteria)
}

// Page returns the windowed view. The window is not reset when criteria
// change; it is truncated to the view instead.
func (f *Feed) Page(criteria domain.FilterCriteria) Page {
	posts := f.View(criteria)
	window := f.session.Window()
	return Page{
		Posts:   view.Window(posts, window.Visible(len(posts))),
		Total:   len(posts),
		Window:  window.Size(),
		HasMore: window.HasMore(len(posts)),
	}
}

// LoadMore grows the window by one step.
func (f *Feed) LoadMore() int {
	return f.session.LoadMore()
}

// OpenComments selects a post for the comment dialog and returns it with
// its previous comments.
func (f *Feed) OpenComments(postID int64) (domain.Post, error) {
	post, err := f.store.Get(postID)
	if err != nil {
		return domain.Post{}, err
	}
	f.session.Open(session.DialogComment, postID)
	return post, nil
}

// SubmitComment comments on the selected post and closes the dialog on
// success. On failure the dialog stays open with its subject.
func (f *Feed) SubmitComment(ctx context.Context, author domain.Author, text string) (domain.Post, error) {
	if f.mutator == nil {
		return domain.Post{}, fmt.Errorf("submit comment: mutator is not configured")
	}
	postID, ok := f.session.Selected()
	if !ok {
		return domain.Post{}, fmt.Errorf("submit comment: %w", domain.ErrNotFound)
	}

	post, err := f.mutator.AddComment(ctx, postID, author, text)
	if err != nil {
		return domain.Post{}, err
	}
	f.session.Close()
	return post, nil
}

// OpenShare opens the share dialog and starts the share. When the share
// completes the dialog is closed if it is still showing the same post; a
// dialog closed earlier does not stop the completion or its notification.
func (f *Feed) OpenShare(ctx context.Context, postID int64) (*deferred.Handle[string], error) {
	if f.mutator == nil {
		return nil, fmt.Errorf("share: mutator is not configured")
	}

	if _, err := f.store.Get(postID); err != nil {
		return nil, err
	}
	f.session.Open(session.DialogShare, postID)

	handle, err := f.mutator.Share(ctx, postID, func(string, error) {
		if f.session.Dialog() != session.DialogShare {
			return
		}
		if current, ok := f.session.Selected(); ok && current == postID {
			f.session.Close()
		}
	})
	if err != nil {
		f.session.Close()
		return nil, err
	}
	return handle, nil
}

// CloseDialog hides whichever dialog is open.
func (f *Feed) CloseDialog() {
	f.session.Close()
}

// Selected re-resolves the session subject against the store.
func (f *Feed) Selected() (domain.Post, error) {
	return f.session.Resolve(f.store)
}
