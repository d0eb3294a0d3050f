package session

import (
	"fmt"
	"sync"

	"CommunityEngine/internal/domain"
)

// Dialog identifies which modal interaction is open.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogComment
	DialogShare
)

func (d Dialog) String() string {
	switch d {
	case DialogComment:
		return "comment"
	case DialogShare:
		return "share"
	default:
		return "none"
	}
}

// PostLookup resolves post ids; the entity store satisfies it.
type PostLookup interface {
	Get(id int64) (domain.Post, error)
}

// Session is the state of one viewer. The selected subject is only an id
// and is looked up again on every Resolve so it can never go stale.
type Session struct {
	mu       sync.Mutex
	window   Window
	subject  int64
	selected bool
	dialog   Dialog
}

// New creates a session with the given window.
func New(window Window) *Session {
	return &Session{window: window}
}

// Window returns a copy of the current window.
func (s *Session) Window() Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// LoadMore grows the visible window and returns its new size.
func (s *Session) LoadMore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.LoadMore()
}

// ResetWindow shrinks the window back to its initial size.
func (s *Session) ResetWindow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window.Reset()
}

// Select makes postID the subject of the next dialog.
func (s *Session) Select(postID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subject = postID
	s.selected = true
}

// Selected returns the subject id, if any.
func (s *Session) Selected() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject, s.selected
}

// Clear forgets the subject.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subject, s.selected = 0, false
}

// Resolve looks the subject up in the store. A subject that a filter
// change hid from the view still resolves; a missing one yields NotFound.
func (s *Session) Resolve(lookup PostLookup) (domain.Post, error) {
	id, ok := s.Selected()
	if !ok {
		return domain.Post{}, fmt.Errorf("no post selected: %w", domain.ErrNotFound)
	}
	return lookup.Get(id)
}

// Open shows a dialog about postID.
func (s *Session) Open(dialog Dialog, postID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog = dialog
	s.subject = postID
	s.selected = true
}

// Close hides the dialog. Completions already pending for it still fire.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog = DialogNone
}

// Dialog reports which dialog is open.
func (s *Session) Dialog() Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}
