// Package store is the exclusive in-memory owner of posts and comments.
package store

import (
	"fmt"
	"log/slog"
	"sync"

	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/markup"
	"CommunityEngine/internal/ports"
)

// Store keeps posts newest first. All methods are safe for concurrent use;
// writes are serialised by a single lock so every Update is atomic.
type Store struct {
	mu     sync.RWMutex
	posts  map[int64]*domain.Post
	order  []int64 // oldest first; iteration runs backwards
	seq    *Sequence
	logger *slog.Logger
}

var _ ports.PostStore = (*Store)(nil)

// New creates an empty store. A nil sequence uses the wall clock.
func New(seq *Sequence, logger *slog.Logger) *Store {
	if seq == nil {
		seq = NewSequence(nil)
	}
	return &Store{
		posts:  map[int64]*domain.Post{},
		seq:    seq,
		logger: logger,
	}
}

// NextID draws from the id sequence shared by posts and comments.
func (s *Store) NextID() int64 {
	return s.seq.Next()
}

// Create validates the draft and prepends a new post written by author.
func (s *Store) Create(draft domain.PostDraft, author domain.Author) (domain.Post, error) {
	draft = NormalizeDraft(draft)
	if err := draft.Validate(); err != nil {
		return domain.Post{}, err
	}

	author = author.Normalized()
	if err := author.Validate(); err != nil {
		return domain.Post{}, err
	}

	category, _ := domain.ParseCategory(draft.Category)
	post := &domain.Post{
		ID:           s.seq.Next(),
		Author:       author,
		Category:     category,
		Title:        draft.Title,
		Content:      draft.Content,
		CreatedLabel: domain.JustNow,
		Comments:     []domain.Comment{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[post.ID]; exists {
		return domain.Post{}, fmt.Errorf("create post: id %d already taken", post.ID)
	}
	s.posts[post.ID] = post
	s.order = append(s.order, post.ID)

	s.debug("post created", "post_id", post.ID, "category", post.Category)
	return post.Clone(), nil
}

// Get returns a snapshot of the post with the given id.
func (s *Store) Get(id int64) (domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return domain.Post{}, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}
	return post.Clone(), nil
}

// All returns snapshots of every post, newest first.
func (s *Store) All() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Post, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.posts[s.order[i]].Clone())
	}
	return out
}

// Len reports how many posts the store holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Update runs fn against a working copy of the post and commits the copy
// only when fn succeeds and the post invariants still hold. Either every
// change made by fn becomes visible or none does.
func (s *Store) Update(id int64, fn func(p *domain.Post) error) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.posts[id]
	if !ok {
		return domain.Post{}, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}

	working := current.Clone()
	if err := fn(&working); err != nil {
		return domain.Post{}, err
	}
	if working.ID != id {
		return domain.Post{}, fmt.Errorf("update post %d: id is immutable", id)
	}
	if err := checkInvariants(working); err != nil {
		return domain.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}

	s.posts[id] = &working
	return working.Clone(), nil
}

// Seed loads posts given newest first. Categories are canonicalised, the
// comment counter is derived from the comment list and the id sequence is
// advanced past every seeded id. Nothing is stored if any post is rejected.
func (s *Store) Seed(posts []domain.Post) error {
	prepared := make([]*domain.Post, 0, len(posts))
	seen := make(map[int64]struct{}, len(posts))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, raw := range posts {
		post := raw.Clone()
		if _, dup := seen[post.ID]; dup {
			return fmt.Errorf("seed post %d: duplicate id", post.ID)
		}
		if _, dup := s.posts[post.ID]; dup {
			return fmt.Errorf("seed post %d: duplicate id", post.ID)
		}
		seen[post.ID] = struct{}{}

		category, ok := domain.ParseCategory(string(post.Category))
		if !ok {
			return fmt.Errorf("seed post %d: unknown category %q", post.ID, post.Category)
		}
		post.Category = category
		post.Author = post.Author.Normalized()

		if post.Comments == nil {
			post.Comments = []domain.Comment{}
		}
		for i := range post.Comments {
			post.Comments[i].Author = post.Comments[i].Author.Normalized()
			s.seq.Observe(post.Comments[i].ID)
		}
		if post.CommentCount != len(post.Comments) {
			s.warn("seed comment count adjusted", "post_id", post.ID, "declared", post.CommentCount, "actual", len(post.Comments))
			post.CommentCount = len(post.Comments)
		}
		if post.LikeCount < 0 {
			post.LikeCount = 0
		}
		if post.Liked && post.LikeCount == 0 {
			post.LikeCount = 1
		}

		s.seq.Observe(post.ID)
		prepared = append(prepared, &post)
	}

	for i := len(prepared) - 1; i >= 0; i-- {
		s.posts[prepared[i].ID] = prepared[i]
		s.order = append(s.order, prepared[i].ID)
	}

	s.debug("store seeded", "posts", len(prepared))
	return nil
}

// NormalizeDraft trims user input and empties fields with no visible text.
func NormalizeDraft(d domain.PostDraft) domain.PostDraft {
	d.Title = markup.Normalize(d.Title)
	d.Content = markup.Normalize(d.Content)
	d.Category = markup.Normalize(d.Category)
	return d
}

func checkInvariants(p domain.Post) error {
	if p.CommentCount != len(p.Comments) {
		return fmt.Errorf("comment count %d does not match %d comments", p.CommentCount, len(p.Comments))
	}
	if p.LikeCount < 0 {
		return fmt.Errorf("like count %d is negative", p.LikeCount)
	}
	return nil
}

func (s *Store) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *Store) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
