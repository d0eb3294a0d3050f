package ports

import (
	"context"

	"CommunityEngine/internal/domain"
)

// Notifier delivers user-facing outcome events (toasts, chat messages).
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// SeedSource supplies the posts the store starts with.
type SeedSource interface {
	LoadPosts(ctx context.Context) ([]domain.Post, error)
}

// PostStore is the entity store contract the use cases depend on.
type PostStore interface {
	Create(draft domain.PostDraft, author domain.Author) (domain.Post, error)
	Get(id int64) (domain.Post, error)
	All() []domain.Post
	Update(id int64, fn func(p *domain.Post) error) (domain.Post, error)
	NextID() int64
}
