package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"CommunityEngine/internal/deferred"
	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/markup"
	"CommunityEngine/internal/ports"
	"CommunityEngine/internal/store"
)

const (
	// DefaultShareLatency simulates the external share call.
	DefaultShareLatency = time.Second
	// DefaultSubmitLatency simulates the post submission call.
	DefaultSubmitLatency = time.Second
)

// DefaultViewer is the identity used when a caller supplies none.
var DefaultViewer = domain.Author{
	Name:      "John Smith",
	AvatarRef: "/placeholder.svg?height=40&width=40",
	Initials:  "JS",
}

var (
	noticePostCreated = domain.Notification{Title: "Post created", Body: "Your post has been published to the community", Kind: domain.KindInfo}
	noticeMissing     = domain.Notification{Title: "Missing information", Body: "Please fill in all fields", Kind: domain.KindError}
	noticeComment     = domain.Notification{Title: "Comment added", Body: "Your comment has been added to the post", Kind: domain.KindInfo}
	noticeShared      = domain.Notification{Title: "Post shared", Body: "The post has been copied to your clipboard", Kind: domain.KindInfo}
	noticeLinkCopied  = domain.Notification{Title: "Link copied", Body: "The post link has been copied to your clipboard", Kind: domain.KindInfo}
)

// MutatorDeps wires the store and collaborators into the mutator.
type MutatorDeps struct {
	Store         ports.PostStore
	Queue         *deferred.Queue
	Notifier      ports.Notifier
	Metrics       *Metrics
	Logger        *slog.Logger
	Origin        string
	Viewer        domain.Author
	ShareLatency  time.Duration
	SubmitLatency time.Duration
}

// Mutator applies user interactions to the store. Every change to a post
// goes through a single atomic store update.
type Mutator struct {
	store         ports.PostStore
	queue         *deferred.Queue
	notifier      ports.Notifier
	metrics       *Metrics
	logger        *slog.Logger
	tracer        trace.Tracer
	origin        string
	viewer        domain.Author
	shareLatency  time.Duration
	submitLatency time.Duration
}

// LikeResult is the post state after a like toggle.
type LikeResult struct {
	PostID    int64
	LikeCount int
	Liked     bool
}

// NewMutator constructs the interaction component.
func NewMutator(deps MutatorDeps) *Mutator {
	viewer := deps.Viewer
	if viewer.IsZero() {
		viewer = DefaultViewer
	}
	shareLatency := deps.ShareLatency
	if shareLatency < 0 {
		shareLatency = 0
	}
	submitLatency := deps.SubmitLatency
	if submitLatency < 0 {
		submitLatency = 0
	}

	return &Mutator{
		store:         deps.Store,
		queue:         deps.Queue,
		notifier:      deps.Notifier,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		tracer:        otel.Tracer("CommunityEngine/usecase"),
		origin:        deps.Origin,
		viewer:        viewer.Normalized(),
		shareLatency:  shareLatency,
		submitLatency: submitLatency,
	}
}

// ToggleLike flips the viewer's like on a post and adjusts the counter.
func (m *Mutator) ToggleLike(ctx context.Context, postID int64) (result LikeResult, err error) {
	_, span := m.start(ctx, opToggleLike, postID)
	defer func() { m.finish(span, opToggleLike, err) }()

	post, err := m.store.Update(postID, func(p *domain.Post) error {
		if p.Liked {
			p.LikeCount--
		} else {
			p.LikeCount++
		}
		p.Liked = !p.Liked
		return nil
	})
	if err != nil {
		return LikeResult{}, err
	}

	m.debug("like toggled", "post_id", postID, "liked", post.Liked, "likes", post.LikeCount)
	return LikeResult{PostID: post.ID, LikeCount: post.LikeCount, Liked: post.Liked}, nil
}

// AddComment prepends a comment and bumps the counter in one update. A
// zero author means the configured viewer.
func (m *Mutator) AddComment(ctx context.Context, postID int64, author domain.Author, text string) (post domain.Post, err error) {
	ctx, span := m.start(ctx, opAddComment, postID)
	defer func() { m.finish(span, opAddComment, err) }()

	comment := domain.Comment{
		Author:       m.resolveAuthor(author),
		Content:      markup.Normalize(text),
		CreatedLabel: domain.JustNow,
	}
	if err := comment.Validate(); err != nil {
		return domain.Post{}, err
	}

	post, err = m.store.Update(postID, func(p *domain.Post) error {
		comment.ID = m.store.NextID()
		p.Comments = append([]domain.Comment{comment}, p.Comments...)
		p.CommentCount++
		return nil
	})
	if err != nil {
		return domain.Post{}, err
	}

	m.debug("comment added", "post_id", postID, "comment_id", comment.ID, "comments", post.CommentCount)
	m.notify(ctx, noticeComment)
	return post, nil
}

// CreatePost publishes a post immediately. Anonymous drafts are attributed
// to the anonymous identity.
func (m *Mutator) CreatePost(ctx context.Context, draft domain.PostDraft, author domain.Author) (post domain.Post, err error) {
	ctx, span := m.start(ctx, opCreatePost, 0)
	defer func() { m.finish(span, opCreatePost, err) }()

	post, err = m.store.Create(draft, m.identity(draft, author))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			m.notify(ctx, noticeMissing)
		}
		return domain.Post{}, err
	}

	span.SetAttributes(attribute.Int64("post.id", post.ID))
	m.notify(ctx, noticePostCreated)
	return post, nil
}

// SubmitPost validates right away and publishes after the submit latency.
// The handle resolves to the created post.
func (m *Mutator) SubmitPost(ctx context.Context, draft domain.PostDraft, author domain.Author) (handle *deferred.Handle[domain.Post], err error) {
	ctx, span := m.start(ctx, opSubmitPost, 0)
	defer func() { m.finish(span, opSubmitPost, err) }()

	if err := store.NormalizeDraft(draft).Validate(); err != nil {
		m.notify(ctx, noticeMissing)
		return nil, err
	}

	identity := m.identity(draft, author)
	if err := identity.Validate(); err != nil {
		m.notify(ctx, noticeMissing)
		return nil, err
	}
	detached := context.WithoutCancel(ctx)

	return deferred.Schedule(m.queue, m.submitLatency,
		func() (domain.Post, error) {
			return m.store.Create(draft, identity)
		},
		func(post domain.Post, err error) {
			m.metrics.observe(opCreatePost, err)
			if err != nil {
				m.warn("deferred post creation failed", "error", err)
				return
			}
			m.notify(detached, noticePostCreated)
		},
	), nil
}

// Share resolves, after the share latency, to the post's public link and
// then notifies the sink. The store is not touched. Callbacks in then run
// on completion, after the notification.
func (m *Mutator) Share(ctx context.Context, postID int64, then ...func(string, error)) (handle *deferred.Handle[string], err error) {
	ctx, span := m.start(ctx, opShare, postID)
	defer func() { m.finish(span, opShare, err) }()

	if _, err := m.store.Get(postID); err != nil {
		return nil, err
	}

	uri := ShareURI(m.origin, postID)
	detached := context.WithoutCancel(ctx)
	callbacks := append([]func(string, error){func(_ string, err error) {
		if err != nil {
			m.warn("share did not complete", "post_id", postID, "error", err)
			return
		}
		m.notify(detached, noticeShared)
	}}, then...)

	return deferred.Schedule(m.queue, m.shareLatency,
		func() (string, error) { return uri, nil },
		callbacks...,
	), nil
}

// CopyLink returns the post's public link immediately.
func (m *Mutator) CopyLink(ctx context.Context, postID int64) (uri string, err error) {
	ctx, span := m.start(ctx, opCopyLink, postID)
	defer func() { m.finish(span, opCopyLink, err) }()

	if _, err := m.store.Get(postID); err != nil {
		return "", err
	}
	m.notify(ctx, noticeLinkCopied)
	return ShareURI(m.origin, postID), nil
}

// Viewer is the identity used for unattributed interactions.
func (m *Mutator) Viewer() domain.Author {
	return m.viewer
}

// ShareURI builds "<origin>/community/post/<id>".
func ShareURI(origin string, postID int64) string {
	return strings.TrimRight(origin, "/") + "/community/post/" + strconv.FormatInt(postID, 10)
}

func (m *Mutator) identity(draft domain.PostDraft, author domain.Author) domain.Author {
	if draft.Anonymous {
		return domain.AnonymousAuthor
	}
	return m.resolveAuthor(author)
}

func (m *Mutator) resolveAuthor(author domain.Author) domain.Author {
	if author.IsZero() {
		return m.viewer
	}
	return author.Normalized()
}

func (m *Mutator) notify(ctx context.Context, n domain.Notification) {
	if m.notifier == nil {
		return
	}
	err := m.notifier.Notify(ctx, n)
	m.metrics.delivered(n.Kind, err)
	if err != nil {
		m.warn("notification not delivered", "title", n.Title, "error", err)
	}
}

func (m *Mutator) start(ctx context.Context, op string, postID int64) (context.Context, trace.Span) {
	ctx, span := m.tracer.Start(ctx, "community."+op)
	if postID != 0 {
		span.SetAttributes(attribute.Int64("post.id", postID))
	}
	return ctx, span
}

func (m *Mutator) finish(span trace.Span, op string, err error) {
	m.metrics.observe(op, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (m *Mutator) debug(msg string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}

func (m *Mutator) warn(msg string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
