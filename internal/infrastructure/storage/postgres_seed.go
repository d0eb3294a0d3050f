package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/ports"
)

const (
	postsTable    = "community_posts"
	commentsTable = "community_comments"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresSeed reads the initial community posts from Postgres. It never
// writes; the engine keeps its state in memory.
type PostgresSeed struct {
	db *sql.DB
}

var _ ports.SeedSource = (*PostgresSeed)(nil)

// NewPostgresSeed wires a sql.DB implementation.
func NewPostgresSeed(db *sql.DB) *PostgresSeed {
	return &PostgresSeed{db: db}
}

// LoadPosts returns every post newest first with its comments attached.
func (r *PostgresSeed) LoadPosts(ctx context.Context) ([]domain.Post, error) {
	if r.db == nil {
		return []domain.Post{}, nil
	}

	query, args, err := postsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build posts query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	posts := make([]domain.Post, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			p        domain.Post
			category string
			avatar   sql.NullString
		)
		if err := rows.Scan(
			&p.ID,
			&p.Author.Name,
			&p.Author.Initials,
			&avatar,
			&category,
			&p.Title,
			&p.Content,
			&p.LikeCount,
			&p.Liked,
			&p.CreatedLabel,
		); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.Category = domain.Category(category)
		p.Author.AvatarRef = avatar.String
		p.Comments = []domain.Comment{}
		index[p.ID] = len(posts)
		posts = append(posts, p)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	if len(posts) == 0 {
		return posts, nil
	}

	if err := r.attachComments(ctx, posts, index); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostgresSeed) attachComments(ctx context.Context, posts []domain.Post, index map[int64]int) error {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	query, args, err := commentsQuery(ids).ToSql()
	if err != nil {
		return fmt.Errorf("build comments query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}

	for rows.Next() {
		var (
			postID int64
			c      domain.Comment
			avatar sql.NullString
		)
		if err := rows.Scan(
			&postID,
			&c.ID,
			&c.Author.Name,
			&c.Author.Initials,
			&avatar,
			&c.Content,
			&c.CreatedLabel,
		); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan comment: %w", err)
		}
		c.Author.AvatarRef = avatar.String

		i, ok := index[postID]
		if !ok {
			continue
		}
		posts[i].Comments = append(posts[i].Comments, c)
		posts[i].CommentCount = len(posts[i].Comments)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return fmt.Errorf("close rows: %w", closeErr)
	}

	return nil
}

func postsQuery() sq.SelectBuilder {
	return psql.
		Select(
			"id",
			"author_name",
			"author_initials",
			"author_avatar",
			"category",
			"title",
			"content",
			"like_count",
			"liked",
			"created_label",
		).
		From(postsTable).
		OrderBy("created_at DESC", "id DESC")
}

// commentsQuery lists comments newest first within each post.
func commentsQuery(postIDs []int64) sq.SelectBuilder {
	return psql.
		Select(
			"post_id",
			"id",
			"author_name",
			"author_initials",
			"author_avatar",
			"content",
			"created_label",
		).
		From(commentsTable).
		Where(sq.Expr("post_id = ANY(?)", pq.Array(postIDs))).
		OrderBy("post_id", "created_at DESC", "id DESC")
}
