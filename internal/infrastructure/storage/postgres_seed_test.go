package storage

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostsQuery(t *testing.T) {
	t.Parallel()

	query, args, err := postsQuery().ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t,
		"SELECT id, author_name, author_initials, author_avatar, category, title, content, like_count, liked, created_label "+
			"FROM community_posts ORDER BY created_at DESC, id DESC",
		query,
	)
}

func TestCommentsQuery(t *testing.T) {
	t.Parallel()

	query, args, err := commentsQuery([]int64{3, 1}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "FROM community_comments WHERE post_id = ANY($1)")
	assert.Contains(t, query, "ORDER BY post_id, created_at DESC, id DESC")
	require.Len(t, args, 1)

	ids, ok := args[0].(*pq.Int64Array)
	require.True(t, ok, "expected a pq array argument, got %T", args[0])
	assert.Equal(t, pq.Int64Array{3, 1}, *ids)
}

func TestLoadPostsWithoutDatabase(t *testing.T) {
	t.Parallel()

	posts, err := NewPostgresSeed(nil).LoadPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}
