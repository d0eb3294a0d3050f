// Package seed loads the initial community posts from YAML.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/ports"
)

//go:embed default_posts.yaml
var defaultPosts []byte

// YAMLSource reads posts, newest first, from a YAML file. An empty path
// selects the built-in discussion threads.
type YAMLSource struct {
	path   string
	logger *slog.Logger
}

var _ ports.SeedSource = (*YAMLSource)(nil)

// NewYAMLSource creates a file-backed seed source.
func NewYAMLSource(path string, logger *slog.Logger) *YAMLSource {
	return &YAMLSource{path: path, logger: logger}
}

// LoadPosts decodes the configured file or the embedded default.
func (s *YAMLSource) LoadPosts(ctx context.Context) ([]domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := defaultPosts
	origin := "embedded"
	if s.path != "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data, origin = raw, s.path
	}

	posts, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", origin, err)
	}

	if s.logger != nil {
		s.logger.Debug("seed decoded", "source", origin, "posts", len(posts))
	}
	return posts, nil
}

// Decode parses a YAML post list. An empty document yields no posts.
func Decode(r io.Reader) ([]domain.Post, error) {
	var posts []domain.Post
	if err := yaml.NewDecoder(r).Decode(&posts); err != nil {
		if err == io.EOF {
			return []domain.Post{}, nil
		}
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	for i := range posts {
		posts[i].CommentCount = len(posts[i].Comments)
	}
	return posts, nil
}
