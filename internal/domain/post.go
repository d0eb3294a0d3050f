package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// JustNow is the display label given to freshly created posts and comments.
const JustNow = "Just now"

// Author is the denormalized identity copied onto every post and comment.
type Author struct {
	Name      string `json:"name" yaml:"name" validate:"required"`
	AvatarRef string `json:"avatarRef,omitempty" yaml:"avatar" validate:"omitempty,uri"`
	Initials  string `json:"initials" yaml:"initials" validate:"max=3"`
	// Style is an opaque presentation token resolved by the renderer, never here.
	Style string `json:"style,omitempty" yaml:"style"`
}

// AnonymousAuthor replaces the viewer identity on anonymous posts.
var AnonymousAuthor = Author{Name: "Anonymous User", Initials: "AU"}

// IsZero reports whether no identity was supplied at all.
func (a Author) IsZero() bool {
	return a.Name == "" && a.AvatarRef == "" && a.Initials == "" && a.Style == ""
}

// Normalized trims the name and derives initials when they are missing.
func (a Author) Normalized() Author {
	a.Name = strings.TrimSpace(a.Name)
	a.Initials = strings.TrimSpace(a.Initials)
	if a.Initials == "" {
		a.Initials = InitialsOf(a.Name)
	}
	return a
}

// InitialsOf returns the upper-cased first letters of up to three words.
func InitialsOf(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 3 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Comment belongs to exactly one post and is immutable once created.
type Comment struct {
	ID           int64  `json:"id" yaml:"id"`
	Author       Author `json:"author" yaml:"author"`
	Content      string `json:"content" yaml:"content" validate:"required"`
	CreatedLabel string `json:"createdLabel" yaml:"time"`
}

// Post is a discussion thread together with its comments, newest first.
type Post struct {
	ID           int64     `json:"id" yaml:"id"`
	Author       Author    `json:"author" yaml:"author"`
	Category     Category  `json:"category" yaml:"category"`
	Title        string    `json:"title" yaml:"title"`
	Content      string    `json:"content" yaml:"content"`
	CommentCount int       `json:"commentCount" yaml:"-"`
	LikeCount    int       `json:"likeCount" yaml:"likes"`
	Liked        bool      `json:"liked" yaml:"liked"`
	CreatedLabel string    `json:"createdLabel" yaml:"time"`
	Comments     []Comment `json:"comments" yaml:"comments"`
}

// Clone returns a copy that shares no mutable state with p.
func (p Post) Clone() Post {
	if p.Comments != nil {
		comments := make([]Comment, len(p.Comments))
		copy(comments, p.Comments)
		p.Comments = comments
	}
	return p
}

// PostDraft carries the caller-supplied fields of a post being created.
type PostDraft struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Category  string `json:"category" validate:"required,category"`
	Anonymous bool   `json:"anonymous"`
}
