package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"CommunityEngine/internal/domain"
)

func TestNotifierPostsMessage(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText, gotMode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		gotMode = r.PostForm.Get("parse_mode")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier("token", "42")
	n.apiBase = server.URL + "/"
	n.client = server.Client()

	err := n.Notify(context.Background(), domain.Notification{Title: "Post shared", Body: "The post has been copied to your clipboard", Kind: domain.KindInfo})
	if err != nil {
		t.Fatalf("Notify error: %v", err)
	}

	if gotPath != "/bottoken/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotChat != "42" {
		t.Fatalf("unexpected chat id: %s", gotChat)
	}
	if gotText != "*Post shared*\nThe post has been copied to your clipboard" {
		t.Fatalf("unexpected text: %q", gotText)
	}
	if gotMode != "Markdown" {
		t.Fatalf("unexpected parse mode: %s", gotMode)
	}
}

func TestNotifierErrors(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "").Notify(context.Background(), domain.Notification{}); err == nil {
		t.Fatalf("expected misconfiguration error")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewNotifier("token", "42")
	n.apiBase = server.URL
	n.client = server.Client()
	if err := n.Notify(context.Background(), domain.Notification{Title: "x"}); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestFormatMessage(t *testing.T) {
	t.Parallel()

	got := formatMessage(domain.Notification{Title: "Missing information", Body: "Please fill in all fields", Kind: domain.KindError})
	if got != "*⚠️ Missing information*\nPlease fill in all fields" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := formatMessage(domain.Notification{Title: "Link copied"}); got != "*Link copied*" {
		t.Fatalf("unexpected message: %q", got)
	}
}
