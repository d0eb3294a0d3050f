package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"CommunityEngine/internal/deferred"
	"CommunityEngine/internal/domain"
	"CommunityEngine/internal/infrastructure/notify"
	"CommunityEngine/internal/store"
)

const testOrigin = "https://studentwell.com"

type harness struct {
	store    *store.Store
	queue    *deferred.Queue
	recorder *notify.Recorder
	metrics  *Metrics
	mutator  *Mutator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st := store.New(nil, nil)
	require.NoError(t, st.Seed(seedPosts()))

	q := deferred.NewQueue(nil)
	require.NoError(t, q.Start(context.Background()))
	t.Cleanup(func() { _ = q.Stop(context.Background()) })

	rec := &notify.Recorder{}
	metrics := NewMetrics(prometheus.NewRegistry())

	m := NewMutator(MutatorDeps{
		Store:         st,
		Queue:         q,
		Notifier:      rec,
		Metrics:       metrics,
		Origin:        testOrigin,
		ShareLatency:  5 * time.Millisecond,
		SubmitLatency: 5 * time.Millisecond,
	})

	return &harness{store: st, queue: q, recorder: rec, metrics: metrics, mutator: m}
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func titles(ns []domain.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Title)
	}
	return out
}

func seedPosts() []domain.Post {
	return []domain.Post{
		{
			ID:           1,
			Author:       domain.Author{Name: "Sarah Johnson", Initials: "SJ"},
			Category:     domain.CategoryAcademic,
			Title:        "Study techniques for final exams",
			Content:      "What study techniques do you find most effective for retaining information?",
			LikeCount:    24,
			CreatedLabel: "2 hours ago",
			Comments: []domain.Comment{
				{ID: 1, Author: domain.Author{Name: "Alex Thompson", Initials: "AT"}, Content: "Pomodoro works for me.", CreatedLabel: "1 hour ago"},
				{ID: 2, Author: domain.Author{Name: "Jamie Lee", Initials: "JL"}, Content: "Active recall has been a game-changer.", CreatedLabel: "45 minutes ago"},
			},
		},
		{
			ID:           2,
			Author:       domain.Author{Name: "Michael Chen", Initials: "MC"},
			Category:     domain.CategoryWellBeing,
			Title:        "Managing stress during exam season",
			Content:      "Exam season is hitting me hard this year.",
			LikeCount:    19,
			CreatedLabel: "5 hours ago",
			Comments: []domain.Comment{
				{ID: 3, Author: domain.Author{Name: "Taylor Swift", Initials: "TS"}, Content: "Take 30 minutes a day away from study.", CreatedLabel: "3 hours ago"},
			},
		},
		{
			ID:           3,
			Author:       domain.Author{Name: "Emily Rodriguez", Initials: "ER"},
			Category:     domain.CategorySocial,
			Title:        "Making friends as an international student",
			Content:      "Any advice for international students trying to build a social circle?",
			LikeCount:    32,
			CreatedLabel: "Yesterday",
			Comments: []domain.Comment{
				{ID: 4, Author: domain.Author{Name: "Jordan Park", Initials: "JP"}, Content: "Join clubs related to your interests!", CreatedLabel: "20 hours ago"},
				{ID: 5, Author: domain.Author{Name: "Sam Wilson", Initials: "SW"}, Content: "The international student association hosts weekly meetups.", CreatedLabel: "18 hours ago"},
			},
		},
	}
}
