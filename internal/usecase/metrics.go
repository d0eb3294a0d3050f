package usecase

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"CommunityEngine/internal/domain"
)

const metricsNamespace = "community"

// Operation names used for metric labels and span names.
const (
	opToggleLike = "toggle_like"
	opAddComment = "add_comment"
	opCreatePost = "create_post"
	opSubmitPost = "submit_post"
	opShare      = "share"
	opCopyLink   = "copy_link"
)

// Metrics counts interactions and notification deliveries.
type Metrics struct {
	Interactions  *prometheus.CounterVec
	Notifications *prometheus.CounterVec
}

// NewMetrics registers the counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Interactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "interactions_total",
				Help:      "Interaction attempts by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "notifications_total",
				Help:      "Notifications handed to the sink by kind and delivery result",
			},
			[]string{"kind", "result"},
		),
	}
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.Interactions.WithLabelValues(op, outcome(err)).Inc()
}

func (m *Metrics) delivered(kind domain.NotificationKind, err error) {
	if m == nil {
		return
	}
	result := "delivered"
	if err != nil {
		result = "failed"
	}
	m.Notifications.WithLabelValues(string(kind), result).Inc()
}

func outcome(err error) string {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
