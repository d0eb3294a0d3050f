package domain

// NotificationKind tells the sink how to present an outcome.
type NotificationKind string

const (
	KindInfo  NotificationKind = "info"
	KindError NotificationKind = "error"
)

// Notification is a user-facing outcome event.
type Notification struct {
	Title string
	Body  string
	Kind  NotificationKind
}
