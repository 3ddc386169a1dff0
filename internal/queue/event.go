package queue

// NotificationEvent is published after a booking state transition has
// committed. It carries the fully rendered message so the consumer can
// deliver it without querying the primary database.
type NotificationEvent struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	QueuedAt  string `json:"queued_at"`
}
