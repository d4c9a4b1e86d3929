package secondary

import "time"

// Logical fanout topics. Observers of the appointments topic receive
// aggregate view updates; the workflow topic carries board structure changes.
const (
	TopicAppointments = "appointments"
	TopicWorkflow     = "workflow"
)

// Message type discriminators, carried in Message.Type.
const (
	MessagePendingCount      = "pending_count"
	MessageTodayAppointments = "today_appointments"
	MessageBoardMoved        = "board_moved"
)

// Message is one push notification to topic subscribers. RefreshedAt lets a
// subscriber that observes reordering apply last-write-wins; Payload is the
// view body (a count, a board slice, or a move notice).
type Message struct {
	Type        string    `json:"type"`
	RefreshedAt time.Time `json:"refreshed_at"`
	Payload     any       `json:"payload"`
}

// Publisher defines the secondary port for push delivery to topic
// subscribers. Publication is best-effort: a returned error is logged by the
// caller and never fails the mutation that triggered it.
type Publisher interface {
	Publish(topic string, msg Message) error
}
