package ports

// Event é uma notificação de mudança publicada após o commit
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

const (
	EventPostPending  = "post.pending"
	EventPostApproved = "post.approved"
	EventPostDeleted  = "post.deleted"
)

// EventPublisher entrega eventos para assinantes em tempo real
type EventPublisher interface {
	Publish(event Event)
}
