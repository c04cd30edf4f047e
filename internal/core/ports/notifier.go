package ports

import "context"

// Message is a plain-text notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier delivers messages to users. Send returns once the message is
// accepted by the transport.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
