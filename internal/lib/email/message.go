package email

import "context"

// Message is a fully rendered email ready for delivery.
type Message struct {
	FromName    string
	FromAddress string
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
}

// Sender delivers a Message through a mail relay.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Pinger is implemented by senders that can check relay reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
