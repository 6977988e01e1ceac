package notification

import (
	"context"
)

type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

type Notifier interface {
	Send(ctx context.Context, m Message) error
}
