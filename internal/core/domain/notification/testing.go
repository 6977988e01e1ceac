package notification

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

type FakeNotifier struct {
	Sent        []Message
	ReturnError bool
	// Err is returned instead of a generic error when set.
	Err  error
	lock sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) Send(ctx context.Context, m Message) error {
	if n.ReturnError || n.Err != nil {
		if n.Err != nil {
			return n.Err
		}
		return fmt.Errorf("could not send message to %s", m.To)
	}
	n.lock.Lock()
	defer n.lock.Unlock()
	n.Sent = append(n.Sent, m)
	return nil
}

func (n *FakeNotifier) SentCount() int {
	n.lock.Lock()
	defer n.lock.Unlock()
	return len(n.Sent)
}

func (n *FakeNotifier) LastSent() Message {
	n.lock.Lock()
	defer n.lock.Unlock()
	l := len(n.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return n.Sent[l-1]
}

func NewTestTemplates() Templates {
	return Templates{
		RecoveryFrom:         "password-change-request@test.test",
		ConfirmationFrom:     "password-reset@test.test",
		SubjectPrefix:        "Test",
		PasswordResetBaseURL: *mustParseURL("http://localhost:8080/#/outside/reset"),
	}
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}
