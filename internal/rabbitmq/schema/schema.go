package schema

import (
	"encoding/json"
	"errors"
	"recoverme/internal/core/domain/notification"
)

// Mail is the body of messages on the mail queue.
type Mail struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewMail(m notification.Message) Mail {
	return Mail{To: m.To, From: m.From, Subject: m.Subject, Body: m.Body}
}

func (m *Mail) Message() notification.Message {
	return notification.Message{To: m.To, From: m.From, Subject: m.Subject, Body: m.Body}
}

func (m *Mail) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func (m *Mail) Unmarshal(data []byte) error {
	if err := json.Unmarshal(data, m); err != nil {
		return err
	}
	if m.To == "" || m.From == "" {
		return errors.New("mail must have sender and recipient")
	}
	return nil
}
