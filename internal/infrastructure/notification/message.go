// Package notification delivers transactional e-mail: order confirmations
// for the store and due-bill reminders for the finance team.
package notification

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrNoRecipients = errors.New("notification: message has no recipients")
	ErrNoContent    = errors.New("notification: message has no content")
)

// Message is a single e-mail
type Message struct {
	To      []mail.Address
	Subject string
	Text    string
	HTML    string
}

// Validate checks that the message can be delivered
func (m *Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	if strings.TrimSpace(m.Text) == "" && strings.TrimSpace(m.HTML) == "" {
		return ErrNoContent
	}
	return nil
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ParseRecipients turns a list of raw addresses into mail.Address values,
// skipping blanks and anything that does not parse.
func ParseRecipients(raw ...string) []mail.Address {
	out := make([]mail.Address, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		addr, err := mail.ParseAddress(r)
		if err != nil {
			continue
		}
		out = append(out, *addr)
	}
	return out
}
