// Package mail sends the advisory emails produced by booking state
// transitions. Delivery is plain SMTP; there is no retry and no
// delivery guarantee beyond "attempted once".
package mail

import (
	"errors"
	"fmt"
	"net/smtp"
)

// Sender holds SMTP relay settings. A zero Host disables delivery;
// Send then returns an error that the consumer logs and swallows.
type Sender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// NewSender builds a Sender. From falls back to the username when empty.
func NewSender(host, port, username, password, from string) *Sender {
	if from == "" {
		from = username
	}
	return &Sender{Host: host, Port: port, Username: username, Password: password, From: from}
}

// Send delivers one message. Authentication is used only when a
// username is configured, so unauthenticated local relays work too.
func (s *Sender) Send(to, subject, body string) error {
	if s == nil || s.Host == "" {
		return errors.New("smtp not configured")
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.From, to, subject, body)
	addr := s.Host + ":" + s.Port
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	return smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg))
}
