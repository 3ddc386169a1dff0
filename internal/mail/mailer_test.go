package mail

import "testing"

func TestSendWithoutRelayConfigured(t *testing.T) {
	var nilSender *Sender
	if err := nilSender.Send("a@example.com", "s", "b"); err == nil {
		t.Error("nil sender must refuse to send")
	}
	if err := NewSender("", "587", "", "", "").Send("a@example.com", "s", "b"); err == nil {
		t.Error("empty host must refuse to send")
	}
}

func TestNewSenderFromFallback(t *testing.T) {
	s := NewSender("smtp.example.com", "587", "robot@example.com", "pw", "")
	if s.From != "robot@example.com" {
		t.Errorf("From = %q, want username fallback", s.From)
	}
	s = NewSender("smtp.example.com", "587", "robot@example.com", "pw", "noreply@example.com")
	if s.From != "noreply@example.com" {
		t.Errorf("From = %q", s.From)
	}
}
