package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/upassistify/upassistify/internal/email"
	ierr "github.com/upassistify/upassistify/internal/errors"
)

var _ email.Mailer = (*MockMailer)(nil)

// MockMailer records sent messages and fails for configured recipients
type MockMailer struct {
	mu      sync.Mutex
	sent    []email.Message
	failFor map[string]bool
	failAll bool
}

func NewMockMailer() *MockMailer {
	return &MockMailer{failFor: make(map[string]bool)}
}

func (m *MockMailer) FailFor(addresses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range addresses {
		m.failFor[a] = true
	}
}

func (m *MockMailer) FailAll(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = fail
}

func (m *MockMailer) Send(_ context.Context, msg email.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAll || m.failFor[msg.To] {
		return "", ierr.NewErrorf("mailbox unavailable: %s", msg.To).
			WithHint("Failed to send email").
			Mark(ierr.ErrHTTPClient)
	}

	m.sent = append(m.sent, msg)
	return fmt.Sprintf("email_%d", len(m.sent)), nil
}

func (m *MockMailer) Sent() []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Message(nil), m.sent...)
}

// SentTo returns the messages delivered to one address
func (m *MockMailer) SentTo(address string) []email.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []email.Message
	for _, msg := range m.sent {
		if msg.To == address {
			out = append(out, msg)
		}
	}
	return out
}

func (m *MockMailer) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.failFor = make(map[string]bool)
	m.failAll = false
}
