package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/pmsched/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher records published messages; used in tests.
type MockPublisher struct {
	Messages     []coremqtt.Message
	FailSections map[string]bool
	mu           sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailSections: make(map[string]bool)}
}

// Publish records msg or returns an error if its section is configured to fail.
func (m *MockPublisher) Publish(ctx context.Context, msg coremqtt.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSections[msg.Section] {
		return fmt.Errorf("publish %s failed", msg.Section)
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// Sections lists the sections published so far, in order.
func (m *MockPublisher) Sections() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Messages))
	for i, msg := range m.Messages {
		out[i] = msg.Section
	}
	return out
}

// NopPublisher drops every message.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, coremqtt.Message) error { return nil }
