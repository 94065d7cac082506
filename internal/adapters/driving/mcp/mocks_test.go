package mcp

import (
	"context"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
)

// mockChatService implements driving.ChatService.
type mockChatService struct {
	answer   string
	sendErr  error
	phase    domain.ExchangePhase
	lastErr  error
	threadID string
	sent     []string
	messages []domain.Message
}

func (m *mockChatService) SwitchThread(_ context.Context, threadID string) error {
	m.threadID = threadID
	return nil
}

func (m *mockChatService) Send(_ context.Context, text string) error {
	m.sent = append(m.sent, text)
	if m.sendErr != nil {
		return m.sendErr
	}
	if m.lastErr != nil {
		m.phase = domain.ExchangeFailed
		return nil
	}
	m.phase = domain.ExchangeCompleted
	m.messages = append(m.messages,
		domain.Message{ThreadID: m.threadID, Role: domain.RoleUser, Content: text},
		domain.Message{ThreadID: m.threadID, Role: domain.RoleAssistant, Content: m.answer},
	)
	return nil
}

func (m *mockChatService) Retry(_ context.Context) error { return nil }

func (m *mockChatService) Cancel() {}

func (m *mockChatService) ActiveThreadID() string { return m.threadID }

func (m *mockChatService) Messages() []domain.Message { return m.messages }

func (m *mockChatService) Phase() domain.ExchangePhase { return m.phase }

func (m *mockChatService) LastError() error { return m.lastErr }

func (m *mockChatService) LastResponseID() string { return "" }

func (m *mockChatService) Updates() <-chan driving.ChatUpdate { return nil }

// mockThreadService implements driving.ThreadService.
type mockThreadService struct {
	threads  []domain.Thread
	listErr  error
	created  int
	history  []domain.Message
	histErr  error
}

func (m *mockThreadService) Create(_ context.Context) (*domain.Thread, error) {
	m.created++
	return &domain.Thread{ID: "t-new", Title: domain.DefaultThreadTitle}, nil
}

func (m *mockThreadService) List(_ context.Context) ([]domain.Thread, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.threads, nil
}

func (m *mockThreadService) Rename(_ context.Context, _, _ string) error { return nil }

func (m *mockThreadService) Delete(_ context.Context, _ string) error { return nil }

func (m *mockThreadService) History(_ context.Context, _ string) ([]domain.Message, error) {
	if m.histErr != nil {
		return nil, m.histErr
	}
	return m.history, nil
}
