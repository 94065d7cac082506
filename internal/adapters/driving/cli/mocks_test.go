package cli

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
)

// mockChatService implements driving.ChatService. Send records the
// full reply in the transcript and delivers delta updates without
// blocking, dropping them when the consumer lags, like the real
// service does.
type mockChatService struct {
	mu         sync.Mutex
	updates    chan driving.ChatUpdate
	deltas     []string
	deliverCap int // deliver at most this many delta updates (0 = all)
	sendErr    error
	phase      domain.ExchangePhase
	lastErr    error
	responseID string
	threadID   string
	sent       []string
	preload    []domain.Message // history installed by SwitchThread
	messages   []domain.Message
}

func newMockChatService() *mockChatService {
	return &mockChatService{
		updates: make(chan driving.ChatUpdate, 16),
		phase:   domain.ExchangeIdle,
	}
}

func (m *mockChatService) SwitchThread(_ context.Context, threadID string) error {
	m.threadID = threadID
	m.mu.Lock()
	m.messages = append([]domain.Message(nil), m.preload...)
	m.mu.Unlock()
	return nil
}

func (m *mockChatService) Send(_ context.Context, text string) error {
	m.sent = append(m.sent, text)
	if m.sendErr != nil {
		return m.sendErr
	}

	var answer strings.Builder
	for _, delta := range m.deltas {
		answer.WriteString(delta)
	}
	m.mu.Lock()
	m.messages = append(m.messages,
		domain.Message{ThreadID: m.threadID, Role: domain.RoleUser, Content: text},
		domain.Message{ThreadID: m.threadID, Role: domain.RoleAssistant, Content: answer.String()},
	)
	m.mu.Unlock()

	for i, delta := range m.deltas {
		if m.deliverCap > 0 && i >= m.deliverCap {
			break
		}
		select {
		case m.updates <- driving.ChatUpdate{Phase: domain.ExchangeStreaming, Delta: delta}:
		default:
		}
	}
	m.phase = domain.ExchangeCompleted
	select {
	case m.updates <- driving.ChatUpdate{Phase: domain.ExchangeCompleted, ResponseID: m.responseID}:
	default:
	}
	return nil
}

func (m *mockChatService) Retry(_ context.Context) error { return nil }

func (m *mockChatService) Cancel() {}

func (m *mockChatService) ActiveThreadID() string { return m.threadID }

func (m *mockChatService) Messages() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Message(nil), m.messages...)
}

func (m *mockChatService) Phase() domain.ExchangePhase { return m.phase }

func (m *mockChatService) LastError() error { return m.lastErr }

func (m *mockChatService) LastResponseID() string { return m.responseID }

func (m *mockChatService) Updates() <-chan driving.ChatUpdate { return m.updates }

// mockCLIThreadService implements driving.ThreadService.
type mockCLIThreadService struct {
	threads   []domain.Thread
	listErr   error
	created   int
	renames   map[string]string
	deleted   []string
	history   []domain.Message
	histErr   error
}

func (m *mockCLIThreadService) Create(_ context.Context) (*domain.Thread, error) {
	m.created++
	return &domain.Thread{ID: "t-new", Title: domain.DefaultThreadTitle, CreatedAt: time.Now()}, nil
}

func (m *mockCLIThreadService) List(_ context.Context) ([]domain.Thread, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.threads, nil
}

func (m *mockCLIThreadService) Rename(_ context.Context, id, title string) error {
	if m.renames == nil {
		m.renames = make(map[string]string)
	}
	m.renames[id] = title
	return nil
}

func (m *mockCLIThreadService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCLIThreadService) History(_ context.Context, _ string) ([]domain.Message, error) {
	if m.histErr != nil {
		return nil, m.histErr
	}
	return m.history, nil
}

// mockCLIDocumentService implements driving.DocumentService.
type mockCLIDocumentService struct {
	docs      []domain.Document
	uploaded  []string
	uploadErr error
	deleted   []string
}

func (m *mockCLIDocumentService) Upload(_ context.Context, path string) (*domain.Document, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploaded = append(m.uploaded, path)
	return &domain.Document{ID: "d-new", Filename: path, Status: domain.DocumentStatusUploading}, nil
}

func (m *mockCLIDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockCLIDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCLIDocumentService) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// mockSessionService implements driving.SessionService.
type mockSessionService struct {
	authenticated bool
	loginErr      error
	logins        []string
	loggedOut     bool
}

func (m *mockSessionService) Login(_ context.Context, email, _ string) error {
	if m.loginErr != nil {
		return m.loginErr
	}
	m.logins = append(m.logins, email)
	m.authenticated = true
	return nil
}

func (m *mockSessionService) Logout() error {
	m.loggedOut = true
	m.authenticated = false
	return nil
}

func (m *mockSessionService) Authenticated() bool { return m.authenticated }

// setupTestServices installs mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices() (*mockChatService, *mockCLIThreadService, *mockCLIDocumentService, *mockSessionService, func()) {
	oldChat, oldThread, oldDoc, oldSession := chatService, threadService, documentService, sessionService

	chat := newMockChatService()
	thread := &mockCLIThreadService{}
	doc := &mockCLIDocumentService{}
	session := &mockSessionService{}

	SetServices(Services{Chat: chat, Thread: thread, Document: doc, Session: session})

	return chat, thread, doc, session, func() {
		chatService, threadService, documentService, sessionService = oldChat, oldThread, oldDoc, oldSession
	}
}
