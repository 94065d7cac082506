package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/views/threads"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// chatView is the conversation view.
	chatView *chat.View

	// threadsView is the thread management view.
	threadsView *threads.View

	// documentsView is the uploaded documents view.
	documentsView *documents.View

	// menuView is the navigation menu.
	menuView *menu.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports Ports) *App {
	s := styles.DefaultStyles()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		chatView:      chat.NewView(s, nil, ports.Chat, ports.Thread),
		threadsView:   threads.NewView(s, ports.Thread, ports.Chat),
		documentsView: documents.NewView(s, ports.Document),
		menuView:      menu.NewView(s),
		currentView:   messages.ViewChat, // Conversation first
	}
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("parley - Document Chat"),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.threadsView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		a.menuView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global bindings
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+t":
			a.currentView = messages.ViewThreads
			return a, a.threadsView.Init()
		case "ctrl+d":
			a.currentView = messages.ViewDocuments
			return a, a.documentsView.Init()
		}

		// Forward key messages to the active view
		switch a.currentView {
		case messages.ViewChat:
			a.chatView, cmd = a.chatView.Update(msg)
			return a, cmd

		case messages.ViewThreads:
			a.threadsView, cmd = a.threadsView.Update(msg)
			return a, cmd

		case messages.ViewDocuments:
			a.documentsView, cmd = a.documentsView.Update(msg)
			return a, cmd

		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewThreads:
			return a, a.threadsView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewChat, messages.ViewMenu, messages.ViewHelp:
			// No loading needed
		}
		return a, nil

	case messages.ThreadSelected:
		// Switch the conversation, then show the chat view
		a.currentView = messages.ViewChat
		return a, a.switchThread(msg.Thread.ID, msg.Thread.Title)

	case messages.ThreadSwitched:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ThreadDeleted:
		// The chat transcript empties when the active thread dies
		if msg.Active && msg.Err == nil {
			a.chatView, _ = a.chatView.Update(messages.ThreadSwitched{})
		}
		a.threadsView, cmd = a.threadsView.Update(msg)
		return a, cmd

	case messages.TranscriptUpdated, messages.SendFinished:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ThreadsLoaded, messages.ThreadCreated, messages.ThreadRenamed:
		a.threadsView, cmd = a.threadsView.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewChat {
			a.chatView, cmd = a.chatView.Update(msg)
			return a, cmd
		}
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (spinner ticks and the like) to the
	// active view
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewThreads:
		a.threadsView, cmd = a.threadsView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// switchThread makes the chosen thread active in the chat service.
func (a *App) switchThread(id, title string) tea.Cmd {
	return func() tea.Msg {
		if a.ports.Chat == nil {
			return messages.ThreadSwitched{ThreadID: id, Title: title, Err: ErrNoChatService}
		}
		if err := a.ports.Chat.SwitchThread(a.ctx, id); err != nil {
			return messages.ThreadSwitched{ThreadID: id, Title: title, Err: err}
		}
		return messages.ThreadSwitched{ThreadID: id, Title: title}
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewThreads:
		return a.threadsView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.chatView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Chat:
  (type)      Compose a message
  enter       Send
  ctrl+r      Retry a failed exchange
  esc         Cancel streaming / back to menu

Navigation:
  ctrl+t      Threads
  ctrl+d      Documents
  ctrl+c      Quit

Threads:
  j/k, ↑/↓    Navigate
  enter       Open thread
  n           New thread
  r           Rename
  d           Delete

Documents:
  j/k, ↑/↓    Navigate
  d           Delete
  r           Reload

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	a.threadsView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.menuView.SetDimensions(width, height)
}
