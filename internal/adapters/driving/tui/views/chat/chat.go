// Package chat provides the conversation view for the TUI. It renders
// the transcript, streams the assistant's reply as it arrives, and
// offers a retry when an exchange fails.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
)

// View is the conversation view with transcript, input, and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.MessageInput
	transcript viewport.Model
	spinner    spinner.Model
	statusbar  *status.Bar

	chatService   driving.ChatService
	threadService driving.ThreadService
	ctx           context.Context

	threadTitle string
	width       int
	height      int
	ready       bool
	err         error
	busy        bool // an exchange is in flight
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chatService driving.ChatService,
	threadService driving.ThreadService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewMessageInput(s),
		transcript:    viewport.New(80, 18),
		spinner:       sp,
		statusbar:     status.NewBar(s, km),
		chatService:   chatService,
		threadService: threadService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and subscribes to chat updates.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.listenForUpdates())
}

// listenForUpdates returns a command that blocks on the chat update
// channel and re-arms itself after each delivery.
func (v *View) listenForUpdates() tea.Cmd {
	if v.chatService == nil {
		return nil
	}
	updates := v.chatService.Updates()
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return messages.TranscriptUpdated{Update: u}
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.TranscriptUpdated:
		return v.handleTranscriptUpdated(msg)

	case messages.SendFinished:
		return v.handleSendFinished(msg)

	case messages.ThreadSwitched:
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.threadTitle = msg.Title
		v.statusbar.Clear()
		v.statusbar.SetThreadTitle(msg.Title)
		v.refreshTranscript()
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if msg.Type == tea.KeyEsc {
		if v.busy && v.chatService != nil {
			v.chatService.Cancel()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if msg.Type == tea.KeyEnter {
		return v.submit()
	}

	if keymap.Matches(key, v.keymap.Retry) {
		return v.retry()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed message.
func (v *View) submit() (*View, tea.Cmd) {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.busy {
		return v, nil
	}

	v.input.Reset()
	v.busy = true
	v.err = nil
	v.statusbar.SetState(status.StateSending)

	return v, tea.Batch(v.performSend(text), v.spinner.Tick)
}

// performSend submits the message, creating a thread first when none
// is active. Send blocks until the exchange terminates, so it runs as
// a command; progress arrives separately via TranscriptUpdated.
func (v *View) performSend(text string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.SendFinished{Err: ErrNoChatService}
		}

		if v.chatService.ActiveThreadID() == "" {
			if v.threadService == nil {
				return messages.SendFinished{Err: ErrNoThreadService}
			}
			thread, err := v.threadService.Create(v.ctx)
			if err != nil {
				return messages.SendFinished{Err: err}
			}
			if err := v.chatService.SwitchThread(v.ctx, thread.ID); err != nil {
				return messages.SendFinished{Err: err}
			}
		}

		return messages.SendFinished{Err: v.chatService.Send(v.ctx, text)}
	}
}

// retry resubmits the failed exchange.
func (v *View) retry() (*View, tea.Cmd) {
	if v.chatService == nil || v.chatService.Phase() != domain.ExchangeFailed || v.busy {
		return v, nil
	}

	v.busy = true
	v.statusbar.SetState(status.StateSending)
	return v, tea.Batch(
		func() tea.Msg {
			return messages.SendFinished{Err: v.chatService.Retry(v.ctx)}
		},
		v.spinner.Tick,
	)
}

// handleTranscriptUpdated applies one stream update.
func (v *View) handleTranscriptUpdated(msg messages.TranscriptUpdated) (*View, tea.Cmd) {
	u := msg.Update

	if u.Title != "" {
		v.threadTitle = u.Title
		v.statusbar.SetThreadTitle(u.Title)
	}

	switch u.Phase {
	case domain.ExchangeSending:
		v.statusbar.SetState(status.StateSending)
	case domain.ExchangeStreaming:
		v.statusbar.SetState(status.StateStreaming)
	case domain.ExchangeCompleted:
		v.statusbar.SetState(status.StateReady)
	case domain.ExchangeFailed:
		v.statusbar.SetState(status.StateFailed)
		if u.Err != nil {
			v.statusbar.SetMessage(u.Err.Error())
		}
	case domain.ExchangeIdle:
		v.statusbar.SetState(status.StateReady)
	}

	v.refreshTranscript()
	return v, v.listenForUpdates()
}

// handleSendFinished handles the blocking send returning.
func (v *View) handleSendFinished(msg messages.SendFinished) (*View, tea.Cmd) {
	v.busy = false

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
	} else if v.chatService != nil && v.chatService.Phase() == domain.ExchangeFailed {
		v.statusbar.SetState(status.StateFailed)
		if err := v.chatService.LastError(); err != nil {
			v.statusbar.SetMessage(err.Error())
		}
	}

	v.refreshTranscript()
	return v, v.input.Focus()
}

// refreshTranscript re-reads the transcript and scrolls to the bottom.
func (v *View) refreshTranscript() {
	if v.chatService == nil {
		return
	}
	v.transcript.SetContent(v.renderTranscript(v.chatService.Messages()))
	v.transcript.GotoBottom()
}

// renderTranscript formats the message history.
func (v *View) renderTranscript(msgs []domain.Message) string {
	if len(msgs) == 0 {
		return v.styles.Muted.Render("No messages yet. Type below to start.")
	}

	wrap := lipgloss.NewStyle().Width(v.transcript.Width)

	var b strings.Builder
	for i := range msgs {
		label := v.styles.AssistantLabel.Render("Assistant")
		if msgs[i].Role == domain.RoleUser {
			label = v.styles.UserLabel.Render("You")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wrap.Render(msgs[i].Content))
		b.WriteString("\n\n")
	}
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 5)

	title := v.threadTitle
	if title == "" {
		title = "Parley"
	}
	sections = append(sections, v.styles.Title.Render(title))

	sections = append(sections, v.transcript.View())

	if v.busy {
		sections = append(sections, v.spinner.View()+v.styles.Muted.Render(" thinking..."))
	}

	sections = append(sections, v.input.View())
	sections = append(sections, v.statusbar.View())

	return strings.Join(sections, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	transcriptHeight := height - 6
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.transcript.Width = width
	v.transcript.Height = transcriptHeight
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refreshTranscript()
}

// ThreadTitle returns the displayed thread title.
func (v *View) ThreadTitle() string {
	return v.threadTitle
}

// Busy reports whether an exchange is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error shown by the view.
func (v *View) Err() error {
	return v.err
}
