// Package threads provides the thread management view for the TUI.
package threads

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driving"
)

// View is the thread management view.
type View struct {
	styles        *styles.Styles
	threadService driving.ThreadService
	chatService   driving.ChatService

	list         *list.ThreadList
	renaming     bool
	renameID     string
	renameBuffer string
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new threads view.
func NewView(
	s *styles.Styles,
	threadService driving.ThreadService,
	chatService driving.ChatService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:        s,
		threadService: threadService,
		chatService:   chatService,
		list:          list.NewThreadList(s),
	}
}

// Init initialises the view and loads threads.
func (v *View) Init() tea.Cmd {
	v.loading = true
	if v.chatService != nil {
		v.list.SetActiveID(v.chatService.ActiveThreadID())
	}
	return v.loadThreads()
}

// loadThreads returns a command that loads threads from the service.
func (v *View) loadThreads() tea.Cmd {
	return func() tea.Msg {
		if v.threadService == nil {
			return messages.ThreadsLoaded{Err: fmt.Errorf("thread service not available")}
		}

		threads, err := v.threadService.List(context.Background())
		return messages.ThreadsLoaded{Threads: threads, Err: err}
	}
}

// Update handles messages for the threads view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.renaming {
			return v.handleRenameKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.ThreadsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.list.SetThreads(msg.Threads)
			v.err = nil
		}
		return v, nil

	case messages.ThreadCreated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.loadThreads()

	case messages.ThreadRenamed:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.loadThreads()

	case messages.ThreadDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if msg.Active {
			v.list.SetActiveID("")
		}
		v.loading = true
		return v, v.loadThreads()
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.list.MoveUp()
	case "down", "j":
		v.list.MoveDown()
	case "enter":
		if thread := v.list.SelectedThread(); thread != nil {
			selected := *thread
			return v, func() tea.Msg {
				return messages.ThreadSelected{Thread: selected}
			}
		}
	case "n":
		return v, v.createThread()
	case "r":
		if thread := v.list.SelectedThread(); thread != nil {
			v.renaming = true
			v.renameID = thread.ID
			v.renameBuffer = thread.Title
		}
	case "d", "delete", "backspace":
		if thread := v.list.SelectedThread(); thread != nil {
			return v, v.deleteThread(thread.ID)
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}

	return v, nil
}

// handleRenameKeyMsg handles key presses while renaming.
func (v *View) handleRenameKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.renaming = false
		v.renameBuffer = ""
		return v, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(v.renameBuffer)
		id := v.renameID
		v.renaming = false
		v.renameBuffer = ""
		if title == "" {
			return v, nil
		}
		return v, v.renameThread(id, title)
	case tea.KeyBackspace:
		if v.renameBuffer != "" {
			v.renameBuffer = v.renameBuffer[:len(v.renameBuffer)-1]
		}
		return v, nil
	case tea.KeyRunes, tea.KeySpace:
		v.renameBuffer += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			v.renameBuffer += " "
		}
		return v, nil
	}
	return v, nil
}

// createThread returns a command that creates a new thread.
func (v *View) createThread() tea.Cmd {
	return func() tea.Msg {
		if v.threadService == nil {
			return messages.ThreadCreated{Err: fmt.Errorf("thread service not available")}
		}

		thread, err := v.threadService.Create(context.Background())
		return messages.ThreadCreated{Thread: thread, Err: err}
	}
}

// renameThread returns a command that renames a thread.
func (v *View) renameThread(id, title string) tea.Cmd {
	return func() tea.Msg {
		if v.threadService == nil {
			return messages.ThreadRenamed{ID: id, Err: fmt.Errorf("thread service not available")}
		}

		err := v.threadService.Rename(context.Background(), id, title)
		return messages.ThreadRenamed{ID: id, Title: title, Err: err}
	}
}

// deleteThread returns a command that deletes a thread. Deleting the
// active conversation deselects it and clears the transcript.
func (v *View) deleteThread(id string) tea.Cmd {
	return func() tea.Msg {
		if v.threadService == nil {
			return messages.ThreadDeleted{ID: id, Err: fmt.Errorf("thread service not available")}
		}

		active := v.chatService != nil && v.chatService.ActiveThreadID() == id

		if err := v.threadService.Delete(context.Background(), id); err != nil {
			return messages.ThreadDeleted{ID: id, Err: err}
		}

		if active {
			if err := v.chatService.SwitchThread(context.Background(), ""); err != nil {
				return messages.ThreadDeleted{ID: id, Active: true, Err: err}
			}
		}

		return messages.ThreadDeleted{ID: id, Active: active}
	}
}

// View renders the threads view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Threads"))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading threads..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.renaming {
		b.WriteString(v.styles.Normal.Render("Rename: "))
		b.WriteString(v.styles.InputField.Render(v.renameBuffer))
		b.WriteString("\n\n")
	}

	b.WriteString(v.list.View())
	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.renaming {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[enter] open  [n] new  [r] rename  [d] delete  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
}

// SelectedIndex returns the currently selected thread index.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
