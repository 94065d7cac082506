// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/parley-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/parley-cli/internal/core/domain"
)

// ThreadList displays conversation threads in a navigable list.
type ThreadList struct {
	threads  []domain.Thread
	selected int
	activeID string
	styles   *styles.Styles
	width    int
	height   int
}

// NewThreadList creates a new thread list component.
func NewThreadList(s *styles.Styles) *ThreadList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ThreadList{
		threads:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the thread list.
func (l *ThreadList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ThreadList) Update(msg tea.Msg) (*ThreadList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			l.MoveUp()
		case tea.KeyDown:
			l.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			l.MoveUp()
		case "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the thread list.
func (l *ThreadList) View() string {
	if len(l.threads) == 0 {
		return l.styles.Muted.Render("No threads yet. Press n to start one.")
	}

	lines := make([]string, 0, len(l.threads)+2)

	header := l.styles.Subtitle.Render(fmt.Sprintf("Threads (%d)", len(l.threads)))
	lines = append(lines, header, "")

	// Visible window around the selection
	visibleCount := l.height - 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.threads) {
		end = len(l.threads)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderThread(i, &l.threads[i]))
	}

	return strings.Join(lines, "\n")
}

// renderThread formats a single thread row.
func (l *ThreadList) renderThread(index int, thread *domain.Thread) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := thread.Title
	if title == "" {
		title = "(Untitled)"
	}

	maxTitleLen := l.width - 14
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	marker := ""
	if thread.ID == l.activeID {
		marker = " *"
	}

	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("%s%s%s", indicator, title, marker))
	}
	return l.styles.Normal.Render(indicator+title) + l.styles.Muted.Render(marker)
}

// SetThreads replaces the thread list.
func (l *ThreadList) SetThreads(threads []domain.Thread) {
	l.threads = threads
	if l.selected >= len(threads) {
		l.selected = 0
	}
}

// Threads returns the current threads.
func (l *ThreadList) Threads() []domain.Thread {
	return l.threads
}

// SetActiveID marks the active conversation in the list.
func (l *ThreadList) SetActiveID(id string) {
	l.activeID = id
}

// Selected returns the index of the selected thread.
func (l *ThreadList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *ThreadList) SetSelected(index int) {
	if index >= 0 && index < len(l.threads) {
		l.selected = index
	}
}

// SelectedThread returns the currently selected thread, or nil if none.
func (l *ThreadList) SelectedThread() *domain.Thread {
	if len(l.threads) == 0 || l.selected < 0 || l.selected >= len(l.threads) {
		return nil
	}
	return &l.threads[l.selected]
}

// MoveUp moves selection up.
func (l *ThreadList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ThreadList) MoveDown() {
	if l.selected < len(l.threads)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ThreadList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of threads.
func (l *ThreadList) Count() int {
	return len(l.threads)
}

// IsEmpty returns whether the list is empty.
func (l *ThreadList) IsEmpty() bool {
	return len(l.threads) == 0
}
