// Package inbox renders a page of stored mail as a table with a shared
// preview pane, and turns key presses into Commands for the host model.
package inbox

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/edgeinbox/internal/keys"
	"github.com/nhle/edgeinbox/internal/theme"
	"github.com/nhle/edgeinbox/internal/ui/preview"
)

// Model is the inbox view component.
type Model struct {
	view    View
	table   table.Model
	preview preview.Model
	spinner spinner.Model
	keys    *keys.KeyMap
	width   int
	height  int
}

// New creates an inbox model in the loading state.
func New(k *keys.KeyMap, width, height int) Model {
	styles := table.DefaultStyles()
	styles.Header = theme.TableHeaderStyle
	styles.Selected = theme.SelectedRowStyle

	t := table.New(
		table.WithFocused(true),
		table.WithStyles(styles),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		table:   t,
		preview: preview.New(width, height/2),
		spinner: sp,
		keys:    k,
	}
	m.SetSize(width, height)
	return m
}

// SetView replaces the displayed page. The preview pane is cleared since
// its entry belongs to the previous page.
func (m *Model) SetView(v View) tea.Cmd {
	m.view = v
	m.preview.Clear()

	rows := make([]table.Row, len(v.Entries))
	for i, e := range v.Entries {
		rows[i] = table.Row{e.Sender, e.Subject, e.Received}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)

	if v.State == StateLoading {
		return m.spinner.Tick
	}
	return nil
}

// CurrentView returns the current page view.
func (m Model) CurrentView() View {
	return m.view
}

// PreviewActive reports whether a message is shown in the preview pane.
func (m Model) PreviewActive() bool {
	return m.preview.Active()
}

// ShowPreview dispatches a Preview command: the entry at index replaces
// whatever the pane was showing. Out of range indexes are ignored.
func (m *Model) ShowPreview(index int) {
	if index < 0 || index >= len(m.view.Entries) {
		return
	}
	m.preview.Show(m.view.Entries[index].Preview())
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the inbox view. Row selection, paging and
// reload are returned as CommandMsg values.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.view.State != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Reload):
		return m, emit(Reload{})

	case key.Matches(msg, m.keys.NextPage):
		if m.view.Next.Enabled {
			return m, emit(Navigate{Link: m.view.Next})
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.view.Previous.Enabled {
			return m, emit(Navigate{Link: m.view.Previous})
		}
		return m, nil
	}

	if m.view.State != StateList {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		return m, emit(Preview{Index: m.table.Cursor()})

	case key.Matches(msg, m.keys.Headers):
		m.preview.ToggleHeaders()
		return m, nil

	case key.Matches(msg, m.keys.ClosePreview):
		m.preview.Clear()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.preview.ScrollDown()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.preview.ScrollUp()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func emit(c Command) tea.Cmd {
	return func() tea.Msg {
		return CommandMsg{Command: c}
	}
}

// View renders the inbox view.
func (m Model) View() string {
	switch m.view.State {
	case StateLoading:
		return theme.CenteredStyle(m.width, m.height).
			Render(m.spinner.View() + " " + m.view.Message)

	case StateEmpty:
		return theme.CenteredStyle(m.width, m.height).
			Render(m.view.Message)

	case StateError:
		return theme.CenteredStyle(m.width, m.height).
			Render(theme.ErrorStyle.Render(m.view.Message))
	}

	pane := theme.DetailPanelStyle.
		Width(m.width - 2).
		Render(m.preview.View())

	return lipgloss.JoinVertical(lipgloss.Left, m.table.View(), pane)
}

// Pagination renders the previous/next hints for the status bar.
func (m Model) Pagination() string {
	prev := theme.LinkStyle(m.view.Previous.Enabled).Render("← prev")
	next := theme.LinkStyle(m.view.Next.Enabled).Render("next →")
	return prev + "  " + next
}

// SetSize splits the area between the table and the preview pane.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	tableHeight := max(height/3, 3)
	// Border and padding of the preview panel take two rows and four columns.
	previewHeight := max(height-tableHeight-3, 1)

	senderWidth := width / 4
	dateWidth := len(DateLayout) + 1
	subjectWidth := max(width-senderWidth-dateWidth-6, 10)

	m.table.SetColumns([]table.Column{
		{Title: "Sender", Width: senderWidth},
		{Title: "Subject", Width: subjectWidth},
		{Title: "Received", Width: dateWidth},
	})
	m.table.SetWidth(width)
	m.table.SetHeight(tableHeight)
	m.preview.SetSize(max(width-4, 1), previewHeight)
}
