// Package preview is the shared message preview pane. Exactly one message
// is shown at a time; showing another replaces it.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/edgeinbox/internal/message"
	"github.com/nhle/edgeinbox/internal/theme"
)

// Content is what the pane displays for one selected row.
type Content struct {
	From     string
	Subject  string
	Received string
	Body     string
	Headers  []message.HeaderField
}

// Model is the preview pane component.
type Model struct {
	content     *Content
	viewport    viewport.Model
	showHeaders bool
	width       int
	height      int
}

// New creates an empty preview pane.
func New(width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Show replaces the pane's content.
func (m *Model) Show(c Content) {
	m.content = &c
	m.showHeaders = false
	m.refresh()
	m.viewport.GotoTop()
}

// Clear empties the pane.
func (m *Model) Clear() {
	m.content = nil
	m.showHeaders = false
	m.viewport.SetContent("")
}

// Active reports whether a message is being previewed.
func (m Model) Active() bool {
	return m.content != nil
}

// ToggleHeaders switches between the body and the raw header list.
func (m *Model) ToggleHeaders() {
	if m.content == nil {
		return
	}
	m.showHeaders = !m.showHeaders
	m.refresh()
	m.viewport.GotoTop()
}

// ShowingHeaders reports whether the header list is displayed.
func (m Model) ShowingHeaders() bool {
	return m.showHeaders
}

// Update forwards scrolling messages to the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// ScrollDown moves the preview half a page down.
func (m *Model) ScrollDown() {
	m.viewport.HalfViewDown()
}

// ScrollUp moves the preview half a page up.
func (m *Model) ScrollUp() {
	m.viewport.HalfViewUp()
}

// View renders the pane.
func (m Model) View() string {
	if m.content == nil {
		return theme.CenteredStyle(m.width, m.height).
			Render("Select a message to preview it.")
	}
	return m.viewport.View()
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh()
}

func (m *Model) refresh() {
	if m.content == nil {
		return
	}
	m.viewport.SetContent(m.render())
}

// render builds the full pane text for the viewport.
func (m Model) render() string {
	c := m.content
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	wrap := lipgloss.NewStyle().Width(max(m.width, 1))

	sections := []string{
		titleStyle.Render(c.Subject),
		fmt.Sprintf("%s %s", metaStyle.Render("From:"), c.From),
		fmt.Sprintf("%s %s", metaStyle.Render("Date:"), c.Received),
		"",
	}

	if m.showHeaders {
		if len(c.Headers) == 0 {
			sections = append(sections, metaStyle.Render("No headers."))
		}
		for _, h := range c.Headers {
			sections = append(sections, wrap.Render(
				fmt.Sprintf("%s %s", metaStyle.Render(h.Key+":"), h.Value),
			))
		}
		return strings.Join(sections, "\n")
	}

	sections = append(sections, wrap.Render(HTMLToText(c.Body)))
	return strings.Join(sections, "\n")
}
