// Package mailbox asks for the mailbox to open when none was given on the
// command line.
package mailbox

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/edgeinbox/internal/theme"
)

// DefaultPrefix is used for generated mailbox names when none is configured.
const DefaultPrefix = "agent"

// ChosenMsg is dispatched when the user confirms a mailbox name.
type ChosenMsg struct {
	User string
}

// CancelMsg is dispatched when the user aborts the prompt.
type CancelMsg struct{}

// TempName generates a throwaway mailbox name, "<prefix>_<unix seconds>".
func TempName(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s_%d", prefix, now.Unix())
}

// ValidateName rejects names that cannot form a single address local part.
func ValidateName(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return errors.New("mailbox name is required")
	case strings.ContainsAny(s, "@<> \t"):
		return errors.New("enter only the part before the @")
	}
	return nil
}

// binding keeps the input value on the heap so huh's Value pointer stays
// valid across Bubble Tea model copies.
type binding struct {
	user string
}

// Model is the mailbox prompt.
type Model struct {
	form   *huh.Form
	b      *binding
	domain string
	width  int
	height int
}

// New creates a prompt pre-filled with a generated temporary name.
func New(domain, prefix string, width, height int) Model {
	m := Model{
		b:      &binding{user: TempName(prefix, time.Now())},
		domain: domain,
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// Value returns the current input value.
func (m Model) Value() string {
	return strings.TrimSpace(m.b.user)
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update forwards messages to the form and reports completion.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		user := m.Value()
		return m, func() tea.Msg { return ChosenMsg{User: user} }
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the prompt.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Open a mailbox") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the prompt dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.form.WithWidth(max(width-4, 20))
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Mailbox").
				Description("Messages sent to <name>@" + m.domain + " show up here.").
				Value(&m.b.user).
				Validate(ValidateName),
		),
	).WithWidth(max(m.width-4, 20))
}
