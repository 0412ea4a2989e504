package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/edgeinbox/internal/keys"
	"github.com/nhle/edgeinbox/internal/pager"
	"github.com/nhle/edgeinbox/internal/source"
	appsync "github.com/nhle/edgeinbox/internal/sync"
	"github.com/nhle/edgeinbox/internal/ui"
	helpview "github.com/nhle/edgeinbox/internal/ui/help"
	"github.com/nhle/edgeinbox/internal/ui/inbox"
	"github.com/nhle/edgeinbox/internal/ui/mailbox"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewHelp
	ViewPrompt
)

// Options configure the root model.
type Options struct {
	// Params are the navigation parameters of the first load. An empty
	// User opens the mailbox prompt first.
	Params        pager.Params
	Domain        string
	PageSize      int
	AddressPrefix string
	// Timeout bounds each page load; zero leaves it to the backend.
	Timeout time.Duration
	// Location formats received dates. Nil means time.Local.
	Location *time.Location
}

// Model is the root Bubble Tea model. It owns the page state and the load
// cycle, and dispatches the commands produced by the inbox view.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	inbox        inbox.Model
	helpView     helpview.Model
	prompt       mailbox.Model
	loader       *appsync.Loader
	log          *slog.Logger
	opts         Options
	page         pager.PageState
	ready        bool
	authMessage  string
}

// New creates the root model reading pages through q.
func New(q source.Querier, log *slog.Logger, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	k := keys.DefaultKeyMap()

	m := Model{
		keys:     k,
		inbox:    inbox.New(k, 80, 22),
		helpView: helpview.New(k, 80, 22),
		prompt:   mailbox.New(opts.Domain, opts.AddressPrefix, 80, 22),
		loader:   appsync.New(q, log, opts.Timeout),
		log:      log,
		opts:     opts,
		page:     pager.FromParams(opts.Params, opts.Domain, opts.PageSize),
	}
	if opts.Params.User == "" {
		m.currentView = ViewPrompt
	}
	return m
}

// Init starts the first load cycle, or the mailbox prompt when no
// mailbox was given.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewPrompt {
		return m.prompt.Init()
	}
	return func() tea.Msg { return startMsg{} }
}

// startMsg triggers the first load from inside Update so the cycle state
// lives on the running model.
type startMsg struct{}

// Page returns the page currently shown or loading.
func (m Model) Page() pager.PageState {
	return m.page
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState {
	return m.currentView
}

// Inbox returns the inbox view model.
func (m Model) Inbox() inbox.Model {
	return m.inbox
}

// load replaces the page state and starts a new cycle for it. Any cycle
// still in flight is superseded.
func (m *Model) load(page pager.PageState) tea.Cmd {
	m.page = page
	m.authMessage = ""
	_, fetch := m.loader.Start(page)
	return tea.Batch(m.inbox.SetView(inbox.Loading(page)), fetch)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.inbox.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.prompt.SetSize(contentWidth, contentHeight)
		if m.currentView == ViewPrompt {
			return m.updateActiveView(msg)
		}
		return m, nil

	case startMsg:
		return m, m.load(m.page)

	case mailbox.ChosenMsg:
		m.currentView = ViewInbox
		page := pager.FromParams(
			pager.Params{User: msg.User, Offset: m.opts.Params.Offset},
			m.opts.Domain,
			m.opts.PageSize,
		)
		return m, m.load(page)

	case mailbox.CancelMsg:
		return m, tea.Quit

	case appsync.ResultMsg:
		if !m.loader.Accept(msg) {
			return m, nil
		}
		if msg.AuthError != nil {
			m.authMessage = msg.AuthError.Message
		}
		view := inbox.Render(msg.Page, msg.Result, msg.Error, m.opts.Location)
		return m, m.inbox.SetView(view)

	case inbox.CommandMsg:
		return m, m.dispatch(msg.Command)

	case tea.KeyMsg:
		if m.currentView == ViewPrompt {
			if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
			} else {
				m.previousView = m.currentView
				m.currentView = ViewHelp
			}
			return m, nil

		case key.Matches(msg, m.keys.ClosePreview) && m.currentView == ViewHelp:
			m.currentView = m.previousView
			return m, nil
		}
	}

	// The inbox keeps receiving spinner and viewport messages behind the
	// help overlay.
	if _, isKey := msg.(tea.KeyMsg); !isKey && m.currentView == ViewHelp {
		var cmd tea.Cmd
		m.inbox, cmd = m.inbox.Update(msg)
		return m, cmd
	}

	return m.updateActiveView(msg)
}

// dispatch performs a command requested by the inbox view.
func (m *Model) dispatch(c inbox.Command) tea.Cmd {
	switch c := c.(type) {
	case inbox.Preview:
		m.inbox.ShowPreview(c.Index)
		return nil

	case inbox.Navigate:
		if !c.Link.Enabled {
			return nil
		}
		page := pager.FromParams(c.Link.Params, m.page.Domain, m.page.PageSize)
		return m.load(page)

	case inbox.Reload:
		return m.load(m.page)
	}
	return nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewInbox:
		m.inbox, cmd = m.inbox.Update(msg)
	case ViewPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "edgeinbox"
	if m.currentView != ViewPrompt {
		title = m.page.Title()
	}
	header := m.layout.RenderHeader(title, m.loadStatus())
	content := m.renderContent()

	pagination := ""
	if m.currentView == ViewInbox {
		pagination = m.inbox.Pagination()
	}
	statusBar := m.layout.RenderStatusBar(m.keyHints(), pagination)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewPrompt:
		return m.prompt.View()
	default:
		return m.inbox.View()
	}
}

// loadStatus returns a short string describing the backend and load state.
func (m Model) loadStatus() string {
	st := m.loader.Status()
	switch st.State {
	case appsync.LoadRunning:
		return fmt.Sprintf("%s · loading", st.Backend)
	case appsync.LoadError:
		return fmt.Sprintf("%s · failed", st.Backend)
	}
	return string(st.Backend)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.authMessage != "" && m.currentView == ViewInbox {
		return m.authMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewPrompt:
		return "enter open | ctrl+c quit"
	}

	if m.inbox.PreviewActive() {
		return "esc close | h headers | ctrl+d/ctrl+u scroll | ? help"
	}
	return "q quit | ? help | enter preview | n/p page | r reload"
}
