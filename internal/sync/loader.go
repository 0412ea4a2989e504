// Package sync runs page loads against a query backend and tracks which
// load cycle is current.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/edgeinbox/internal/message"
	"github.com/nhle/edgeinbox/internal/pager"
	"github.com/nhle/edgeinbox/internal/source"
)

// LoadState represents the state of the most recent page load.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadRunning
	LoadError
)

// Status holds the load state of the backend.
type Status struct {
	Backend  source.Backend
	State    LoadState
	LastLoad time.Time
	Error    error
}

// ResultMsg is a tea.Msg sent when a page load completes.
type ResultMsg struct {
	Cycle     string
	Page      pager.PageState
	Result    *message.QueryResult
	Error     error
	AuthError *AuthErrorMsg
}

// AuthErrorMsg describes a rejected credential.
type AuthErrorMsg struct {
	Backend source.Backend
	Message string
}

// Loader issues one query per load cycle. Starting a cycle supersedes the
// previous one; results of superseded cycles are rejected by Accept.
type Loader struct {
	querier source.Querier
	log     *slog.Logger
	timeout time.Duration

	mu      gosync.Mutex
	current string
	status  Status
}

// New creates a Loader. A zero timeout leaves deadlines to the querier.
func New(q source.Querier, log *slog.Logger, timeout time.Duration) *Loader {
	return &Loader{
		querier: q,
		log:     log,
		timeout: timeout,
		status:  Status{Backend: q.Backend(), State: LoadIdle},
	}
}

// Start begins a new cycle for page and returns its ID together with the
// command that performs the query.
func (l *Loader) Start(page pager.PageState) (string, tea.Cmd) {
	cycle := uuid.NewString()

	l.mu.Lock()
	l.current = cycle
	l.status.State = LoadRunning
	l.status.Error = nil
	l.mu.Unlock()

	l.log.Info("page load started",
		"cycle", cycle,
		"mailbox", page.Address(),
		"offset", page.Offset,
	)

	return cycle, func() tea.Msg {
		return l.fetch(cycle, page)
	}
}

// Current returns the ID of the cycle in flight or last completed.
func (l *Loader) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Accept reports whether msg belongs to the current cycle, and records the
// outcome in the status when it does.
func (l *Loader) Accept(msg ResultMsg) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if msg.Cycle != l.current {
		l.log.Debug("dropping superseded result",
			"cycle", msg.Cycle,
			"current", l.current,
		)
		return false
	}

	if msg.Error != nil {
		l.status.State = LoadError
		l.status.Error = msg.Error
		return true
	}

	l.status.State = LoadIdle
	l.status.Error = nil
	l.status.LastLoad = time.Now()
	return true
}

// Status returns a snapshot of the load status.
func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *Loader) fetch(cycle string, page pager.PageState) ResultMsg {
	ctx := context.Background()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	res, err := l.querier.QueryPage(ctx, page.Query())
	if err != nil {
		l.log.Warn("page load failed", "cycle", cycle, "error", err)

		msg := ResultMsg{Cycle: cycle, Page: page, Error: err}
		if source.IsAuthError(err) {
			msg.AuthError = &AuthErrorMsg{
				Backend: l.querier.Backend(),
				Message: fmt.Sprintf(
					"%s: token rejected. Run with --store-token to replace it.",
					l.querier.Backend(),
				),
			}
		}
		return msg
	}

	l.log.Info("page load finished", "cycle", cycle, "rows", res.Len())
	return ResultMsg{Cycle: cycle, Page: page, Result: res}
}
