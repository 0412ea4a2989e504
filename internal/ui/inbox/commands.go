package inbox

import "github.com/nhle/edgeinbox/internal/pager"

// Command is an action requested from the inbox view. The hosting model
// dispatches it; the view never performs I/O itself.
type Command interface {
	command()
}

// Preview shows the entry at Index in the preview pane.
type Preview struct {
	Index int
}

// Navigate starts a new page load for Link.
type Navigate struct {
	Link pager.Link
}

// Reload reissues the current page's query.
type Reload struct{}

func (Preview) command()  {}
func (Navigate) command() {}
func (Reload) command()   {}

// CommandMsg carries a Command through the bubbletea event loop.
type CommandMsg struct {
	Command Command
}
