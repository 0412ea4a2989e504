package inbox

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/edgeinbox/internal/keys"
	"github.com/nhle/edgeinbox/internal/message"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func command(t *testing.T, cmd tea.Cmd) Command {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(CommandMsg)
	require.True(t, ok)
	return msg.Command
}

func newModel(v View) Model {
	m := New(keys.DefaultKeyMap(), 100, 30)
	m.SetView(v)
	return m
}

func TestModel_SelectEmitsPreview(t *testing.T) {
	m := newModel(Render(page("0"), rows(3), nil, time.UTC))

	m, _ = m.Update(keyMsg("down"))
	_, cmd := m.Update(keyMsg("enter"))

	assert.Equal(t, Preview{Index: 1}, command(t, cmd))
}

func TestModel_ShowPreviewLastSelectedWins(t *testing.T) {
	res := rows(2)
	res.Rows[1] = message.NewRawMailRow("", "<x@y>", "<bob@idont.date>",
		"Subject: second\r\n\r\n<body>other</body>")
	m := newModel(Render(page("0"), res, nil, time.UTC))

	m.ShowPreview(0)
	assert.Contains(t, m.View(), "hello")

	m.ShowPreview(1)
	assert.True(t, m.PreviewActive())
	assert.Contains(t, m.View(), "other")
	assert.NotContains(t, m.View(), "hello")

	m.ShowPreview(7)
	assert.Contains(t, m.View(), "other")
}

func TestModel_Pagination(t *testing.T) {
	m := newModel(Render(page("5"), rows(5), nil, time.UTC))

	_, cmd := m.Update(keyMsg("n"))
	nav, ok := command(t, cmd).(Navigate)
	require.True(t, ok)
	assert.Equal(t, 10, nav.Link.Offset())

	_, cmd = m.Update(keyMsg("p"))
	nav, ok = command(t, cmd).(Navigate)
	require.True(t, ok)
	assert.Equal(t, 0, nav.Link.Offset())
}

func TestModel_DisabledLinksEmitNothing(t *testing.T) {
	m := newModel(Render(page("0"), rows(2), nil, time.UTC))

	_, cmd := m.Update(keyMsg("n"))
	assert.Nil(t, cmd)
	_, cmd = m.Update(keyMsg("p"))
	assert.Nil(t, cmd)
}

func TestModel_EmptyStateReload(t *testing.T) {
	m := newModel(Render(page("0"), &message.QueryResult{}, nil, time.UTC))

	assert.Contains(t, m.View(), "No messages for bob@idont.date")
	_, cmd := m.Update(keyMsg("r"))
	assert.Equal(t, Reload{}, command(t, cmd))

	_, cmd = m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
}

func TestModel_SetViewClearsPreview(t *testing.T) {
	m := newModel(Render(page("0"), rows(2), nil, time.UTC))
	m.ShowPreview(0)
	require.True(t, m.PreviewActive())

	m.SetView(Render(page("5"), rows(1), nil, time.UTC))
	assert.False(t, m.PreviewActive())
}
