package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestLayout_ContentHeight(t *testing.T) {
	assert.Equal(t, 22, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 0, NewLayout(80, 1).ContentHeight())
}

func TestLayout_BarsFillWidth(t *testing.T) {
	l := NewLayout(60, 24)

	header := l.RenderHeader("bob@idont.date  page 1", "libsql")
	assert.Equal(t, 60, lipgloss.Width(header))
	assert.Contains(t, header, "page 1")
	assert.Contains(t, header, "libsql")

	status := l.RenderStatusBar("q quit", "")
	assert.Equal(t, 60, lipgloss.Width(status))
}

func TestLayout_RenderWithFrame(t *testing.T) {
	l := NewLayout(20, 5)
	out := l.RenderWithFrame("head", "body", "foot")
	assert.Equal(t, []string{"head", "body", "foot"}, trimLines(out))
}

func trimLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}
