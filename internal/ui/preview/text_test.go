package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "\r\n\r\nhello\r\nworld", "hello\nworld"},
		{"body tag", "<body>hello</body>", "hello"},
		{"line break marker", "<body>one<br>two</body>", "one\ntwo"},
		{"paragraphs", "<body><p>one</p><p>two</p></body>", "one\ntwo"},
		{"entities", "<body>a &amp; b &lt;c&gt;</body>", "a & b <c>"},
		{"script dropped", "<body>hi<script>alert(1)</script></body>", "hi"},
		{"style dropped", "<html><head><style>p{}</style></head><body>x</body></html>", "x"},
		{"numeric escape is stripped", "<body>a&#27;[2Jb</body>", "a[2Jb"},
		{"blank runs collapse", "a<br><br><br><br>b", "a\n\nb"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTMLToText(tc.in))
		})
	}
}

func TestInline(t *testing.T) {
	assert.Equal(t, "Alice <alice@example.com>", Inline("Alice &lt;alice@example.com&gt;"))
	assert.Equal(t, "a@b", Inline("a@b"))
	assert.Equal(t, "", Inline(""))
}
