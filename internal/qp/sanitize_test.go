package qp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"plain text keeps trailing space", "hello \r\nworld\t", "hello \r\nworld\t"},
		{"soft break crlf", "abc=\r\ndef", "abcdef"},
		{"soft break lf", "abc=\ndef", "abcdef"},
		{"soft break cr", "abc=\rdef", "abcdef"},
		{"soft break at end", "abc=", "abc"},
		{"hex upper", "caf=C3=A9", "café"},
		{"hex lower", "caf=c3=a9", "café"},
		{"zero width space", "a=E2=80=8Bb", "ab"},
		{"zero width variants", "a=E2=80=8Ab=e2=80=8cc", "abc"},
		{"nbsp is a break", "one=C2=A0two", "one<br>two"},
		{"right single quote", "it=E2=80=99s", "it's"},
		{"trailing space before soft break", "abc \t=\r\ndef", "abc \tdef"},
		{"trailing space on encoded line", "a=3D1  \r\nb", "a=1\r\nb"},
		{"encoded cr is not a soft break", "line=0D\r\nnext", "line\r\r\nnext"},
		{"bare equals kept", "a = b", "a = b"},
		{"bad hex kept", "x=ZZy", "x=ZZy"},
		{"single hex digit kept", "x=Ay", "x=Ay"},
		{"equals escape", "1+1=3D2", "1+1=2"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sanitize(tc.in))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello=2C world=21",
		"multi=\r\nline=\nbody",
		"caf=C3=A9 au lait",
		"<p>para=C2=A0two</p>",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}

func TestSanitize_NonASCIIInputKeepsOffsets(t *testing.T) {
	// U+0131 upper-cases to a shorter encoding; case folding must stay ASCII.
	assert.Equal(t, "ıab", Sanitize("ıa=E2=80=8Bb"))
}
