package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

func TestEnvelopeSender(t *testing.T) {
	tests := []struct {
		name string
		from string
		raw  string
		want string
	}{
		{"flag bare", "a@b.c", "", "<a@b.c>"},
		{"flag bracketed", "<a@b.c>", "", "<a@b.c>"},
		{"from header", "", "From: Alice <alice@example.com>\r\n\r\nhi", "<alice@example.com>"},
		{"no sender", "", "Subject: x\r\n\r\nhi", "<>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, envelopeSender(tt.from, tt.raw))
		})
	}
}

func TestParseFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o := parseFlags(fs, []string{"--user", "bob", "--offset", "abc", "--page-size", "10"})

	assert.Equal(t, "bob", o.user)
	assert.Equal(t, "abc", o.offset)
	f := fs.Lookup("page-size")
	if assert.NotNil(t, f) {
		assert.Equal(t, "10", f.Value.String())
	}
}
