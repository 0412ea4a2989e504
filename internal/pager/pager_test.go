package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		offset string
		want   int
	}{
		{"missing", "", 0},
		{"numeric", "10", 10},
		{"non numeric", "abc", 0},
		{"negative clamped", "-5", 0},
		{"padded", " 15 ", 15},
		{"not a multiple", "7", 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := FromParams(Params{User: "bob", Offset: tc.offset}, "idont.date", 5)
			assert.Equal(t, tc.want, s.Offset)
		})
	}
}

func TestFromParams_DefaultPageSize(t *testing.T) {
	s := FromParams(Params{User: "bob"}, "idont.date", 0)
	assert.Equal(t, DefaultPageSize, s.PageSize)
}

func TestPageState_Query(t *testing.T) {
	s := FromParams(Params{User: "bob", Offset: "10"}, "idont.date", 5)
	q := s.Query()

	assert.Equal(t, Statement, q.Statement)
	assert.Equal(t, []any{"<bob@idont.date>", 5, 10}, q.Params)
}

func TestPageState_Links(t *testing.T) {
	first := FromParams(Params{User: "bob", Offset: "0"}, "idont.date", 5)

	assert.False(t, first.Previous().Enabled)
	assert.False(t, first.Next(4).Enabled)

	next := first.Next(5)
	assert.True(t, next.Enabled)
	assert.Equal(t, 5, next.Offset())
	assert.Equal(t, "bob", next.Params.User)

	second := FromParams(next.Params, "idont.date", 5)
	prev := second.Previous()
	assert.True(t, prev.Enabled)
	assert.Equal(t, 0, prev.Offset())
}

func TestPageState_PreviousFromOddOffset(t *testing.T) {
	s := FromParams(Params{User: "bob", Offset: "3"}, "idont.date", 5)

	prev := s.Previous()
	assert.True(t, prev.Enabled)
	assert.Equal(t, 0, prev.Offset())
	assert.Equal(t, 1, s.Label())
}

func TestPageState_Label(t *testing.T) {
	assert.Equal(t, 1, FromParams(Params{Offset: "0"}, "d", 5).Label())
	assert.Equal(t, 2, FromParams(Params{Offset: "5"}, "d", 5).Label())
	assert.Equal(t, 3, FromParams(Params{Offset: "14"}, "d", 5).Label())
	assert.Equal(t, "bob@d  page 2", FromParams(Params{User: "bob", Offset: "9"}, "d", 5).Title())
}
