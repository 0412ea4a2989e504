// Package pager derives the page being viewed from navigation parameters
// and builds the query and page links for it. It performs no I/O.
package pager

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of messages shown per page.
const DefaultPageSize = 5

// Statement selects one page of a mailbox, newest first. Parameters are
// the recipient address, the page size and the offset.
const Statement = "SELECT date, sender, recipients, data FROM mail " +
	"WHERE recipients = ? ORDER BY rowid DESC LIMIT ? OFFSET ?"

// Params are the raw navigation parameters of a view load.
type Params struct {
	User   string
	Offset string
}

// PageState identifies the page being viewed. It is built once per load.
type PageState struct {
	Mailbox  string
	Domain   string
	Offset   int
	PageSize int
}

// FromParams validates navigation parameters. A missing or non-numeric
// offset becomes 0 and negative offsets are clamped to 0. A non-positive
// pageSize falls back to DefaultPageSize.
func FromParams(p Params, domain string, pageSize int) PageState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	offset, err := strconv.Atoi(strings.TrimSpace(p.Offset))
	if err != nil || offset < 0 {
		offset = 0
	}

	return PageState{
		Mailbox:  p.User,
		Domain:   domain,
		Offset:   offset,
		PageSize: pageSize,
	}
}

// Address returns the mailbox address, e.g. "user@idont.date".
func (s PageState) Address() string {
	return s.Mailbox + "@" + s.Domain
}

// RecipientAddress returns the envelope recipient form, "<user@domain>".
func (s PageState) RecipientAddress() string {
	return "<" + s.Address() + ">"
}

// Label returns the 1-based page number.
func (s PageState) Label() int {
	return s.Offset/s.PageSize + 1
}

// Title is the page title shown in the header bar.
func (s PageState) Title() string {
	return fmt.Sprintf("%s  page %d", s.Address(), s.Label())
}

// Query describes the single statement issued for a page.
type Query struct {
	Statement string
	Params    []any
}

// Query builds the query for the page.
func (s PageState) Query() Query {
	return Query{
		Statement: Statement,
		Params:    []any{s.RecipientAddress(), s.PageSize, s.Offset},
	}
}

// Link is a navigation target. A disabled link has no meaningful Params.
type Link struct {
	Enabled bool
	Params  Params
}

// Offset returns the target offset of the link.
func (l Link) Offset() int {
	n, _ := strconv.Atoi(l.Params.Offset)
	return n
}

// Previous returns the link to the previous page. It is enabled only when
// the current offset is past the first row.
func (s PageState) Previous() Link {
	if s.Offset <= 0 {
		return Link{}
	}
	return s.link(max(0, s.Offset-s.PageSize))
}

// Next returns the link to the next page. It is enabled only when the
// current page came back full.
func (s PageState) Next(rows int) Link {
	if rows < s.PageSize {
		return Link{}
	}
	return s.link(s.Offset + s.PageSize)
}

func (s PageState) link(offset int) Link {
	return Link{
		Enabled: true,
		Params: Params{
			User:   s.Mailbox,
			Offset: strconv.Itoa(offset),
		},
	}
}
