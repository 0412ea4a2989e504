package libsql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/edgeinbox/internal/pager"
	"github.com/nhle/edgeinbox/internal/source"
)

func testQuery() pager.Query {
	return pager.FromParams(pager.Params{User: "bob", Offset: "5"}, "idont.date", 5).Query()
}

func TestQueryPage_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"results":{"columns":["date","sender","recipients","data"],"rows":[
			["2024-01-02 10:00:00.000","<a@b>","<bob@idont.date>","Subject: two\r\n\r\nbody"],
			["2024-01-01 09:00:00.000","<c@d>","<bob@idont.date>",null]
		]}}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 0)
	res, err := c.QueryPage(context.Background(), testQuery())
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	stmts := gotBody["statements"].([]any)
	require.Len(t, stmts, 1)
	stmt := stmts[0].(map[string]any)
	assert.Equal(t, pager.Statement, stmt["q"])
	assert.Equal(t, []any{"<bob@idont.date>", float64(5), float64(5)}, stmt["params"])

	require.Equal(t, 2, res.Len())
	assert.Equal(t, "<a@b>", res.Rows[0].EnvelopeSender)
	assert.Equal(t, 2, res.Rows[0].ReceivedAt.Day())
	assert.Equal(t, "", res.Rows[1].RawMessage)
}

func TestQueryPage_EmptyRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"results":{"columns":[],"rows":[]}}]`)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "t", 0).QueryPage(context.Background(), testQuery())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
}

func TestQueryPage_NonOKKeepsRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream exploded")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "t", 0).QueryPage(context.Background(), testQuery())
	require.Error(t, err)

	statusErr, ok := source.AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
	assert.Equal(t, "upstream exploded", statusErr.Body)
	assert.False(t, source.IsAuthError(err))
}

func TestQueryPage_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, "bad token")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "t", 0).QueryPage(context.Background(), testQuery())
	require.Error(t, err)
	assert.True(t, source.IsAuthError(err))

	statusErr, ok := source.AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, "bad token", statusErr.Body)
}

func TestQueryPage_StatementError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"error":{"message":"no such table: mail"}}]`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "t", 0).QueryPage(context.Background(), testQuery())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table: mail")
}

func TestQueryPage_ShortRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"results":{"rows":[["only","three","cols"]]}}]`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "t", 0).QueryPage(context.Background(), testQuery())
	require.Error(t, err)
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "x", stringValue(json.RawMessage(`"x"`)))
	assert.Equal(t, "", stringValue(json.RawMessage(`null`)))
	assert.Equal(t, "42", stringValue(json.RawMessage(`42`)))
}
