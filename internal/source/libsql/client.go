// Package libsql reads mail rows from a remote libsql HTTP endpoint.
package libsql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/edgeinbox/internal/message"
	"github.com/nhle/edgeinbox/internal/pager"
	"github.com/nhle/edgeinbox/internal/source"
)

// rowColumns is the number of columns selected by pager.Statement.
const rowColumns = 4

// Client is a thin HTTP client for the libsql batch endpoint. It sends one
// request per query with Bearer token authentication and never retries.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates a new libsql client. The token is a read-only
// credential. A zero timeout leaves request timing to the transport.
func NewClient(url, token string, timeout time.Duration) *Client {
	return &Client{
		url:   strings.TrimRight(url, "/"),
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Backend returns source.BackendLibsql.
func (c *Client) Backend() source.Backend {
	return source.BackendLibsql
}

// QueryPage posts q as a single batched statement and decodes the rows of
// the first result.
func (c *Client) QueryPage(
	ctx context.Context,
	q pager.Query,
) (*message.QueryResult, error) {
	var results []StatementResult
	err := c.post(ctx, Request{
		Statements: []Statement{{Q: q.Statement, Params: q.Params}},
	}, &results)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("empty response from %s", c.url)
	}
	first := results[0]
	if first.Error != nil {
		return nil, fmt.Errorf("query failed: %s", first.Error.Message)
	}
	if first.Results == nil {
		return &message.QueryResult{}, nil
	}

	rows := make([]message.RawMailRow, 0, len(first.Results.Rows))
	for i, raw := range first.Results.Rows {
		row, err := decodeRow(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding row %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	return &message.QueryResult{Rows: rows}, nil
}

// post builds the request, handles auth and status codes, and unmarshals
// the JSON response.
func (c *Client) post(
	ctx context.Context,
	body interface{},
	result interface{},
) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.url, bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request POST %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := &source.StatusError{
			Code: resp.StatusCode,
			Body: string(respBody),
		}
		if resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %w", &source.AuthError{
				Backend: source.BackendLibsql,
				Message: "token rejected by " + c.url,
			}, statusErr)
		}
		return statusErr
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s: %w", c.url, err)
	}

	return nil
}

// decodeRow maps a [date, sender, recipients, data] tuple. SQL NULLs and
// non-string values decode to their JSON text, or "" for null.
func decodeRow(raw []json.RawMessage) (message.RawMailRow, error) {
	if len(raw) < rowColumns {
		return message.RawMailRow{}, fmt.Errorf(
			"expected %d columns, got %d", rowColumns, len(raw),
		)
	}

	var cols [rowColumns]string
	for i := range cols {
		cols[i] = stringValue(raw[i])
	}

	return message.NewRawMailRow(cols[0], cols[1], cols[2], cols[3]), nil
}

func stringValue(raw json.RawMessage) string {
	var s *string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == nil {
			return ""
		}
		return *s
	}
	return string(raw)
}
