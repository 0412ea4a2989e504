package libsql

import "encoding/json"

// Statement is one entry of a batched request.
type Statement struct {
	Q      string `json:"q"`
	Params []any  `json:"params"`
}

// Request is the body of a batched query.
type Request struct {
	Statements []Statement `json:"statements"`
}

// StatementResult is one element of the response array. Exactly one of
// Results and Error is set.
type StatementResult struct {
	Results *ResultSet      `json:"results"`
	Error   *StatementError `json:"error"`
}

// ResultSet holds the rows of a successful statement. Each row is a
// positional tuple matching the selected columns.
type ResultSet struct {
	Columns []string            `json:"columns"`
	Rows    [][]json.RawMessage `json:"rows"`
}

// StatementError describes a statement the server failed to run.
type StatementError struct {
	Message string `json:"message"`
}
