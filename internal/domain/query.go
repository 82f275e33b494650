package domain

import "time"

// ExecutionResult is the normalized output of running one SQL statement.
// It is transient, per-request state and is never persisted.
type ExecutionResult struct {
	Columns  []string
	Rows     [][]interface{}
	RowCount int
	Error    string // non-empty when the store rejected the statement
}

// OK reports whether the statement executed without an error.
func (r *ExecutionResult) OK() bool { return r.Error == "" }

// Query source values recorded in query history.
const (
	QuerySourceDirect = "direct" // user-authored SQL
	QuerySourceAI     = "ai"     // SQL generated from a natural-language question
)

// Query history status values.
const (
	QueryStatusOK     = "OK"
	QueryStatusDenied = "DENIED"
	QueryStatusError  = "ERROR"
)

// QueryHistoryEntry records a single statement submitted through the console
// or the smart-query endpoint.
type QueryHistoryEntry struct {
	ID         int64
	Username   string
	SQL        string
	Source     string // QuerySourceDirect or QuerySourceAI
	Statement  string // "read" or "write" per the keyword heuristic
	Status     string
	Error      string
	RowCount   int
	DurationMs int64
	CreatedAt  time.Time
}

// Generation is the parsed output of one text-to-SQL request. A failed
// generation has an empty SQL and an explanatory message; callers must
// treat empty SQL as a hard stop and never execute it.
type Generation struct {
	SQL         string
	Explanation string
}
