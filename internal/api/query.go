package api

import (
	"net/http"

	"countystats/internal/domain"
)

type runSQLRequest struct {
	SQL string `json:"sql"`
}

type smartQueryRequest struct {
	Question string `json:"question"`
}

type executionResponse struct {
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"row_count"`
	Error    string          `json:"error,omitempty"`
}

func toExecutionResponse(res *domain.ExecutionResult) executionResponse {
	return executionResponse{
		Columns:  res.Columns,
		Rows:     res.Rows,
		RowCount: res.RowCount,
		Error:    res.Error,
	}
}

// handleRunSQL runs user-authored SQL. Store rejections come back as a 200
// payload with a non-empty error field; only gate and validation failures
// use error statuses.
func (h *Handler) handleRunSQL(w http.ResponseWriter, r *http.Request) {
	var req runSQLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := h.query.RunSQL(r.Context(), currentUser(r), req.SQL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExecutionResponse(result))
}

type smartQueryResponse struct {
	SQL         string             `json:"sql"`
	Explanation string             `json:"explanation"`
	Result      *executionResponse `json:"result,omitempty"`
}

func (h *Handler) handleSmartQuery(w http.ResponseWriter, r *http.Request) {
	var req smartQueryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	out, err := h.query.SmartQuery(r.Context(), currentUser(r), req.Question)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := smartQueryResponse{SQL: out.SQL, Explanation: out.Explanation}
	if out.Result != nil {
		res := toExecutionResponse(out.Result)
		resp.Result = &res
	}
	writeJSON(w, http.StatusOK, resp)
}
