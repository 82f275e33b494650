package api

import (
	"net/http"
	"strconv"
	"time"
)

func (h *Handler) handleTables(w http.ResponseWriter, r *http.Request) {
	tables := h.info.Tables()
	out := make([]map[string]interface{}, 0, len(tables))
	for _, t := range tables {
		fields := make([]map[string]interface{}, 0, len(t.Fields))
		for _, f := range t.Fields {
			field := map[string]interface{}{
				"name":     f.Name,
				"type":     f.Type,
				"nullable": f.Nullable,
			}
			if f.PrimaryKey {
				field["primary_key"] = true
			}
			if f.RelatedTable != "" {
				field["related_table"] = f.RelatedTable
			}
			fields = append(fields, field)
		}
		out = append(out, map[string]interface{}{
			"key":           string(t.Key),
			"display_name":  t.DisplayName,
			"physical_name": t.PhysicalName,
			"fields":        fields,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.info.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"county_count":           stats.CountyCount,
		"avg_gdp_total":          stats.AvgGDPTotal,
		"total_population":       stats.TotalPopulation,
		"avg_broadband_coverage": stats.AvgBroadbandCoverage,
	})
}

func queryLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.info.History(r.Context(), currentUser(r), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"id":          e.ID,
			"username":    e.Username,
			"sql":         e.SQL,
			"source":      e.Source,
			"statement":   e.Statement,
			"status":      e.Status,
			"error":       e.Error,
			"row_count":   e.RowCount,
			"duration_ms": e.DurationMs,
			"created_at":  e.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.info.Audit(r.Context(), currentUser(r), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"id":         e.ID,
			"username":   e.Username,
			"action":     e.Action,
			"detail":     e.Detail,
			"status":     e.Status,
			"created_at": e.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
