package api

import (
	"net/http"

	"countystats/internal/domain"
)

type promptConfigPayload struct {
	TableSchema        string `json:"table_schema"`
	SystemPrompt       string `json:"system_prompt"`
	UserPromptTemplate string `json:"user_prompt_template"`
	UpdatedBy          string `json:"updated_by,omitempty"`
}

func (h *Handler) handleGetPrompt(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.prompt.Get(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, promptConfigPayload{
		TableSchema:        cfg.TableSchema,
		SystemPrompt:       cfg.SystemPrompt,
		UserPromptTemplate: cfg.UserPromptTemplate,
		UpdatedBy:          cfg.UpdatedBy,
	})
}

func (h *Handler) handleUpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptConfigPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	cfg := &domain.PromptConfig{
		TableSchema:        req.TableSchema,
		SystemPrompt:       req.SystemPrompt,
		UserPromptTemplate: req.UserPromptTemplate,
	}
	if err := h.prompt.Update(r.Context(), currentUser(r), cfg); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) handlePromptPreview(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("question")
	if question == "" {
		question = "example question"
	}
	preview, err := h.prompt.Preview(r.Context(), currentUser(r), question)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"prompt": preview})
}
