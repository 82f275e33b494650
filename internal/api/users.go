package api

import (
	"net/http"

	"countystats/internal/domain"
)

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	users, err := h.users.List(r.Context(), currentUser(r), search)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		out = append(out, map[string]interface{}{
			"user":        toUserResponse(&users[i].User),
			"permissions": toPermissionResponses(users[i].Permissions),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.users.SetRole(r.Context(), currentUser(r), id, req.Role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": req.Role})
}

func (h *Handler) handleToggleSuperuser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.ToggleSuperuser(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type setOverrideRequest struct {
	Table   string `json:"table"`
	CanView bool   `json:"can_view"`
	CanEdit bool   `json:"can_edit"`
}

func (h *Handler) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req setOverrideRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	override := &domain.TableOverride{
		UserID:  id,
		Table:   domain.TableKey(req.Table),
		CanView: req.CanView,
		CanEdit: req.CanEdit,
	}
	if err := h.users.SetOverride(r.Context(), currentUser(r), override); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table":    req.Table,
		"can_view": req.CanView,
		"can_edit": req.CanEdit,
	})
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.users.Delete(r.Context(), currentUser(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
