package api

import (
	"net/http"

	"countystats/internal/domain"
)

type tablePermissionResponse struct {
	Table  string `json:"table"`
	Name   string `json:"name"`
	View   bool   `json:"view"`
	Edit   bool   `json:"edit"`
	Source string `json:"source"`
}

func toPermissionResponses(perms []domain.TablePermission) []tablePermissionResponse {
	out := make([]tablePermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, tablePermissionResponse{
			Table:  string(p.Table),
			Name:   p.Name,
			View:   p.View,
			Edit:   p.Edit,
			Source: p.Source,
		})
	}
	return out
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.Profile(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	roles := make([]string, 0, len(domain.AllRoles()))
	for _, role := range domain.AllRoles() {
		roles = append(roles, string(role))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":            toUserResponse(&profile.User),
		"permissions":     toPermissionResponses(profile.Permissions),
		"available_roles": roles,
	})
}

func (h *Handler) handleProfilePermissions(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.Profile(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPermissionResponses(profile.Permissions))
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) handleChangeOwnRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.users.ChangeOwnRole(r.Context(), currentUser(r), req.Role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": req.Role})
}
