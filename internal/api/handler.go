package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"countystats/internal/domain"
	"countystats/internal/service"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth    *service.AuthService
	query   *service.QueryService
	users   *service.UserService
	prompt  *service.PromptService
	records *service.RecordService
	info    *service.InfoService
	logger  *slog.Logger
}

func NewHandler(auth *service.AuthService, query *service.QueryService, users *service.UserService, prompt *service.PromptService, records *service.RecordService, info *service.InfoService, logger *slog.Logger) *Handler {
	return &Handler{
		auth:    auth,
		query:   query,
		users:   users,
		prompt:  prompt,
		records: records,
		info:    info,
		logger:  logger,
	}
}

// PublicRoutes registers the unauthenticated endpoints.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

// Routes registers the authenticated endpoints, mounted under /v1 behind the
// auth middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/sql", h.handleRunSQL)
	r.Post("/smart", h.handleSmartQuery)

	r.Get("/profile", h.handleProfile)
	r.Get("/profile/permissions", h.handleProfilePermissions)
	r.Post("/profile/role", h.handleChangeOwnRole)

	r.Get("/tables", h.handleTables)
	r.Get("/stats", h.handleStats)
	r.Get("/history", h.handleHistory)
	r.Get("/audit", h.handleAudit)

	r.Get("/prompt", h.handleGetPrompt)
	r.Put("/prompt", h.handleUpdatePrompt)
	r.Get("/prompt/preview", h.handlePromptPreview)

	r.Get("/users", h.handleListUsers)
	r.Post("/users/{id}/role", h.handleSetUserRole)
	r.Post("/users/{id}/admin", h.handleToggleSuperuser)
	r.Put("/users/{id}/permissions", h.handleSetOverride)
	r.Delete("/users/{id}", h.handleDeleteUser)

	r.Get("/county", h.handleListCounties)
	r.Post("/county", h.handleCreateCounty)
	r.Get("/county/{id}", h.handleGetCounty)
	r.Put("/county/{id}", h.handleUpdateCounty)

	r.Get("/infra", h.handleListInfrastructure)
	r.Post("/infra", h.handleCreateInfrastructure)
	r.Get("/infra/{id}", h.handleGetInfrastructure)
	r.Put("/infra/{id}", h.handleUpdateInfrastructure)

	r.Get("/agri", h.handleListAgricultureSales)
	r.Post("/agri", h.handleCreateAgricultureSale)
	r.Get("/agri/{id}", h.handleGetAgricultureSale)
	r.Put("/agri/{id}", h.handleUpdateAgricultureSale)

	r.Get("/economy", h.handleListEconomy)
	r.Post("/economy", h.handleCreateEconomy)
	r.Get("/economy/{id}", h.handleGetEconomy)
	r.Put("/economy/{id}", h.handleUpdateEconomy)

	r.Get("/demo", h.handleListDemographics)
	r.Post("/demo", h.handleCreateDemographics)
	r.Get("/demo/{id}", h.handleGetDemographics)
	r.Put("/demo/{id}", h.handleUpdateDemographics)
}

func currentUser(r *http.Request) *domain.User {
	user, _ := domain.UserFromContext(r.Context())
	return user
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, domain.ErrValidation("invalid id in path")
	}
	return id, nil
}
