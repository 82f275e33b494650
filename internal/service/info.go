package service

import (
	"context"

	"countystats/internal/domain"
)

// InfoService serves the dashboard aggregates, table descriptions, and the
// history and audit feeds.
type InfoService struct {
	stats   domain.StatsRepository
	history domain.QueryHistoryRepository
	audit   domain.AuditRepository
}

func NewInfoService(stats domain.StatsRepository, history domain.QueryHistoryRepository, audit domain.AuditRepository) *InfoService {
	return &InfoService{stats: stats, history: history, audit: audit}
}

// Dashboard returns the home-page summary figures.
func (s *InfoService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return s.stats.Dashboard(ctx)
}

// Tables returns the static description of the five business tables.
func (s *InfoService) Tables() []domain.TableInfo {
	keys := domain.AllTables()
	out := make([]domain.TableInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Info())
	}
	return out
}

// History returns recent query history. Superusers see everyone's entries;
// other users see only their own.
func (s *InfoService) History(ctx context.Context, actor *domain.User, limit int) ([]domain.QueryHistoryEntry, error) {
	if actor == nil {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	username := actor.Username
	if actor.IsSuperuser {
		username = ""
	}
	return s.history.List(ctx, username, limit)
}

// Audit returns recent audit entries. Admin only.
func (s *InfoService) Audit(ctx context.Context, actor *domain.User, limit int) ([]domain.AuditEntry, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	return s.audit.List(ctx, limit)
}
