package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"countystats/internal/ai"
	"countystats/internal/domain"
	"countystats/internal/engine"
)

// QueryService orchestrates the SQL console and the smart-query flow. Every
// request ends in exactly one terminal outcome: denied, generation halt,
// execution error, or success. There are no retries at this level.
type QueryService struct {
	executor    *engine.Executor
	generator   *ai.Generator
	permissions *PermissionService
	history     domain.QueryHistoryRepository
	audit       domain.AuditRepository
	logger      *slog.Logger
}

func NewQueryService(executor *engine.Executor, generator *ai.Generator, permissions *PermissionService, history domain.QueryHistoryRepository, audit domain.AuditRepository, logger *slog.Logger) *QueryService {
	return &QueryService{
		executor:    executor,
		generator:   generator,
		permissions: permissions,
		history:     history,
		audit:       audit,
		logger:      logger,
	}
}

// SmartQueryResult bundles the generated SQL, its explanation, and the
// execution outcome when the statement was run.
type SmartQueryResult struct {
	SQL         string
	Explanation string
	Result      *domain.ExecutionResult
}

// RunSQL executes user-authored SQL after the permission gate. A denied
// statement returns an AccessDeniedError and is never executed; store errors
// come back inside the result, not as an error.
func (s *QueryService) RunSQL(ctx context.Context, user *domain.User, rawSQL string) (*domain.ExecutionResult, error) {
	if user == nil {
		// Nothing to record: history entries carry a username.
		return nil, domain.ErrAccessDenied("not logged in")
	}
	rawSQL = strings.TrimSpace(rawSQL)
	if rawSQL == "" {
		return nil, domain.ErrValidation("sql is required")
	}

	allowed, err := s.permissions.CanExecuteSQL(ctx, user, rawSQL)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.record(ctx, user, rawSQL, domain.QuerySourceDirect, domain.QueryStatusDenied, "write access denied", 0, 0)
		return nil, domain.ErrAccessDenied("you do not have permission to run write statements")
	}

	start := time.Now()
	result := s.executor.Execute(ctx, rawSQL)
	elapsed := time.Since(start).Milliseconds()

	status := domain.QueryStatusOK
	if !result.OK() {
		status = domain.QueryStatusError
	}
	s.record(ctx, user, rawSQL, domain.QuerySourceDirect, status, result.Error, result.RowCount, elapsed)
	return result, nil
}

// SmartQuery generates SQL from a natural-language question and, when
// generation and the permission gate both succeed, executes it. A generation
// that produced no SQL halts the flow; the explanation carries the reason.
func (s *QueryService) SmartQuery(ctx context.Context, user *domain.User, question string) (*SmartQueryResult, error) {
	if user == nil {
		return nil, domain.ErrAccessDenied("not logged in")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrValidation("question is required")
	}

	gen := s.generator.Generate(ctx, question)
	out := &SmartQueryResult{SQL: gen.SQL, Explanation: gen.Explanation}
	if gen.SQL == "" {
		return out, nil
	}

	allowed, err := s.permissions.CanExecuteSQL(ctx, user, gen.SQL)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.record(ctx, user, gen.SQL, domain.QuerySourceAI, domain.QueryStatusDenied, "write access denied", 0, 0)
		return nil, domain.ErrAccessDenied("the generated statement writes data and you lack write access")
	}

	start := time.Now()
	out.Result = s.executor.Execute(ctx, gen.SQL)
	elapsed := time.Since(start).Milliseconds()

	status := domain.QueryStatusOK
	if !out.Result.OK() {
		status = domain.QueryStatusError
	}
	s.record(ctx, user, gen.SQL, domain.QuerySourceAI, status, out.Result.Error, out.Result.RowCount, elapsed)
	return out, nil
}

func (s *QueryService) record(ctx context.Context, user *domain.User, sqlText, source, status, errMsg string, rowCount int, durationMs int64) {
	stmt := "read"
	if engine.IsMutating(sqlText) {
		stmt = "write"
	}
	entry := &domain.QueryHistoryEntry{
		Username:   user.Username,
		SQL:        sqlText,
		Source:     source,
		Statement:  stmt,
		Status:     status,
		Error:      errMsg,
		RowCount:   rowCount,
		DurationMs: durationMs,
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		s.logger.Warn("record query history", "error", err)
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: user.Username,
		Action:   "EXECUTE_SQL",
		Detail:   fmt.Sprintf("source=%s statement=%s", source, stmt),
		Status:   status,
	})
}
