package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countystats/internal/ai"
	internaldb "countystats/internal/db"
	"countystats/internal/db/repository"
	"countystats/internal/domain"
	"countystats/internal/engine"
)

type fixedProvider struct {
	reply string
}

func (f *fixedProvider) Complete(context.Context, string, string) (string, error) {
	return f.reply, nil
}

type queryFixture struct {
	svc     *QueryService
	users   *repository.UserRepo
	history *repository.QueryHistoryRepo
}

func setupQueryService(t *testing.T, reply string, aiConfigured bool) *queryFixture {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userRepo := repository.NewUserRepo(db)
	overrideRepo := repository.NewOverrideRepo(db)
	promptRepo := repository.NewPromptConfigRepo(db)
	historyRepo := repository.NewQueryHistoryRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	executor := engine.NewExecutor(db, logger)
	generator := ai.NewGenerator(&fixedProvider{reply: reply}, promptRepo, aiConfigured, logger)
	permissions := NewPermissionService(overrideRepo)

	return &queryFixture{
		svc:     NewQueryService(executor, generator, permissions, historyRepo, auditRepo, logger),
		users:   userRepo,
		history: historyRepo,
	}
}

func TestRunSQL_AnonymousDenied(t *testing.T) {
	fx := setupQueryService(t, "", false)
	ctx := context.Background()

	_, err := fx.svc.RunSQL(ctx, nil, "SELECT 1")
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, denied.Error(), "not logged in")

	entries, err := fx.history.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, entries, "anonymous attempts have no username to record")
}

func TestSmartQuery_AnonymousDenied(t *testing.T) {
	reply := "SQL:\nSELECT 1\nExplanation:\nok"
	fx := setupQueryService(t, reply, true)

	_, err := fx.svc.SmartQuery(context.Background(), nil, "how many counties are there")
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
	assert.Contains(t, denied.Error(), "not logged in")
}

func TestRunSQL_BlankRejected(t *testing.T) {
	fx := setupQueryService(t, "", false)
	admin := createUser(t, fx.users, "admin", true)

	_, err := fx.svc.RunSQL(context.Background(), admin, "   ")
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRunSQL_ReadForAnalyst(t *testing.T) {
	fx := setupQueryService(t, "", false)
	ctx := context.Background()
	analyst := createUser(t, fx.users, "analyst", false, domain.RoleAnalyst)

	res, err := fx.svc.RunSQL(ctx, analyst, "SELECT COUNT(*) FROM core_county")
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	require.Len(t, res.Rows, 1)

	entries, err := fx.history.List(ctx, "analyst", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.QueryStatusOK, entries[0].Status)
	assert.Equal(t, domain.QuerySourceDirect, entries[0].Source)
	assert.Equal(t, "read", entries[0].Statement)
}

func TestRunSQL_WriteDeniedForAnalyst(t *testing.T) {
	fx := setupQueryService(t, "", false)
	ctx := context.Background()
	analyst := createUser(t, fx.users, "analyst", false, domain.RoleAnalyst)

	_, err := fx.svc.RunSQL(ctx, analyst, "DELETE FROM core_county")
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	// Denial leaves the store untouched and is recorded.
	entries, err := fx.history.List(ctx, "analyst", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.QueryStatusDenied, entries[0].Status)
	assert.Equal(t, "write", entries[0].Statement)
}

func TestRunSQL_StoreErrorIsPayload(t *testing.T) {
	fx := setupQueryService(t, "", false)
	ctx := context.Background()
	admin := createUser(t, fx.users, "admin", true)

	res, err := fx.svc.RunSQL(ctx, admin, "SELECT * FROM no_such_table")
	require.NoError(t, err, "store rejections are payload, not errors")
	assert.NotEmpty(t, res.Error)

	entries, err := fx.history.List(ctx, "admin", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.QueryStatusError, entries[0].Status)
}

func TestRunSQL_WriteForDataEntry(t *testing.T) {
	fx := setupQueryService(t, "", false)
	ctx := context.Background()
	entry := createUser(t, fx.users, "entry", false, domain.RoleDataEntry)

	res, err := fx.svc.RunSQL(ctx, entry, "INSERT INTO core_county (name, province) VALUES ('Shicheng', 'Jiangxi')")
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.Equal(t, []string{"Result"}, res.Columns)
	assert.Equal(t, 1, res.RowCount)
}

func TestSmartQuery_BlankRejected(t *testing.T) {
	fx := setupQueryService(t, "", true)
	admin := createUser(t, fx.users, "admin", true)

	_, err := fx.svc.SmartQuery(context.Background(), admin, "")
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestSmartQuery_NotConfiguredHalts(t *testing.T) {
	fx := setupQueryService(t, "", false)
	ctx := context.Background()
	admin := createUser(t, fx.users, "admin", true)

	out, err := fx.svc.SmartQuery(ctx, admin, "how many counties are there")
	require.NoError(t, err)
	assert.Empty(t, out.SQL)
	assert.Nil(t, out.Result, "executor must not run without SQL")
	assert.Contains(t, out.Explanation, "not configured")

	entries, err := fx.history.List(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, entries, "halted generations leave no history")
}

func TestSmartQuery_GeneratesAndExecutes(t *testing.T) {
	reply := "SQL:\nSELECT COUNT(*) AS n FROM core_county\nExplanation:\nCounts counties."
	fx := setupQueryService(t, reply, true)
	ctx := context.Background()
	analyst := createUser(t, fx.users, "analyst", false, domain.RoleAnalyst)

	out, err := fx.svc.SmartQuery(ctx, analyst, "how many counties are there")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS n FROM core_county", out.SQL)
	assert.Equal(t, "Counts counties.", out.Explanation)
	require.NotNil(t, out.Result)
	assert.Empty(t, out.Result.Error)
	assert.Equal(t, []string{"n"}, out.Result.Columns)

	entries, err := fx.history.List(ctx, "analyst", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.QuerySourceAI, entries[0].Source)
	assert.Equal(t, domain.QueryStatusOK, entries[0].Status)
}

func TestSmartQuery_GeneratedWriteGated(t *testing.T) {
	reply := "SQL:\nDELETE FROM core_county\nExplanation:\nRemoves everything."
	fx := setupQueryService(t, reply, true)
	ctx := context.Background()
	analyst := createUser(t, fx.users, "analyst", false, domain.RoleAnalyst)

	_, err := fx.svc.SmartQuery(ctx, analyst, "delete all counties")
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	entries, err := fx.history.List(ctx, "analyst", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.QueryStatusDenied, entries[0].Status)
}
