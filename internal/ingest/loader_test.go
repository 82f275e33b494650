package ingest

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "countystats/internal/db"
	"countystats/internal/db/repository"
	"countystats/internal/domain"
)

func setupLoader(t *testing.T) (*Loader, *repository.CountyRepo, *repository.CountyEconomyRepo) {
	t.Helper()
	db, _ := internaldb.OpenTestSQLite(t)
	counties := repository.NewCountyRepo(db)
	infra := repository.NewInfrastructureRepo(db)
	agri := repository.NewAgricultureSaleRepo(db)
	economy := repository.NewCountyEconomyRepo(db)
	demo := repository.NewCountyDemographicsRepo(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewLoader(counties, infra, agri, economy, demo, logger), counties, economy
}

const countyCSV = `county_id,name,province,city
1,Anyuan,Jiangxi,Ganzhou
2,Xunwu,Jiangxi,
3,Ruijin,Jiangxi,Ganzhou
`

func TestLoader_Counties(t *testing.T) {
	loader, counties, _ := setupLoader(t)
	ctx := context.Background()

	n, err := loader.Load(ctx, domain.TableCounty, strings.NewReader(countyCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := counties.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Anyuan", list[0].Name)
	assert.Nil(t, list[1].City, "blank cells load as NULL")
}

func TestLoader_ReloadIsIdempotent(t *testing.T) {
	loader, counties, _ := setupLoader(t)
	ctx := context.Background()

	_, err := loader.Load(ctx, domain.TableCounty, strings.NewReader(countyCSV))
	require.NoError(t, err)
	_, err = loader.Load(ctx, domain.TableCounty, strings.NewReader(countyCSV))
	require.NoError(t, err)

	list, err := counties.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3, "reload must update, not duplicate")
}

func TestLoader_EconomyUpdatesOnReload(t *testing.T) {
	loader, _, economy := setupLoader(t)
	ctx := context.Background()

	_, err := loader.Load(ctx, domain.TableCounty, strings.NewReader(countyCSV))
	require.NoError(t, err)

	first := `county_id,year,gdp_total,fiscal_revenue,per_capita_income
1,2023,100.5,20.1,15000
`
	_, err = loader.Load(ctx, domain.TableEconomy, strings.NewReader(first))
	require.NoError(t, err)

	second := `county_id,year,gdp_total,fiscal_revenue,per_capita_income
1,2023,110.0,,15500
`
	_, err = loader.Load(ctx, domain.TableEconomy, strings.NewReader(second))
	require.NoError(t, err)

	list, err := economy.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].GDPTotal)
	assert.Equal(t, 110.0, *list[0].GDPTotal)
	assert.Nil(t, list[0].FiscalRevenue)
}

func TestLoader_UnknownTable(t *testing.T) {
	loader, _, _ := setupLoader(t)

	_, err := loader.Load(context.Background(), domain.TableKey("bogus"), strings.NewReader("a\n1\n"))
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestLoader_InvalidRowStops(t *testing.T) {
	loader, _, _ := setupLoader(t)

	bad := `county_id,name,province
1,,Jiangxi
`
	n, err := loader.Load(context.Background(), domain.TableCounty, strings.NewReader(bad))
	assert.Error(t, err)
	assert.Zero(t, n)
}
