// Package ingest bulk-loads business records from CSV files with
// update-or-create semantics.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"countystats/internal/domain"
)

// Loader reads CSV files and upserts rows into the business tables. Re-running
// a load with the same file leaves the store unchanged.
type Loader struct {
	counties domain.CountyRepository
	infra    domain.InfrastructureRepository
	agri     domain.AgricultureSaleRepository
	economy  domain.CountyEconomyRepository
	demo     domain.CountyDemographicsRepository
	logger   *slog.Logger
}

func NewLoader(counties domain.CountyRepository, infra domain.InfrastructureRepository, agri domain.AgricultureSaleRepository, economy domain.CountyEconomyRepository, demo domain.CountyDemographicsRepository, logger *slog.Logger) *Loader {
	return &Loader{counties: counties, infra: infra, agri: agri, economy: economy, demo: demo, logger: logger}
}

// LoadFile loads one CSV file into the named table and returns the number of
// rows applied. The first row must be a header naming the table's columns.
func (l *Loader) LoadFile(ctx context.Context, table domain.TableKey, path string) (int, error) {
	f, err := os.Open(path) //nolint:gosec // path is operator-supplied
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck

	return l.Load(ctx, table, f)
}

// Load reads CSV rows from r and upserts them into the named table.
func (l *Loader) Load(ctx context.Context, table domain.TableKey, r io.Reader) (int, error) {
	if !table.Valid() {
		return 0, domain.ErrValidation("unknown table key %q", table)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read csv row %d: %w", count+2, err)
		}
		row := &csvRow{cols: cols, values: record}
		if err := l.applyRow(ctx, table, row); err != nil {
			return count, fmt.Errorf("row %d: %w", count+2, err)
		}
		count++
	}
	l.logger.Info("csv load complete", "table", table, "rows", count)
	return count, nil
}

func (l *Loader) applyRow(ctx context.Context, table domain.TableKey, row *csvRow) error {
	switch table {
	case domain.TableCounty:
		rec := &domain.County{
			CountyID: row.int64("county_id"),
			Name:     row.str("name"),
			Province: row.str("province"),
			City:     row.strPtr("city"),
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		return l.counties.Upsert(ctx, rec)
	case domain.TableInfra:
		rec := &domain.Infrastructure{
			CountyID:                  row.int64("county_id"),
			Year:                      row.year(),
			PctVillageWithHardRoad:    row.floatPtr("pct_village_with_hard_road"),
			PctVillageWithElectricity: row.floatPtr("pct_village_with_electricity"),
			BroadbandCoverage:         row.floatPtr("broadband_coverage"),
			WaterSupplyCoverage:       row.floatPtr("water_supply_coverage"),
			SanitationCoverage:        row.floatPtr("sanitation_coverage"),
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		return l.infra.Upsert(ctx, rec)
	case domain.TableAgri:
		rec := &domain.AgricultureSale{
			CountyID:    row.int64("county_id"),
			Year:        row.year(),
			ProductType: row.strPtr("product_type"),
			SalesVolume: row.floatPtr("sales_volume"),
			SalesValue:  row.floatPtr("sales_value"),
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		return l.agri.Upsert(ctx, rec)
	case domain.TableEconomy:
		rec := &domain.CountyEconomy{
			CountyID:        row.int64("county_id"),
			Year:            row.year(),
			GDPTotal:        row.floatPtr("gdp_total"),
			FiscalRevenue:   row.floatPtr("fiscal_revenue"),
			PerCapitaIncome: row.floatPtr("per_capita_income"),
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		return l.economy.Upsert(ctx, rec)
	case domain.TableDemo:
		rec := &domain.CountyDemographics{
			CountyID:           row.int64("county_id"),
			Year:               row.year(),
			PopulationTotal:    row.int64Ptr("population_total"),
			UrbanizationRate:   row.floatPtr("urbanization_rate"),
			UnemploymentRate:   row.floatPtr("unemployment_rate"),
			MigrantWorkers:     row.int64Ptr("migrant_workers"),
			SocialSecurityRate: row.floatPtr("social_security_rate"),
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		return l.demo.Upsert(ctx, rec)
	}
	return domain.ErrValidation("unknown table key %q", table)
}

type csvRow struct {
	cols   map[string]int
	values []string
}

func (r *csvRow) raw(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r *csvRow) str(name string) string { return r.raw(name) }

func (r *csvRow) strPtr(name string) *string {
	v := r.raw(name)
	if v == "" {
		return nil
	}
	return &v
}

func (r *csvRow) int64(name string) int64 {
	n, _ := strconv.ParseInt(r.raw(name), 10, 64)
	return n
}

func (r *csvRow) year() int {
	n, _ := strconv.Atoi(r.raw("year"))
	return n
}

func (r *csvRow) int64Ptr(name string) *int64 {
	v := r.raw(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func (r *csvRow) floatPtr(name string) *float64 {
	v := r.raw(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
