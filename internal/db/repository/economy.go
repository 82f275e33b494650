package repository

import (
	"context"
	"database/sql"
	"errors"

	"countystats/internal/domain"
)

var _ domain.CountyEconomyRepository = (*CountyEconomyRepo)(nil)

// CountyEconomyRepo implements domain.CountyEconomyRepository using SQLite.
type CountyEconomyRepo struct {
	db *sql.DB
}

// NewCountyEconomyRepo creates a new CountyEconomyRepo.
func NewCountyEconomyRepo(db *sql.DB) *CountyEconomyRepo {
	return &CountyEconomyRepo{db: db}
}

const economyColumns = `econ_id, county_id, year, gdp_total, fiscal_revenue, per_capita_income`

func scanCountyEconomy(row interface{ Scan(...interface{}) error }) (*domain.CountyEconomy, error) {
	var rec domain.CountyEconomy
	var gdp, fiscal, income sql.NullFloat64
	if err := row.Scan(&rec.EconID, &rec.CountyID, &rec.Year, &gdp, &fiscal, &income); err != nil {
		return nil, err
	}
	rec.GDPTotal = floatPtr(gdp)
	rec.FiscalRevenue = floatPtr(fiscal)
	rec.PerCapitaIncome = floatPtr(income)
	return &rec, nil
}

// List returns all economy records ordered by county and year.
func (r *CountyEconomyRepo) List(ctx context.Context) ([]domain.CountyEconomy, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+economyColumns+` FROM core_countyeconomy ORDER BY county_id, year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CountyEconomy
	for rows.Next() {
		rec, err := scanCountyEconomy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns the record with the given ID.
func (r *CountyEconomyRepo) Get(ctx context.Context, id int64) (*domain.CountyEconomy, error) {
	rec, err := scanCountyEconomy(r.db.QueryRowContext(ctx, `SELECT `+economyColumns+` FROM core_countyeconomy WHERE econ_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("economy record %d not found", id)
	}
	return rec, err
}

// Create inserts a new record.
func (r *CountyEconomyRepo) Create(ctx context.Context, rec *domain.CountyEconomy) (*domain.CountyEconomy, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO core_countyeconomy (county_id, year, gdp_total, fiscal_revenue, per_capita_income) VALUES (?, ?, ?, ?, ?)`,
		rec.CountyID, rec.Year, nullableFloat(rec.GDPTotal), nullableFloat(rec.FiscalRevenue), nullableFloat(rec.PerCapitaIncome))
	if err != nil {
		return nil, mapDBError(err, "economy record for county %d year %d already exists", rec.CountyID, rec.Year)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update replaces the record's mutable fields.
func (r *CountyEconomyRepo) Update(ctx context.Context, rec *domain.CountyEconomy) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE core_countyeconomy SET county_id = ?, year = ?, gdp_total = ?, fiscal_revenue = ?, per_capita_income = ? WHERE econ_id = ?`,
		rec.CountyID, rec.Year, nullableFloat(rec.GDPTotal), nullableFloat(rec.FiscalRevenue), nullableFloat(rec.PerCapitaIncome), rec.EconID)
	if err != nil {
		return mapDBError(err, "economy record for county %d year %d already exists", rec.CountyID, rec.Year)
	}
	return requireRowAffected(res, "economy record %d not found", rec.EconID)
}

// Upsert inserts or updates by (county_id, year).
func (r *CountyEconomyRepo) Upsert(ctx context.Context, rec *domain.CountyEconomy) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO core_countyeconomy (county_id, year, gdp_total, fiscal_revenue, per_capita_income)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (county_id, year) DO UPDATE SET
		   gdp_total = excluded.gdp_total,
		   fiscal_revenue = excluded.fiscal_revenue,
		   per_capita_income = excluded.per_capita_income`,
		rec.CountyID, rec.Year, nullableFloat(rec.GDPTotal), nullableFloat(rec.FiscalRevenue), nullableFloat(rec.PerCapitaIncome))
	return err
}
