package repository

import (
	"context"
	"database/sql"
	"errors"

	"countystats/internal/domain"
)

var _ domain.CountyDemographicsRepository = (*CountyDemographicsRepo)(nil)

// CountyDemographicsRepo implements domain.CountyDemographicsRepository using SQLite.
type CountyDemographicsRepo struct {
	db *sql.DB
}

// NewCountyDemographicsRepo creates a new CountyDemographicsRepo.
func NewCountyDemographicsRepo(db *sql.DB) *CountyDemographicsRepo {
	return &CountyDemographicsRepo{db: db}
}

const demoColumns = `demo_id, county_id, year, population_total, urbanization_rate, unemployment_rate, migrant_workers, social_security_rate`

func scanCountyDemographics(row interface{ Scan(...interface{}) error }) (*domain.CountyDemographics, error) {
	var rec domain.CountyDemographics
	var population, migrants sql.NullInt64
	var urbanization, unemployment, socialSecurity sql.NullFloat64
	if err := row.Scan(&rec.DemoID, &rec.CountyID, &rec.Year, &population, &urbanization, &unemployment, &migrants, &socialSecurity); err != nil {
		return nil, err
	}
	rec.PopulationTotal = intPtr(population)
	rec.UrbanizationRate = floatPtr(urbanization)
	rec.UnemploymentRate = floatPtr(unemployment)
	rec.MigrantWorkers = intPtr(migrants)
	rec.SocialSecurityRate = floatPtr(socialSecurity)
	return &rec, nil
}

// List returns all demographics records ordered by county and year.
func (r *CountyDemographicsRepo) List(ctx context.Context) ([]domain.CountyDemographics, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+demoColumns+` FROM core_countydemographics ORDER BY county_id, year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CountyDemographics
	for rows.Next() {
		rec, err := scanCountyDemographics(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns the record with the given ID.
func (r *CountyDemographicsRepo) Get(ctx context.Context, id int64) (*domain.CountyDemographics, error) {
	rec, err := scanCountyDemographics(r.db.QueryRowContext(ctx, `SELECT `+demoColumns+` FROM core_countydemographics WHERE demo_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("demographics record %d not found", id)
	}
	return rec, err
}

// Create inserts a new record.
func (r *CountyDemographicsRepo) Create(ctx context.Context, rec *domain.CountyDemographics) (*domain.CountyDemographics, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO core_countydemographics (county_id, year, population_total, urbanization_rate, unemployment_rate, migrant_workers, social_security_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.CountyID, rec.Year,
		nullableInt(rec.PopulationTotal), nullableFloat(rec.UrbanizationRate), nullableFloat(rec.UnemploymentRate),
		nullableInt(rec.MigrantWorkers), nullableFloat(rec.SocialSecurityRate))
	if err != nil {
		return nil, mapDBError(err, "demographics record for county %d year %d already exists", rec.CountyID, rec.Year)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update replaces the record's mutable fields.
func (r *CountyDemographicsRepo) Update(ctx context.Context, rec *domain.CountyDemographics) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE core_countydemographics SET county_id = ?, year = ?, population_total = ?, urbanization_rate = ?, unemployment_rate = ?, migrant_workers = ?, social_security_rate = ?
		 WHERE demo_id = ?`,
		rec.CountyID, rec.Year,
		nullableInt(rec.PopulationTotal), nullableFloat(rec.UrbanizationRate), nullableFloat(rec.UnemploymentRate),
		nullableInt(rec.MigrantWorkers), nullableFloat(rec.SocialSecurityRate),
		rec.DemoID)
	if err != nil {
		return mapDBError(err, "demographics record for county %d year %d already exists", rec.CountyID, rec.Year)
	}
	return requireRowAffected(res, "demographics record %d not found", rec.DemoID)
}

// Upsert inserts or updates by (county_id, year).
func (r *CountyDemographicsRepo) Upsert(ctx context.Context, rec *domain.CountyDemographics) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO core_countydemographics (county_id, year, population_total, urbanization_rate, unemployment_rate, migrant_workers, social_security_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (county_id, year) DO UPDATE SET
		   population_total = excluded.population_total,
		   urbanization_rate = excluded.urbanization_rate,
		   unemployment_rate = excluded.unemployment_rate,
		   migrant_workers = excluded.migrant_workers,
		   social_security_rate = excluded.social_security_rate`,
		rec.CountyID, rec.Year,
		nullableInt(rec.PopulationTotal), nullableFloat(rec.UrbanizationRate), nullableFloat(rec.UnemploymentRate),
		nullableInt(rec.MigrantWorkers), nullableFloat(rec.SocialSecurityRate))
	return err
}
