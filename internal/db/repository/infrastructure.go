package repository

import (
	"context"
	"database/sql"
	"errors"

	"countystats/internal/domain"
)

var _ domain.InfrastructureRepository = (*InfrastructureRepo)(nil)

// InfrastructureRepo implements domain.InfrastructureRepository using SQLite.
type InfrastructureRepo struct {
	db *sql.DB
}

// NewInfrastructureRepo creates a new InfrastructureRepo.
func NewInfrastructureRepo(db *sql.DB) *InfrastructureRepo {
	return &InfrastructureRepo{db: db}
}

const infraColumns = `infra_id, county_id, year, pct_village_with_hard_road, pct_village_with_electricity, broadband_coverage, water_supply_coverage, sanitation_coverage`

func scanInfrastructure(row interface{ Scan(...interface{}) error }) (*domain.Infrastructure, error) {
	var rec domain.Infrastructure
	var hardRoad, electricity, broadband, water, sanitation sql.NullFloat64
	if err := row.Scan(&rec.InfraID, &rec.CountyID, &rec.Year, &hardRoad, &electricity, &broadband, &water, &sanitation); err != nil {
		return nil, err
	}
	rec.PctVillageWithHardRoad = floatPtr(hardRoad)
	rec.PctVillageWithElectricity = floatPtr(electricity)
	rec.BroadbandCoverage = floatPtr(broadband)
	rec.WaterSupplyCoverage = floatPtr(water)
	rec.SanitationCoverage = floatPtr(sanitation)
	return &rec, nil
}

// List returns all infrastructure records ordered by county and year.
func (r *InfrastructureRepo) List(ctx context.Context) ([]domain.Infrastructure, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+infraColumns+` FROM core_infrastructureservice ORDER BY county_id, year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Infrastructure
	for rows.Next() {
		rec, err := scanInfrastructure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns the record with the given ID.
func (r *InfrastructureRepo) Get(ctx context.Context, id int64) (*domain.Infrastructure, error) {
	rec, err := scanInfrastructure(r.db.QueryRowContext(ctx, `SELECT `+infraColumns+` FROM core_infrastructureservice WHERE infra_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("infrastructure record %d not found", id)
	}
	return rec, err
}

// Create inserts a new record.
func (r *InfrastructureRepo) Create(ctx context.Context, rec *domain.Infrastructure) (*domain.Infrastructure, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO core_infrastructureservice (county_id, year, pct_village_with_hard_road, pct_village_with_electricity, broadband_coverage, water_supply_coverage, sanitation_coverage)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.CountyID, rec.Year,
		nullableFloat(rec.PctVillageWithHardRoad), nullableFloat(rec.PctVillageWithElectricity),
		nullableFloat(rec.BroadbandCoverage), nullableFloat(rec.WaterSupplyCoverage), nullableFloat(rec.SanitationCoverage))
	if err != nil {
		return nil, mapDBError(err, "infrastructure record for county %d year %d already exists", rec.CountyID, rec.Year)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update replaces the record's mutable fields.
func (r *InfrastructureRepo) Update(ctx context.Context, rec *domain.Infrastructure) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE core_infrastructureservice SET county_id = ?, year = ?, pct_village_with_hard_road = ?, pct_village_with_electricity = ?, broadband_coverage = ?, water_supply_coverage = ?, sanitation_coverage = ?
		 WHERE infra_id = ?`,
		rec.CountyID, rec.Year,
		nullableFloat(rec.PctVillageWithHardRoad), nullableFloat(rec.PctVillageWithElectricity),
		nullableFloat(rec.BroadbandCoverage), nullableFloat(rec.WaterSupplyCoverage), nullableFloat(rec.SanitationCoverage),
		rec.InfraID)
	if err != nil {
		return mapDBError(err, "infrastructure record for county %d year %d already exists", rec.CountyID, rec.Year)
	}
	return requireRowAffected(res, "infrastructure record %d not found", rec.InfraID)
}

// Upsert inserts or updates by (county_id, year).
func (r *InfrastructureRepo) Upsert(ctx context.Context, rec *domain.Infrastructure) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO core_infrastructureservice (county_id, year, pct_village_with_hard_road, pct_village_with_electricity, broadband_coverage, water_supply_coverage, sanitation_coverage)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (county_id, year) DO UPDATE SET
		   pct_village_with_hard_road = excluded.pct_village_with_hard_road,
		   pct_village_with_electricity = excluded.pct_village_with_electricity,
		   broadband_coverage = excluded.broadband_coverage,
		   water_supply_coverage = excluded.water_supply_coverage,
		   sanitation_coverage = excluded.sanitation_coverage`,
		rec.CountyID, rec.Year,
		nullableFloat(rec.PctVillageWithHardRoad), nullableFloat(rec.PctVillageWithElectricity),
		nullableFloat(rec.BroadbandCoverage), nullableFloat(rec.WaterSupplyCoverage), nullableFloat(rec.SanitationCoverage))
	return err
}
