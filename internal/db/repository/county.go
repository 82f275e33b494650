package repository

import (
	"context"
	"database/sql"
	"errors"

	"countystats/internal/domain"
)

var _ domain.CountyRepository = (*CountyRepo)(nil)

// CountyRepo implements domain.CountyRepository using SQLite.
type CountyRepo struct {
	db *sql.DB
}

// NewCountyRepo creates a new CountyRepo.
func NewCountyRepo(db *sql.DB) *CountyRepo {
	return &CountyRepo{db: db}
}

const countyColumns = `county_id, name, province, city`

func scanCounty(row interface{ Scan(...interface{}) error }) (*domain.County, error) {
	var c domain.County
	var city sql.NullString
	if err := row.Scan(&c.CountyID, &c.Name, &c.Province, &city); err != nil {
		return nil, err
	}
	c.City = stringPtr(city)
	return &c, nil
}

// List returns all counties ordered by ID.
func (r *CountyRepo) List(ctx context.Context) ([]domain.County, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+countyColumns+` FROM core_county ORDER BY county_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.County
	for rows.Next() {
		c, err := scanCounty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Get returns the county with the given ID.
func (r *CountyRepo) Get(ctx context.Context, id int64) (*domain.County, error) {
	c, err := scanCounty(r.db.QueryRowContext(ctx, `SELECT `+countyColumns+` FROM core_county WHERE county_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("county %d not found", id)
	}
	return c, err
}

// Create inserts a new county.
func (r *CountyRepo) Create(ctx context.Context, c *domain.County) (*domain.County, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO core_county (name, province, city) VALUES (?, ?, ?)`,
		c.Name, c.Province, nullableString(c.City))
	if err != nil {
		return nil, mapDBError(err, "county %q in %q already exists", c.Name, c.Province)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update replaces the county's mutable fields.
func (r *CountyRepo) Update(ctx context.Context, c *domain.County) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE core_county SET name = ?, province = ?, city = ? WHERE county_id = ?`,
		c.Name, c.Province, nullableString(c.City), c.CountyID)
	if err != nil {
		return mapDBError(err, "county %q in %q already exists", c.Name, c.Province)
	}
	return requireRowAffected(res, "county %d not found", c.CountyID)
}

// Upsert inserts or updates by explicit county_id (CSV bulk load).
func (r *CountyRepo) Upsert(ctx context.Context, c *domain.County) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO core_county (county_id, name, province, city) VALUES (?, ?, ?, ?)
		 ON CONFLICT (county_id) DO UPDATE SET
		   name = excluded.name,
		   province = excluded.province,
		   city = excluded.city`,
		c.CountyID, c.Name, c.Province, nullableString(c.City))
	return err
}
