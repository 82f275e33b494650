package repository

import (
	"context"
	"database/sql"
	"errors"

	"countystats/internal/domain"
)

var _ domain.AgricultureSaleRepository = (*AgricultureSaleRepo)(nil)

// AgricultureSaleRepo implements domain.AgricultureSaleRepository using SQLite.
type AgricultureSaleRepo struct {
	db *sql.DB
}

// NewAgricultureSaleRepo creates a new AgricultureSaleRepo.
func NewAgricultureSaleRepo(db *sql.DB) *AgricultureSaleRepo {
	return &AgricultureSaleRepo{db: db}
}

const agriColumns = `sale_id, county_id, year, product_type, sales_volume, sales_value`

func scanAgricultureSale(row interface{ Scan(...interface{}) error }) (*domain.AgricultureSale, error) {
	var rec domain.AgricultureSale
	var product sql.NullString
	var volume, value sql.NullFloat64
	if err := row.Scan(&rec.SaleID, &rec.CountyID, &rec.Year, &product, &volume, &value); err != nil {
		return nil, err
	}
	rec.ProductType = stringPtr(product)
	rec.SalesVolume = floatPtr(volume)
	rec.SalesValue = floatPtr(value)
	return &rec, nil
}

// List returns all sales records ordered by county, year and product.
func (r *AgricultureSaleRepo) List(ctx context.Context) ([]domain.AgricultureSale, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+agriColumns+` FROM core_agriculturesales ORDER BY county_id, year, product_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AgricultureSale
	for rows.Next() {
		rec, err := scanAgricultureSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Get returns the record with the given ID.
func (r *AgricultureSaleRepo) Get(ctx context.Context, id int64) (*domain.AgricultureSale, error) {
	rec, err := scanAgricultureSale(r.db.QueryRowContext(ctx, `SELECT `+agriColumns+` FROM core_agriculturesales WHERE sale_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("agriculture sale %d not found", id)
	}
	return rec, err
}

// Create inserts a new record.
func (r *AgricultureSaleRepo) Create(ctx context.Context, rec *domain.AgricultureSale) (*domain.AgricultureSale, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO core_agriculturesales (county_id, year, product_type, sales_volume, sales_value) VALUES (?, ?, ?, ?, ?)`,
		rec.CountyID, rec.Year, nullableString(rec.ProductType), nullableFloat(rec.SalesVolume), nullableFloat(rec.SalesValue))
	if err != nil {
		return nil, mapDBError(err, "agriculture sale for county %d year %d already exists", rec.CountyID, rec.Year)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update replaces the record's mutable fields.
func (r *AgricultureSaleRepo) Update(ctx context.Context, rec *domain.AgricultureSale) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE core_agriculturesales SET county_id = ?, year = ?, product_type = ?, sales_volume = ?, sales_value = ? WHERE sale_id = ?`,
		rec.CountyID, rec.Year, nullableString(rec.ProductType), nullableFloat(rec.SalesVolume), nullableFloat(rec.SalesValue), rec.SaleID)
	if err != nil {
		return mapDBError(err, "agriculture sale for county %d year %d already exists", rec.CountyID, rec.Year)
	}
	return requireRowAffected(res, "agriculture sale %d not found", rec.SaleID)
}

// Upsert inserts or updates by (county_id, year, product_type).
func (r *AgricultureSaleRepo) Upsert(ctx context.Context, rec *domain.AgricultureSale) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO core_agriculturesales (county_id, year, product_type, sales_volume, sales_value)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (county_id, year, product_type) DO UPDATE SET
		   sales_volume = excluded.sales_volume,
		   sales_value = excluded.sales_value`,
		rec.CountyID, rec.Year, nullableString(rec.ProductType), nullableFloat(rec.SalesVolume), nullableFloat(rec.SalesValue))
	return err
}
