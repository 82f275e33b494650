package repository

import (
	"context"
	"database/sql"

	"countystats/internal/domain"
)

var _ domain.StatsRepository = (*StatsRepo)(nil)

// StatsRepo computes the dashboard aggregates using SQLite.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Dashboard returns the home-page summary figures.
func (r *StatsRepo) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM core_county`).Scan(&stats.CountyCount); err != nil {
		return nil, err
	}

	var avgGDP sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, `SELECT AVG(gdp_total) FROM core_countyeconomy`).Scan(&avgGDP); err != nil {
		return nil, err
	}
	stats.AvgGDPTotal = avgGDP.Float64

	var population sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT SUM(population_total) FROM core_countydemographics`).Scan(&population); err != nil {
		return nil, err
	}
	stats.TotalPopulation = population.Int64

	var broadband sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, `SELECT AVG(broadband_coverage) FROM core_infrastructureservice`).Scan(&broadband); err != nil {
		return nil, err
	}
	stats.AvgBroadbandCoverage = broadband.Float64

	return &stats, nil
}
