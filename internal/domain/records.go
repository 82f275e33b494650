package domain

import "strings"

// County is a county master record. (name, province) is unique.
type County struct {
	CountyID int64
	Name     string
	Province string
	City     *string
}

// Validate checks that the record is well-formed.
func (c *County) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Province = strings.TrimSpace(c.Province)
	if c.Name == "" {
		return ErrValidation("county name is required")
	}
	if c.Province == "" {
		return ErrValidation("county province is required")
	}
	return nil
}

// Infrastructure holds per-county, per-year infrastructure coverage figures.
type Infrastructure struct {
	InfraID                   int64
	CountyID                  int64
	Year                      int
	PctVillageWithHardRoad    *float64
	PctVillageWithElectricity *float64
	BroadbandCoverage         *float64
	WaterSupplyCoverage       *float64
	SanitationCoverage        *float64
}

// Validate checks that the record is well-formed.
func (r *Infrastructure) Validate() error {
	if r.CountyID == 0 {
		return ErrValidation("county id is required")
	}
	if r.Year <= 0 {
		return ErrValidation("year must be positive")
	}
	return nil
}

// AgricultureSale holds per-county, per-year agriculture sales figures.
type AgricultureSale struct {
	SaleID      int64
	CountyID    int64
	Year        int
	ProductType *string
	SalesVolume *float64
	SalesValue  *float64
}

// Validate checks that the record is well-formed.
func (r *AgricultureSale) Validate() error {
	if r.CountyID == 0 {
		return ErrValidation("county id is required")
	}
	if r.Year <= 0 {
		return ErrValidation("year must be positive")
	}
	return nil
}

// CountyEconomy holds per-county, per-year economic indicators.
// (county, year) is unique.
type CountyEconomy struct {
	EconID          int64
	CountyID        int64
	Year            int
	GDPTotal        *float64
	FiscalRevenue   *float64
	PerCapitaIncome *float64
}

// Validate checks that the record is well-formed.
func (r *CountyEconomy) Validate() error {
	if r.CountyID == 0 {
		return ErrValidation("county id is required")
	}
	if r.Year <= 0 {
		return ErrValidation("year must be positive")
	}
	return nil
}

// CountyDemographics holds per-county, per-year population structure figures.
type CountyDemographics struct {
	DemoID             int64
	CountyID           int64
	Year               int
	PopulationTotal    *int64
	UrbanizationRate   *float64
	UnemploymentRate   *float64
	MigrantWorkers     *int64
	SocialSecurityRate *float64
}

// Validate checks that the record is well-formed.
func (r *CountyDemographics) Validate() error {
	if r.CountyID == 0 {
		return ErrValidation("county id is required")
	}
	if r.Year <= 0 {
		return ErrValidation("year must be positive")
	}
	return nil
}

// DashboardStats holds the home-page summary figures.
type DashboardStats struct {
	CountyCount          int64
	AvgGDPTotal          float64
	TotalPopulation      int64
	AvgBroadbandCoverage float64
}
