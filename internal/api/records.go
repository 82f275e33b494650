package api

import (
	"net/http"

	"countystats/internal/domain"
)

type countyPayload struct {
	CountyID int64   `json:"county_id,omitempty"`
	Name     string  `json:"name"`
	Province string  `json:"province"`
	City     *string `json:"city"`
}

func toCountyPayload(c *domain.County) countyPayload {
	return countyPayload{CountyID: c.CountyID, Name: c.Name, Province: c.Province, City: c.City}
}

func (h *Handler) handleListCounties(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.ListCounties(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]countyPayload, 0, len(records))
	for i := range records {
		out = append(out, toCountyPayload(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCounty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.GetCounty(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCountyPayload(record))
}

func (h *Handler) handleCreateCounty(w http.ResponseWriter, r *http.Request) {
	var req countyPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.CreateCounty(r.Context(), currentUser(r), &domain.County{
		Name:     req.Name,
		Province: req.Province,
		City:     req.City,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCountyPayload(record))
}

func (h *Handler) handleUpdateCounty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req countyPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.UpdateCounty(r.Context(), currentUser(r), &domain.County{
		CountyID: id,
		Name:     req.Name,
		Province: req.Province,
		City:     req.City,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCountyPayload(record))
}

type infrastructurePayload struct {
	InfraID                   int64    `json:"infra_id,omitempty"`
	CountyID                  int64    `json:"county_id"`
	Year                      int      `json:"year"`
	PctVillageWithHardRoad    *float64 `json:"pct_village_with_hard_road"`
	PctVillageWithElectricity *float64 `json:"pct_village_with_electricity"`
	BroadbandCoverage         *float64 `json:"broadband_coverage"`
	WaterSupplyCoverage       *float64 `json:"water_supply_coverage"`
	SanitationCoverage        *float64 `json:"sanitation_coverage"`
}

func toInfrastructurePayload(rec *domain.Infrastructure) infrastructurePayload {
	return infrastructurePayload{
		InfraID:                   rec.InfraID,
		CountyID:                  rec.CountyID,
		Year:                      rec.Year,
		PctVillageWithHardRoad:    rec.PctVillageWithHardRoad,
		PctVillageWithElectricity: rec.PctVillageWithElectricity,
		BroadbandCoverage:         rec.BroadbandCoverage,
		WaterSupplyCoverage:       rec.WaterSupplyCoverage,
		SanitationCoverage:        rec.SanitationCoverage,
	}
}

func (p *infrastructurePayload) toDomain(id int64) *domain.Infrastructure {
	return &domain.Infrastructure{
		InfraID:                   id,
		CountyID:                  p.CountyID,
		Year:                      p.Year,
		PctVillageWithHardRoad:    p.PctVillageWithHardRoad,
		PctVillageWithElectricity: p.PctVillageWithElectricity,
		BroadbandCoverage:         p.BroadbandCoverage,
		WaterSupplyCoverage:       p.WaterSupplyCoverage,
		SanitationCoverage:        p.SanitationCoverage,
	}
}

func (h *Handler) handleListInfrastructure(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.ListInfrastructure(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]infrastructurePayload, 0, len(records))
	for i := range records {
		out = append(out, toInfrastructurePayload(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetInfrastructure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.GetInfrastructure(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInfrastructurePayload(record))
}

func (h *Handler) handleCreateInfrastructure(w http.ResponseWriter, r *http.Request) {
	var req infrastructurePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.CreateInfrastructure(r.Context(), currentUser(r), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInfrastructurePayload(record))
}

func (h *Handler) handleUpdateInfrastructure(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req infrastructurePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.UpdateInfrastructure(r.Context(), currentUser(r), req.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInfrastructurePayload(record))
}

type agricultureSalePayload struct {
	SaleID      int64    `json:"sale_id,omitempty"`
	CountyID    int64    `json:"county_id"`
	Year        int      `json:"year"`
	ProductType *string  `json:"product_type"`
	SalesVolume *float64 `json:"sales_volume"`
	SalesValue  *float64 `json:"sales_value"`
}

func toAgricultureSalePayload(rec *domain.AgricultureSale) agricultureSalePayload {
	return agricultureSalePayload{
		SaleID:      rec.SaleID,
		CountyID:    rec.CountyID,
		Year:        rec.Year,
		ProductType: rec.ProductType,
		SalesVolume: rec.SalesVolume,
		SalesValue:  rec.SalesValue,
	}
}

func (p *agricultureSalePayload) toDomain(id int64) *domain.AgricultureSale {
	return &domain.AgricultureSale{
		SaleID:      id,
		CountyID:    p.CountyID,
		Year:        p.Year,
		ProductType: p.ProductType,
		SalesVolume: p.SalesVolume,
		SalesValue:  p.SalesValue,
	}
}

func (h *Handler) handleListAgricultureSales(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.ListAgricultureSales(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]agricultureSalePayload, 0, len(records))
	for i := range records {
		out = append(out, toAgricultureSalePayload(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetAgricultureSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.GetAgricultureSale(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgricultureSalePayload(record))
}

func (h *Handler) handleCreateAgricultureSale(w http.ResponseWriter, r *http.Request) {
	var req agricultureSalePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.CreateAgricultureSale(r.Context(), currentUser(r), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAgricultureSalePayload(record))
}

func (h *Handler) handleUpdateAgricultureSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req agricultureSalePayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.UpdateAgricultureSale(r.Context(), currentUser(r), req.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgricultureSalePayload(record))
}

type economyPayload struct {
	EconID          int64    `json:"econ_id,omitempty"`
	CountyID        int64    `json:"county_id"`
	Year            int      `json:"year"`
	GDPTotal        *float64 `json:"gdp_total"`
	FiscalRevenue   *float64 `json:"fiscal_revenue"`
	PerCapitaIncome *float64 `json:"per_capita_income"`
}

func toEconomyPayload(rec *domain.CountyEconomy) economyPayload {
	return economyPayload{
		EconID:          rec.EconID,
		CountyID:        rec.CountyID,
		Year:            rec.Year,
		GDPTotal:        rec.GDPTotal,
		FiscalRevenue:   rec.FiscalRevenue,
		PerCapitaIncome: rec.PerCapitaIncome,
	}
}

func (p *economyPayload) toDomain(id int64) *domain.CountyEconomy {
	return &domain.CountyEconomy{
		EconID:          id,
		CountyID:        p.CountyID,
		Year:            p.Year,
		GDPTotal:        p.GDPTotal,
		FiscalRevenue:   p.FiscalRevenue,
		PerCapitaIncome: p.PerCapitaIncome,
	}
}

func (h *Handler) handleListEconomy(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.ListEconomy(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]economyPayload, 0, len(records))
	for i := range records {
		out = append(out, toEconomyPayload(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetEconomy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.GetEconomy(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEconomyPayload(record))
}

func (h *Handler) handleCreateEconomy(w http.ResponseWriter, r *http.Request) {
	var req economyPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.CreateEconomy(r.Context(), currentUser(r), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEconomyPayload(record))
}

func (h *Handler) handleUpdateEconomy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req economyPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.UpdateEconomy(r.Context(), currentUser(r), req.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEconomyPayload(record))
}

type demographicsPayload struct {
	DemoID             int64    `json:"demo_id,omitempty"`
	CountyID           int64    `json:"county_id"`
	Year               int      `json:"year"`
	PopulationTotal    *int64   `json:"population_total"`
	UrbanizationRate   *float64 `json:"urbanization_rate"`
	UnemploymentRate   *float64 `json:"unemployment_rate"`
	MigrantWorkers     *int64   `json:"migrant_workers"`
	SocialSecurityRate *float64 `json:"social_security_rate"`
}

func toDemographicsPayload(rec *domain.CountyDemographics) demographicsPayload {
	return demographicsPayload{
		DemoID:             rec.DemoID,
		CountyID:           rec.CountyID,
		Year:               rec.Year,
		PopulationTotal:    rec.PopulationTotal,
		UrbanizationRate:   rec.UrbanizationRate,
		UnemploymentRate:   rec.UnemploymentRate,
		MigrantWorkers:     rec.MigrantWorkers,
		SocialSecurityRate: rec.SocialSecurityRate,
	}
}

func (p *demographicsPayload) toDomain(id int64) *domain.CountyDemographics {
	return &domain.CountyDemographics{
		DemoID:             id,
		CountyID:           p.CountyID,
		Year:               p.Year,
		PopulationTotal:    p.PopulationTotal,
		UrbanizationRate:   p.UrbanizationRate,
		UnemploymentRate:   p.UnemploymentRate,
		MigrantWorkers:     p.MigrantWorkers,
		SocialSecurityRate: p.SocialSecurityRate,
	}
}

func (h *Handler) handleListDemographics(w http.ResponseWriter, r *http.Request) {
	records, err := h.records.ListDemographics(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]demographicsPayload, 0, len(records))
	for i := range records {
		out = append(out, toDemographicsPayload(&records[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetDemographics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.GetDemographics(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDemographicsPayload(record))
}

func (h *Handler) handleCreateDemographics(w http.ResponseWriter, r *http.Request) {
	var req demographicsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.CreateDemographics(r.Context(), currentUser(r), req.toDomain(0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDemographicsPayload(record))
}

func (h *Handler) handleUpdateDemographics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req demographicsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.records.UpdateDemographics(r.Context(), currentUser(r), req.toDomain(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDemographicsPayload(record))
}
