package service

import (
	"context"

	"countystats/internal/domain"
)

// RecordService exposes CRUD on the five business tables, gated by the
// caller's effective permission on the table being touched.
type RecordService struct {
	counties    domain.CountyRepository
	infra       domain.InfrastructureRepository
	agri        domain.AgricultureSaleRepository
	economy     domain.CountyEconomyRepository
	demo        domain.CountyDemographicsRepository
	permissions *PermissionService
}

func NewRecordService(counties domain.CountyRepository, infra domain.InfrastructureRepository, agri domain.AgricultureSaleRepository, economy domain.CountyEconomyRepository, demo domain.CountyDemographicsRepository, permissions *PermissionService) *RecordService {
	return &RecordService{
		counties:    counties,
		infra:       infra,
		agri:        agri,
		economy:     economy,
		demo:        demo,
		permissions: permissions,
	}
}

func (s *RecordService) requireView(ctx context.Context, user *domain.User, table domain.TableKey) error {
	ok, err := s.permissions.CanView(ctx, user, table)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAccessDenied("no view access to %s", table.DisplayName())
	}
	return nil
}

func (s *RecordService) requireEdit(ctx context.Context, user *domain.User, table domain.TableKey) error {
	ok, err := s.permissions.CanEdit(ctx, user, table)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAccessDenied("no edit access to %s", table.DisplayName())
	}
	return nil
}

func (s *RecordService) ListCounties(ctx context.Context, user *domain.User) ([]domain.County, error) {
	if err := s.requireView(ctx, user, domain.TableCounty); err != nil {
		return nil, err
	}
	return s.counties.List(ctx)
}

func (s *RecordService) GetCounty(ctx context.Context, user *domain.User, id int64) (*domain.County, error) {
	if err := s.requireView(ctx, user, domain.TableCounty); err != nil {
		return nil, err
	}
	return s.counties.Get(ctx, id)
}

func (s *RecordService) CreateCounty(ctx context.Context, user *domain.User, c *domain.County) (*domain.County, error) {
	if err := s.requireEdit(ctx, user, domain.TableCounty); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.counties.Create(ctx, c)
}

func (s *RecordService) UpdateCounty(ctx context.Context, user *domain.User, c *domain.County) (*domain.County, error) {
	if err := s.requireEdit(ctx, user, domain.TableCounty); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.counties.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.counties.Get(ctx, c.CountyID)
}

func (s *RecordService) ListInfrastructure(ctx context.Context, user *domain.User) ([]domain.Infrastructure, error) {
	if err := s.requireView(ctx, user, domain.TableInfra); err != nil {
		return nil, err
	}
	return s.infra.List(ctx)
}

func (s *RecordService) GetInfrastructure(ctx context.Context, user *domain.User, id int64) (*domain.Infrastructure, error) {
	if err := s.requireView(ctx, user, domain.TableInfra); err != nil {
		return nil, err
	}
	return s.infra.Get(ctx, id)
}

func (s *RecordService) CreateInfrastructure(ctx context.Context, user *domain.User, r *domain.Infrastructure) (*domain.Infrastructure, error) {
	if err := s.requireEdit(ctx, user, domain.TableInfra); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.infra.Create(ctx, r)
}

func (s *RecordService) UpdateInfrastructure(ctx context.Context, user *domain.User, r *domain.Infrastructure) (*domain.Infrastructure, error) {
	if err := s.requireEdit(ctx, user, domain.TableInfra); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.infra.Update(ctx, r); err != nil {
		return nil, err
	}
	return s.infra.Get(ctx, r.InfraID)
}

func (s *RecordService) ListAgricultureSales(ctx context.Context, user *domain.User) ([]domain.AgricultureSale, error) {
	if err := s.requireView(ctx, user, domain.TableAgri); err != nil {
		return nil, err
	}
	return s.agri.List(ctx)
}

func (s *RecordService) GetAgricultureSale(ctx context.Context, user *domain.User, id int64) (*domain.AgricultureSale, error) {
	if err := s.requireView(ctx, user, domain.TableAgri); err != nil {
		return nil, err
	}
	return s.agri.Get(ctx, id)
}

func (s *RecordService) CreateAgricultureSale(ctx context.Context, user *domain.User, r *domain.AgricultureSale) (*domain.AgricultureSale, error) {
	if err := s.requireEdit(ctx, user, domain.TableAgri); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.agri.Create(ctx, r)
}

func (s *RecordService) UpdateAgricultureSale(ctx context.Context, user *domain.User, r *domain.AgricultureSale) (*domain.AgricultureSale, error) {
	if err := s.requireEdit(ctx, user, domain.TableAgri); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.agri.Update(ctx, r); err != nil {
		return nil, err
	}
	return s.agri.Get(ctx, r.SaleID)
}

func (s *RecordService) ListEconomy(ctx context.Context, user *domain.User) ([]domain.CountyEconomy, error) {
	if err := s.requireView(ctx, user, domain.TableEconomy); err != nil {
		return nil, err
	}
	return s.economy.List(ctx)
}

func (s *RecordService) GetEconomy(ctx context.Context, user *domain.User, id int64) (*domain.CountyEconomy, error) {
	if err := s.requireView(ctx, user, domain.TableEconomy); err != nil {
		return nil, err
	}
	return s.economy.Get(ctx, id)
}

func (s *RecordService) CreateEconomy(ctx context.Context, user *domain.User, r *domain.CountyEconomy) (*domain.CountyEconomy, error) {
	if err := s.requireEdit(ctx, user, domain.TableEconomy); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.economy.Create(ctx, r)
}

func (s *RecordService) UpdateEconomy(ctx context.Context, user *domain.User, r *domain.CountyEconomy) (*domain.CountyEconomy, error) {
	if err := s.requireEdit(ctx, user, domain.TableEconomy); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.economy.Update(ctx, r); err != nil {
		return nil, err
	}
	return s.economy.Get(ctx, r.EconID)
}

func (s *RecordService) ListDemographics(ctx context.Context, user *domain.User) ([]domain.CountyDemographics, error) {
	if err := s.requireView(ctx, user, domain.TableDemo); err != nil {
		return nil, err
	}
	return s.demo.List(ctx)
}

func (s *RecordService) GetDemographics(ctx context.Context, user *domain.User, id int64) (*domain.CountyDemographics, error) {
	if err := s.requireView(ctx, user, domain.TableDemo); err != nil {
		return nil, err
	}
	return s.demo.Get(ctx, id)
}

func (s *RecordService) CreateDemographics(ctx context.Context, user *domain.User, r *domain.CountyDemographics) (*domain.CountyDemographics, error) {
	if err := s.requireEdit(ctx, user, domain.TableDemo); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.demo.Create(ctx, r)
}

func (s *RecordService) UpdateDemographics(ctx context.Context, user *domain.User, r *domain.CountyDemographics) (*domain.CountyDemographics, error) {
	if err := s.requireEdit(ctx, user, domain.TableDemo); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.demo.Update(ctx, r); err != nil {
		return nil, err
	}
	return s.demo.Get(ctx, r.DemoID)
}
