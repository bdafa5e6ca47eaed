package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
)

// StatsService is the read-only dashboard rollup. Any active member may
// read it, not just owners and managers.
type StatsService struct {
	policy     *PolicyService
	statsStore domain.StatsStore
}

func NewStatsService(policy *PolicyService, ss domain.StatsStore) *StatsService {
	return &StatsService{policy: policy, statsStore: ss}
}

func (s *StatsService) Get(ctx context.Context, callerID, tenantID uuid.UUID) (*domain.DashboardStats, error) {
	tenant, err := s.policy.AuthorizeTenant(ctx, callerID, tenantID, domain.ActionViewDashboard)
	if err != nil {
		return nil, err
	}

	series, err := s.statsStore.RevenueSeries(ctx, tenantID, tenant.Category)
	if err != nil {
		return nil, err
	}
	customers, err := s.statsStore.CustomerCount(ctx, tenantID, tenant.Category)
	if err != nil {
		return nil, err
	}

	if series == nil {
		series = []domain.RevenuePoint{}
	}
	return &domain.DashboardStats{
		RevenueSeries: series,
		CustomerCount: customers,
	}, nil
}
