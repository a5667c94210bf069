package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	portsrepo "github.com/SahayFarms/farm_books_app/internal/core/ports/repositories"
	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
)

// Scheduler runs the periodic background jobs. Currently that is the nightly
// consistency checks sweep over every active tenant.
type Scheduler struct {
	cron         *cron.Cron
	tenantRepo   portsrepo.TenantRepositoryFacade
	reportingSvc portssvc.ReportingSvcFacade
	logger       *slog.Logger
}

// NewScheduler creates a scheduler with second-granularity cron specs.
func NewScheduler(tenantRepo portsrepo.TenantRepositoryFacade, reportingSvc portssvc.ReportingSvcFacade, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		tenantRepo:   tenantRepo,
		reportingSvc: reportingSvc,
		logger:       logger,
	}
}

// Start registers the checks sweep under spec and starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runChecksSweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Scheduler started", slog.String("checks_cron", spec))
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// runChecksSweep runs the consistency checks for every active tenant. A
// failure for one tenant never stops the sweep.
func (s *Scheduler) runChecksSweep() {
	ctx := context.Background()

	tenants, err := s.tenantRepo.ListActiveTenants(ctx)
	if err != nil {
		s.logger.Error("Checks sweep failed to list tenants", slog.String("error", err.Error()))
		return
	}

	for _, tenant := range tenants {
		checks, err := s.reportingSvc.RunChecks(ctx, tenant.TenantID)
		if err != nil {
			s.logger.Error("Checks sweep failed for tenant",
				slog.String("tenant_id", tenant.TenantID),
				slog.String("error", err.Error()))
			continue
		}
		for _, check := range checks {
			s.logger.Info("Consistency check",
				slog.String("tenant_id", tenant.TenantID),
				slog.String("check", check.Name),
				slog.String("severity", string(check.Severity)),
				slog.String("difference", check.Difference.String()))
		}
	}
	s.logger.Info("Checks sweep complete", slog.Int("tenants", len(tenants)))
}
