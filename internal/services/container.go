package services

import (
	"project-tracker/internal/config"
	"project-tracker/internal/logging"
)

// NewServiceContainer wires every service on top of store. timers may be nil
// when the store has no timer support.
func NewServiceContainer(cfg *config.Config, store RecordStore, timers TimerStore, logger *logging.Logger) *ServiceContainer {
	opts := ReportOptions{}
	if cfg != nil {
		opts.RecentLogLimit = cfg.Report.RecentLogLimit
		opts.FetchConcurrency = cfg.Report.FetchConcurrency
	}

	return &ServiceContainer{
		Store:            store,
		ReportingService: NewReportingService(store, opts, logger),
		TimerService:     NewTimerService(store, timers, logger),
		CatalogService:   NewCatalogService(store, cfg, logger),
		InvoiceService:   NewInvoiceService(store, logger),
	}
}
