package factory

import (
	"github.com/mikey/gmail-filter-agent/internal/adapters/export"
	"github.com/mikey/gmail-filter-agent/internal/config"
	"github.com/mikey/gmail-filter-agent/internal/core"
	"go.uber.org/zap"
)

// ExporterFactory creates email exporters
type ExporterFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewExporterFactory creates a new exporter factory
func NewExporterFactory(cfg *config.Config, logger *zap.Logger) *ExporterFactory {
	return &ExporterFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateEmailExporter creates a CSV exporter writing to the configured
// output directory
func (f *ExporterFactory) CreateEmailExporter() core.EmailExporter {
	return export.NewCSVExporter(f.cfg.GetExport().OutputDir, f.logger)
}
