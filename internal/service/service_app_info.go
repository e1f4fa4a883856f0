package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/models"
)

const healthPingTimeout = 2 * time.Second

// Pinger checks that a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type appInfoService struct {
	build   models.AppBuildInfo
	db      Pinger
	started time.Time

	logger *logger.Logger
}

func NewAppInfoService(build models.AppBuildInfo, db Pinger, logger *logger.Logger) AppInfoService {
	return &appInfoService{
		build:   build,
		db:      db,
		started: time.Now(),
		logger:  logger,
	}
}

func (s *appInfoService) Version(ctx context.Context) models.VersionResponse {
	return models.VersionResponse{
		Version: s.build.BuildVersion(),
		Date:    s.build.BuildDate(),
		Commit:  s.build.BuildCommit(),
	}
}

func (s *appInfoService) Health(ctx context.Context) models.HealthReport {
	report := models.HealthReport{
		Status:   models.HealthOK,
		Database: models.HealthOK,
		Uptime:   time.Since(s.started).Truncate(time.Second).String(),
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := s.db.Ping(pingCtx); err != nil {
		s.logger.Warn().Err(err).Msg("database health check failed")
		report.Status = models.HealthDegraded
		report.Database = err.Error()
	}

	return report
}
