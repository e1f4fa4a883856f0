package service

import (
	"github.com/MKhiriev/go-tool-keeper/internal/broker"
	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/payment"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/models"
)

type Services struct {
	AuthService    AuthService
	TableService   TableService
	PaymentService PaymentService
	AppInfoService AppInfoService
}

// Integrations bundles the outbound dependencies of the server services.
type Integrations struct {
	Broker   broker.Broker
	Gateway  payment.Gateway
	Archiver payment.Archiver
}

func NewServices(repositories *store.Repositories, integrations Integrations, build models.AppBuildInfo, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	tableService := NewTableValidationService().
		Wrap(NewTableService(repositories.Tables, integrations.Broker, logger))

	return &Services{
		AuthService:    NewAuthService(repositories.Users, cfg.App, logger),
		TableService:   tableService,
		PaymentService: NewPaymentService(repositories.Subscriptions, integrations.Gateway, integrations.Archiver, cfg.Payments, logger),
		AppInfoService: NewAppInfoService(build, repositories, logger),
	}
}
