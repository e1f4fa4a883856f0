package service

import (
	"context"

	"github.com/MKhiriev/go-tool-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type TableService interface {
	Insert(ctx context.Context, table string, record models.Record) (models.Record, error)
	Update(ctx context.Context, table, id string, record models.Record) (models.Record, error)
	Delete(ctx context.Context, table, id string) error
	Select(ctx context.Context, req models.SelectRequest) ([]models.Record, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, login string, req models.PaymentRequest) (models.PaymentResponse, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type AppInfoService interface {
	Version(ctx context.Context) models.VersionResponse
	// Health reports degraded when the database does not answer.
	Health(ctx context.Context) models.HealthReport
}
