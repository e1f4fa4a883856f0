package http

import (
	"net/http"

	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
)

type Handler struct {
	services *service.Services

	// realtime serves /api/realtime; nil disables the endpoint.
	realtime http.Handler

	logger *logger.Logger
}

func NewHandler(services *service.Services, realtime http.Handler, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		realtime: realtime,
		logger:   logger,
	}
}
