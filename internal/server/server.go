package server

import (
	"context"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-tool-keeper/internal/config"
	"github.com/MKhiriev/go-tool-keeper/internal/handler"
	"github.com/MKhiriev/go-tool-keeper/internal/logger"
	"github.com/MKhiriev/go-tool-keeper/internal/workers"
)

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer

	// workers run alongside the transports; the gRPC health watcher is
	// added automatically.
	workers *workers.Workers
	extra   []workers.Worker

	// closers are closed in order after the transports and workers stop.
	closers []io.Closer

	shutdownOnce sync.Once
	logger       *logger.Logger
}

// Option customises a server built by NewServer.
type Option func(*server)

// WithWorkers runs ws for the lifetime of the server.
func WithWorkers(ws ...workers.Worker) Option {
	return func(s *server) { s.extra = append(s.extra, ws...) }
}

// WithClosers releases cs after shutdown, e.g. the broker and the database.
func WithClosers(cs ...io.Closer) Option {
	return func(s *server) { s.closers = append(s.closers, cs...) }
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger, opts ...Option) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{logger: logger}
	for _, opt := range opts {
		opt(servers)
	}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		grpcSrv, err := newGRPCServer(handlers.GRPC, cfg, logger)
		if err != nil {
			return nil, err
		}
		servers.gRPCServer = grpcSrv
		servers.extra = append(servers.extra, handlers.GRPC)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.workers = workers.NewWorkers(logger, servers.extra...)

	return servers, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := s.Serve(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error running server")
	}
}

func (s *server) Shutdown() {
	s.shutdownOnce.Do(func() {
		// finish HTTP server
		if s.httpServer != nil {
			s.httpServer.Shutdown()
		}

		// finish gRPC server
		if s.gRPCServer != nil {
			s.gRPCServer.Shutdown()
		}

		s.workers.Stop()

		for _, c := range s.closers {
			if err := c.Close(); err != nil {
				s.logger.Error().Err(err).Msg("error releasing server resource")
			}
		}
	})
}

func (s *server) Serve(ctx context.Context) error {
	// check if any server was created
	if s.httpServer == nil && s.gRPCServer == nil {
		return errNoServersToRun
	}

	s.workers.Start(ctx)

	// launch all created servers
	if s.httpServer != nil {
		s.logger.Info().Str("addr", s.httpServer.server.Addr).Msg("Launching HTTP server")
		go s.httpServer.RunServer()
	}
	if s.gRPCServer != nil {
		s.logger.Info().Str("addr", s.gRPCServer.gRPCNetListener.Addr().String()).Msg("Launching GRPC server")
		go s.gRPCServer.RunServer()
	}

	<-ctx.Done()

	// finish started servers
	s.Shutdown()
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
