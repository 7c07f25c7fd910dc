package server

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/handler"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := new(server)

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	servers.logger = logger

	return servers, nil
}

// RunServer runs every created server until ctx is cancelled, a stop signal
// arrives or one of the servers fails; then all of them are shut down.
func (s *server) RunServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range s.servers() {
		g.Go(func() error {
			return srv.RunServer(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	var errs []error
	for _, srv := range s.servers() {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *server) servers() []Server {
	list := make([]Server, 0, 2)
	if s.httpServer != nil {
		list = append(list, s.httpServer)
	}
	if s.gRPCServer != nil {
		list = append(list, s.gRPCServer)
	}
	return list
}
