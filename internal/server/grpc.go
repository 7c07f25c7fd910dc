package server

import (
	"context"
	"errors"
	"net"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	myGRPC "github.com/MKhiriev/go-life-keeper/internal/handler/grpc"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

type grpcServer struct {
	handler *myGRPC.Handler
	server  *grpc.Server

	listen func() (net.Listener, error)
	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer(grpc.UnaryInterceptor(handler.LoggingInterceptor))
	handler.Register(server)

	return &grpcServer{
		handler: handler,
		server:  server,
		listen:  func() (net.Listener, error) { return net.Listen("tcp", cfg.GRPCAddress) },
		logger:  logger.WithComponent("grpc"),
	}
}

func (g *grpcServer) RunServer(_ context.Context) error {
	lis, err := g.listen()
	if err != nil {
		return err
	}

	g.logger.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")
	if err = g.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Shutdown reports NOT_SERVING first, then drains in-flight calls. If ctx
// expires before the drain completes, the server is stopped hard.
func (g *grpcServer) Shutdown(ctx context.Context) error {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return ctx.Err()
	}
}
