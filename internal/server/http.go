package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/MKhiriev/go-life-keeper/internal/config"
	"github.com/MKhiriev/go-life-keeper/internal/logger"
)

type httpServer struct {
	server *http.Server

	listen func() (net.Listener, error)
	logger *logger.Logger
}

// newHTTPServer allows writes to run for the longest long poll on top of the
// regular request timeout.
func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           handler,
		ReadHeaderTimeout: cfg.RequestTimeout,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + cfg.MaxPollWait,
	}

	return &httpServer{
		server: srv,
		listen: func() (net.Listener, error) { return net.Listen("tcp", srv.Addr) },
		logger: logger.WithComponent("http"),
	}
}

func (h *httpServer) RunServer(_ context.Context) error {
	lis, err := h.listen()
	if err != nil {
		return err
	}

	h.logger.Info().Str("address", lis.Addr().String()).Msg("HTTP server listening")
	if err = h.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *httpServer) Shutdown(ctx context.Context) error {
	h.logger.Info().Msg("HTTP server Shutdown")
	return h.server.Shutdown(ctx)
}
