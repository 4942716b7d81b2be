// Package httpapi exposes the gateway over HTTP: XML request and response
// endpoints on the NPCI side, binary ISO endpoints on the switch side.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// Gateway is the orchestrator surface the HTTP layer drives.
type Gateway interface {
	HandleNPCIRequest(ctx context.Context, family npci.Family, raw []byte) (npci.Ack, error)
	HandleNPCIResponse(ctx context.Context, family npci.Family, raw []byte) error
	HandleSwitchRequest(ctx context.Context, raw []byte) error
	HandleSwitchResponse(ctx context.Context, raw []byte) error
}

// Server hosts the gateway endpoints.
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
}

// New builds a Server listening on addr.
func New(addr string, gw Gateway, logger zerolog.Logger) (*Server, error) {
	if addr == "" {
		return nil, errors.New("httpapi: listen address is required")
	}
	if gw == nil {
		return nil, errors.New("httpapi: gateway is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	logger = logger.With().Str("component", "http_server").Logger()

	h := &handler{gateway: gw, logger: logger, now: time.Now}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	router.HandleFunc("/npci/{family}/resp/{txnId}", h.npciResponse).Methods(http.MethodPost)
	router.HandleFunc("/npci/{family}/{txnId}", h.npciRequest).Methods(http.MethodPost)
	router.HandleFunc("/switch/{family}/resp/{txnId}", h.switchResponse).Methods(http.MethodPost)
	router.HandleFunc("/switch/{family}/{txnId}", h.switchRequest).Methods(http.MethodPost)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}, nil
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpapi: serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("httpapi: shutdown: %w", err)
	}
	return nil
}
