package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apiplan "studyplan/api/plan"
	"studyplan/config"
	coremetrics "studyplan/core/metrics"
	"studyplan/infra/logger"
	"studyplan/infra/metrics"
	"studyplan/infra/store"
	"studyplan/internal/eventbus"
)

// Service wires the store, the planning engine and the HTTP API together.
type Service struct {
	cfg  *config.Config
	st   store.Store
	bus  *eventbus.Bus
	sink coremetrics.Sink
	log  logger.Logger
	srv  *http.Server
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var sink coremetrics.Sink = coremetrics.NopSink{}
	if cfg.Metrics.PrometheusEnabled {
		sink, err = metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("prom sink: %w", err)
		}
	}

	svc := &Service{
		cfg:  cfg,
		st:   st,
		bus:  eventbus.New(),
		sink: sink,
		log:  logg,
	}
	svc.srv = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apiplan.NewMux(st, svc, cfg.Server.AuthToken, cfg.Server.CalendarName),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return svc, nil
}

// Run starts the API and metrics servers and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("api listening on %s", s.cfg.Server.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return s.st.Close()
}
