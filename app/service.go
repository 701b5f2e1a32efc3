// Package app wires the configuration, model registry, prediction service
// and transport handlers into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/farecast/api/fares"
	historyapi "github.com/kilianp07/farecast/api/history"
	modelsapi "github.com/kilianp07/farecast/api/models"
	"github.com/kilianp07/farecast/config"
	corehistory "github.com/kilianp07/farecast/core/history"
	coremetrics "github.com/kilianp07/farecast/core/metrics"
	"github.com/kilianp07/farecast/core/predict"
	"github.com/kilianp07/farecast/core/registry"
	"github.com/kilianp07/farecast/infra/logger"
	"github.com/kilianp07/farecast/infra/metrics"
	"github.com/kilianp07/farecast/internal/eventbus"
)

// Service holds the wired components of the fare prediction server.
type Service struct {
	Registry  *registry.Registry
	Predictor *predict.Service

	cfg   *config.Config
	log   logger.Logger
	bus   *eventbus.Bus
	sink  coremetrics.Sink
	store corehistory.Store
	srv   *http.Server
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	reg := registry.New(cfg.Models.Dir)
	predictor := predict.New(reg, cfg.Models.Default, logger.New("predict"))

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics, logger.New("influx-sink")))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	var store corehistory.Store
	if cfg.History.Enabled {
		var err error
		switch cfg.History.Backend {
		case "sqlite":
			store, err = corehistory.NewSQLiteStore(cfg.History.Path)
		default:
			store, err = corehistory.NewJSONLStore(cfg.History.Path)
		}
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
	}

	bus := eventbus.New()
	apiLog := logger.New("api")
	mux := http.NewServeMux()
	mux.Handle("/api/predict", fares.NewPredictHandler(predictor, bus, apiLog))
	mux.Handle("/api/batch-predict", fares.NewBatchHandler(predictor, bus, apiLog))
	mux.Handle("/api/models", modelsapi.NewListHandler(reg))
	mux.Handle("/health", modelsapi.NewHealthHandler(reg))
	if store != nil {
		mux.Handle("/api/predictions", historyapi.NewLogHandler(store, cfg.Server.HistoryToken))
	}

	return &Service{
		Registry:  reg,
		Predictor: predictor,
		cfg:       cfg,
		log:       logg,
		bus:       bus,
		sink:      sink,
		store:     store,
		srv:       &http.Server{Addr: cfg.Server.Addr, Handler: mux},
	}, nil
}

// Handler returns the API handler, mainly for tests and embedding.
func (s *Service) Handler() http.Handler { return s.srv.Handler }

// Run starts the service and blocks until the context is cancelled or the
// listener fails.
func (s *Service) Run(ctx context.Context) error {
	for _, d := range s.Registry.DescribeAll() {
		s.log.Infof("model %s (%s): available=%t", d.Identifier, d.File, d.Available)
	}

	events := s.bus.Subscribe()
	go s.consume(ctx, events)

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()

	s.log.Infof("listening on %s", s.cfg.Server.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// consume drains prediction events into the metrics sink and the history
// store until the context is cancelled or the bus closes.
func (s *Service) consume(ctx context.Context, events <-chan coremetrics.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := s.sink.RecordPrediction(ev); err != nil {
				s.log.Warnf("metrics sink: %v", err)
			}
			if s.store != nil {
				rec := corehistory.Record{
					ID:         ev.ID,
					Timestamp:  ev.Timestamp,
					PickupLat:  ev.PickupLat,
					PickupLon:  ev.PickupLon,
					DropoffLat: ev.DropoffLat,
					DropoffLon: ev.DropoffLon,
					PickupTime: ev.PickupTime,
					ModelUsed:  ev.Model,
					Prediction: ev.Fare,
					DistanceKm: ev.DistanceKm,
					Batch:      ev.Batch,
					Error:      ev.Error,
				}
				if err := s.store.Append(ctx, rec); err != nil {
					s.log.Warnf("history append: %v", err)
				}
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
