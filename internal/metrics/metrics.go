package metrics

import (
	"context"
	"net"
	"net/http"

	"codeberg.org/mutker/ecopass/internal/errors"
	"codeberg.org/mutker/ecopass/internal/logger"
	"codeberg.org/mutker/ecopass/internal/pass"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type service struct {
	*PromCollector
	cfg    Config
	server *http.Server
	addr   string
	done   chan struct{}
	log    logger.Logger
}

// No-op implementation
type noopMetricsCollector struct{}

// NewService starts serving /metrics on cfg.Addr. With metrics disabled it
// returns a collector that discards everything.
func NewService(cfg Config, log logger.Logger) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If metrics is disabled, return a no-op collector
	if !cfg.Enabled() {
		log.Debug().Msg("Metrics collection disabled, using no-op collector")
		return &noopMetricsCollector{}, nil
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	collector, err := NewPromCollector(registry, cfg.NodeLabel)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, errFactory.Wrap(ErrListenFailed, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	s := &service{
		PromCollector: collector,
		cfg:           cfg,
		server:        &http.Server{Handler: mux, ReadHeaderTimeout: cfg.ShutdownTimeout},
		addr:          listener.Addr().String(),
		done:          make(chan struct{}),
		log:           log,
	}

	go s.serve(listener)

	log.Info().
		Str("addr", s.addr).
		Msg("Metrics endpoint listening")

	return s, nil
}

func (s *service) serve(listener net.Listener) {
	defer close(s.done)

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.ErrorWithCode(errors.New().Wrap(ErrServeFailed, err)).Msg("Metrics endpoint stopped")
	}
}

// Addr returns the address the endpoint is bound to.
func (s *service) Addr() string {
	return s.addr
}

func (s *service) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return errors.New().Wrap(ErrServiceShutdown, err)
	}
	<-s.done

	s.log.Debug().Msg("Metrics endpoint closed")

	return nil
}

func (*noopMetricsCollector) ObserveSample(pass.Sample, pass.Class) {}

func (*noopMetricsCollector) ObserveReport(*pass.Report) {}

func (*noopMetricsCollector) TelemetryFailure(string, error) {}

func (*noopMetricsCollector) Close() error {
	return nil
}
