package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jscales4000/LotPlanner-sub000/internal/audit"
	"github.com/jscales4000/LotPlanner-sub000/internal/calibration"
	"github.com/jscales4000/LotPlanner-sub000/internal/geometry"
	"github.com/jscales4000/LotPlanner-sub000/internal/infrastructure/config"
	"github.com/jscales4000/LotPlanner-sub000/internal/infrastructure/logging"
	"github.com/jscales4000/LotPlanner-sub000/internal/layout"
	"github.com/jscales4000/LotPlanner-sub000/internal/measurement"
	"github.com/jscales4000/LotPlanner-sub000/internal/viewport"
	"github.com/jscales4000/LotPlanner-sub000/internal/violation"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// EventPublisher receives layout events for other site systems.
// *mqtt.Client satisfies it.
type EventPublisher interface {
	PublishViolations(projectID string, vs []violation.Violation) error
	PublishCalibration(projectID string, result calibration.Result) error
	IsConnected() bool
}

// MetricsWriter records layout metrics. *influxdb.Client satisfies it.
type MetricsWriter interface {
	WriteViolationMetric(projectID string, vs []violation.Violation)
	WriteMeasurement(projectID string, m measurement.Measurement)
}

// Settings are the geometry parameters shared by every request.
type Settings struct {
	ArcSegments int
	Canvas      layout.CanvasSettings
	Violations  violation.Options
	Viewport    viewport.Options
	Calibrator  *calibration.Calibrator
}

// SettingsFromConfig builds Settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		ArcSegments: cfg.Clearance.ArcSegments,
		Canvas: layout.CanvasSettings{
			Width:         cfg.Canvas.Width,
			Height:        cfg.Canvas.Height,
			PixelsPerFoot: geometry.Scale(cfg.Canvas.PixelsPerFoot),
			GridSize:      cfg.Canvas.GridSize,
			ShowGrid:      true,
		},
		Violations: violation.ConfiguredOptions(cfg.Clearance.CriticalShortfall, cfg.Clearance.SpatialIndexThreshold),
		Viewport: viewport.Options{
			DefaultScale: cfg.Viewport.DefaultScale,
			MinScale:     cfg.Viewport.MinScale,
			MaxScale:     cfg.Viewport.MaxScale,
			ZoomFactor:   cfg.Viewport.ZoomFactor,
			FitPadding:   cfg.Viewport.FitPadding,
			FitMaxScale:  cfg.Viewport.FitMaxScale,
			Canvas:       viewport.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height},
		},
		Calibrator: calibration.New(cfg.Calibration.MinDistance, calibration.Target(cfg.Calibration.Target)),
	}
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Settings Settings
	Logger   *logging.Logger
	Projects layout.Repository
	History  audit.Repository // optional
	Events   EventPublisher   // optional
	Metrics  MetricsWriter    // optional
	Version  string
}

// Server is the HTTP API server.
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	settings Settings
	logger   *logging.Logger
	projects layout.Repository
	history  audit.Repository
	events   EventPublisher
	metrics  MetricsWriter
	version  string
	server   *http.Server
	hub      *Hub
	cancel   context.CancelFunc

	// caches memoises violation detection per project ID.
	caches   map[string]*violation.Cache
	cachesMu sync.Mutex
}

// New creates a server. It is not listening until Start is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Projects == nil {
		return nil, fmt.Errorf("project repository is required")
	}

	settings := deps.Settings
	if settings.ArcSegments < 1 {
		settings.ArcSegments = 8
	}
	if !settings.Canvas.PixelsPerFoot.Valid() {
		settings.Canvas = layout.DefaultCanvasSettings()
	}
	if settings.Viewport == (viewport.Options{}) {
		settings.Viewport = viewport.DefaultOptions()
	}
	if settings.Calibrator == nil {
		settings.Calibrator = calibration.New(calibration.DefaultMinDistance, calibration.TargetGlobal)
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		settings: settings,
		logger:   deps.Logger,
		projects: deps.Projects,
		history:  deps.History,
		events:   deps.Events,
		metrics:  deps.Metrics,
		version:  deps.Version,
		hub:      NewHub(deps.WS, deps.Logger.With("component", "websocket")),
		caches:   make(map[string]*violation.Cache),
	}, nil
}

// Start launches the WebSocket hub and the HTTP listener in the background.
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.Handler(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()
	return nil
}

// Close stops the hub and waits up to ten seconds for in-flight requests.
func (s *Server) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("api health check: %w", err)
	}
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) cacheFor(projectID string) *violation.Cache {
	s.cachesMu.Lock()
	defer s.cachesMu.Unlock()

	c, ok := s.caches[projectID]
	if !ok {
		c = violation.NewCache(s.settings.Violations)
		c.SetLogger(s.logger.With("component", "violations", "project_id", projectID))
		s.caches[projectID] = c
	}
	return c
}

func (s *Server) dropCache(projectID string) {
	s.cachesMu.Lock()
	delete(s.caches, projectID)
	s.cachesMu.Unlock()
}
