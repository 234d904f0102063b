package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the lot planner service.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	Database    DatabaseConfig    `yaml:"database"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
	Canvas      CanvasConfig      `yaml:"canvas"`
	Viewport    ViewportConfig    `yaml:"viewport"`
	Clearance   ClearanceConfig   `yaml:"clearance"`
	Calibration CalibrationConfig `yaml:"calibration"`
}

// SiteConfig identifies this deployment, typically one fairground or show.
type SiteConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// CanvasConfig is the default drawing surface for new projects.
type CanvasConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	PixelsPerFoot float64 `yaml:"pixels_per_foot"`
	GridSize      float64 `yaml:"grid_size"`
}

// ViewportConfig contains zoom limits and fit-to-content settings.
type ViewportConfig struct {
	DefaultScale float64 `yaml:"default_scale"`
	MinScale     float64 `yaml:"min_scale"`
	MaxScale     float64 `yaml:"max_scale"`
	ZoomFactor   float64 `yaml:"zoom_factor"`
	FitPadding   float64 `yaml:"fit_padding"`
	FitMaxScale  float64 `yaml:"fit_max_scale"`
}

// ClearanceConfig contains clearance polygon and violation detector settings.
type ClearanceConfig struct {
	// ArcSegments is the number of chords each arc edge is drawn with.
	ArcSegments int `yaml:"arc_segments"`

	// CriticalShortfall is the shortfall in feet above which a violation
	// is critical rather than a warning. Zero makes every violation
	// critical.
	CriticalShortfall float64 `yaml:"critical_shortfall"`

	// SpatialIndexThreshold is the item count above which violation
	// detection uses an R-tree. Negative disables the index.
	SpatialIndexThreshold int `yaml:"spatial_index_threshold"`
}

// CalibrationConfig contains scale calibration settings.
type CalibrationConfig struct {
	// MinDistance is the shortest reference distance in feet that can be
	// calibrated against.
	MinDistance float64 `yaml:"min_distance"`

	// Target is "global" (rescale pixels per foot) or "background"
	// (rescale one background image).
	Target string `yaml:"target"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: LOTPLANNER_SECTION_KEY
// For example: LOTPLANNER_DATABASE_PATH, LOTPLANNER_API_PORT
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "lot-001",
			Name: "Lot Planner",
		},
		Database: DatabaseConfig{
			Path:        "./data/lotplanner.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "lotplanner",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Bucket:        "lotplanner",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Canvas: CanvasConfig{
			Width:         5000,
			Height:        5000,
			PixelsPerFoot: 10,
			GridSize:      50,
		},
		Viewport: ViewportConfig{
			DefaultScale: 0.2,
			MinScale:     0.1,
			MaxScale:     5,
			ZoomFactor:   1.1,
			FitPadding:   100,
			FitMaxScale:  2,
		},
		Clearance: ClearanceConfig{
			ArcSegments:           8,
			CriticalShortfall:     10,
			SpatialIndexThreshold: 64,
		},
		Calibration: CalibrationConfig{
			MinDistance: 5,
			Target:      "global",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LOTPLANNER_SECTION_KEY
func applyEnvOverrides(cfg *Config) error {
	// Database
	if v := os.Getenv("LOTPLANNER_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("LOTPLANNER_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("LOTPLANNER_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("LOTPLANNER_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("LOTPLANNER_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("LOTPLANNER_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOTPLANNER_API_PORT: %w", err)
		}
		cfg.API.Port = port
	}

	// InfluxDB
	if v := os.Getenv("LOTPLANNER_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("LOTPLANNER_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Calibration
	if v := os.Getenv("LOTPLANNER_CALIBRATION_TARGET"); v != "" {
		cfg.Calibration.Target = v
	}
	return nil
}

// Validate checks the configuration for errors, collecting every problem.
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if c.Canvas.PixelsPerFoot <= 0 {
		errs = append(errs, "canvas.pixels_per_foot must be positive")
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, "canvas.width and canvas.height must be positive")
	}

	v := c.Viewport
	if v.MinScale <= 0 || v.MinScale > v.DefaultScale || v.DefaultScale > v.MaxScale {
		errs = append(errs, "viewport scales must satisfy 0 < min_scale <= default_scale <= max_scale")
	}
	if v.ZoomFactor <= 1 {
		errs = append(errs, "viewport.zoom_factor must be greater than 1")
	}
	if v.FitPadding < 0 {
		errs = append(errs, "viewport.fit_padding cannot be negative")
	}
	if v.FitMaxScale <= 0 {
		errs = append(errs, "viewport.fit_max_scale must be positive")
	}

	if c.Clearance.ArcSegments < 1 {
		errs = append(errs, "clearance.arc_segments must be at least 1")
	}
	if c.Clearance.CriticalShortfall < 0 {
		errs = append(errs, "clearance.critical_shortfall must not be negative")
	}

	if c.Calibration.MinDistance <= 0 {
		errs = append(errs, "calibration.min_distance must be positive")
	}
	switch c.Calibration.Target {
	case "global", "background":
	default:
		errs = append(errs, fmt.Sprintf("calibration.target must be global or background (got %q)", c.Calibration.Target))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
