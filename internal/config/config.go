package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ierrors "github.com/imaginify-dev/imaginify/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "imaginify.json"

	// EnvFileName is the dotenv file loaded next to the configuration.
	EnvFileName = ".env"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "IMAGINIFY_"

	DefaultHost      = "localhost"
	DefaultPort      = 8080
	DefaultCloudHost = "res.cloudinary.com"
)

// Upload backends.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Config represents the complete imaginify.json configuration.
type Config struct {
	Name       string           `json:"name,omitempty"`
	Server     ServerConfig     `json:"server"`
	Cloudinary CloudinaryConfig `json:"cloudinary"`
	Download   DownloadConfig   `json:"download"`
	Upload     UploadConfig     `json:"upload"`
	Metrics    MetricsConfig    `json:"metrics"`
	Log        LogConfig        `json:"log"`

	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// CORSOrigins lists allowed browser origins. Empty allows all.
	CORSOrigins []string `json:"corsOrigins,omitempty"`

	RateLimit RateLimitConfig `json:"rateLimit"`
}

// RateLimitConfig configures the per-IP token bucket. An RPS of 0
// disables rate limiting.
type RateLimitConfig struct {
	RPS   float64 `json:"rps"`
	Burst int     `json:"burst"`
}

// CloudinaryConfig identifies the delivery cloud for transformation URLs.
type CloudinaryConfig struct {
	CloudName string `json:"cloudName,omitempty"`
}

// DownloadConfig contains image download settings.
type DownloadConfig struct {
	Dir          string   `json:"dir,omitempty"`
	Timeout      string   `json:"timeout,omitempty"`
	AllowedHosts []string `json:"allowedHosts,omitempty"`
}

// UploadConfig contains upload store settings.
type UploadConfig struct {
	// Backend is "disk" or "s3".
	Backend     string   `json:"backend,omitempty"`
	Dir         string   `json:"dir,omitempty"`
	MaxFileSize int64    `json:"maxFileSize,omitempty"`
	TempExpiry  string   `json:"tempExpiry,omitempty"`
	S3          S3Config `json:"s3"`
}

// S3Config contains S3 upload store settings. Credentials come from the
// default AWS credential chain.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "imaginify",
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "10s",
			RateLimit:       RateLimitConfig{RPS: 10, Burst: 20},
		},
		Download: DownloadConfig{
			Dir:          "downloads",
			Timeout:      "30s",
			AllowedHosts: []string{DefaultCloudHost},
		},
		Upload: UploadConfig{
			Backend:     BackendDisk,
			Dir:         filepath.Join(os.TempDir(), "imaginify-uploads"),
			MaxFileSize: 10 << 20,
			TempExpiry:  "1h",
		},
		Metrics: MetricsConfig{Enabled: true, Namespace: "imaginify"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads dir/.env and dir/imaginify.json, then applies environment
// overrides. A missing imaginify.json yields the defaults.
func Load(dir string) (*Config, error) {
	if err := LoadDotEnv(dir); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, ConfigFileName)
	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = New()
		cfg.configPath = path
	} else if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads dir/.env into the process environment without
// overriding variables that are already set. A missing file is not an
// error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return ierrors.New("E180").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			Wrap(err)
	}
	return nil
}

// LoadFile reads configuration from the specified file path. The returned
// error wraps fs.ErrNotExist when the file is missing.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ierrors.New("E180").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, ierrors.New("E180").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return ierrors.Newf(ierrors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return ierrors.New("E180").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ierrors.New("E180").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	d := New()
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = d.Server.ShutdownTimeout
	}
	if c.Download.Dir == "" {
		c.Download.Dir = d.Download.Dir
	}
	if c.Download.Timeout == "" {
		c.Download.Timeout = d.Download.Timeout
	}
	if c.Upload.Backend == "" {
		c.Upload.Backend = d.Upload.Backend
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = d.Upload.Dir
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = d.Upload.MaxFileSize
	}
	if c.Upload.TempExpiry == "" {
		c.Upload.TempExpiry = d.Upload.TempExpiry
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// ApplyEnv applies IMAGINIFY_* overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = splitList(v)
		}
	}

	str("HOST", &c.Server.Host)
	list("CORS_ORIGINS", &c.Server.CORSOrigins)
	str("CLOUD_NAME", &c.Cloudinary.CloudName)
	str("DOWNLOAD_DIR", &c.Download.Dir)
	list("ALLOWED_HOSTS", &c.Download.AllowedHosts)
	str("UPLOAD_BACKEND", &c.Upload.Backend)
	str("UPLOAD_DIR", &c.Upload.Dir)
	str("S3_BUCKET", &c.Upload.S3.Bucket)
	str("S3_PREFIX", &c.Upload.S3.Prefix)
	str("S3_REGION", &c.Upload.S3.Region)
	str("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup(EnvPrefix + "PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return invalidValue(EnvPrefix+"PORT", v)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvPrefix + "RATE_LIMIT_RPS"); ok && v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return invalidValue(EnvPrefix+"RATE_LIMIT_RPS", v)
		}
		c.Server.RateLimit.RPS = rps
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func invalidValue(field, value string) error {
	return ierrors.New("E181").WithDetail(field + " has invalid value " + strconv.Quote(value))
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return ierrors.New("E181").WithDetail("Port must be between 0 and 65535")
	}
	if c.Server.RateLimit.RPS < 0 || c.Server.RateLimit.Burst < 0 {
		return ierrors.New("E181").WithDetail("Rate limit values must not be negative")
	}
	if c.Server.RateLimit.RPS > 0 && c.Server.RateLimit.Burst == 0 {
		return ierrors.New("E181").WithDetail("Rate limit burst must be at least 1 when rps is set")
	}
	for field, v := range map[string]string{
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"download.timeout":       c.Download.Timeout,
		"upload.tempExpiry":      c.Upload.TempExpiry,
	} {
		if _, err := parseDuration(v); err != nil {
			return ierrors.New("E181").
				WithDetail(field + " is not a valid duration: " + strconv.Quote(v)).
				WithExample(`"30s", "5m", "1h"`)
		}
	}
	switch c.Upload.Backend {
	case BackendDisk:
	case BackendS3:
		if c.Upload.S3.Bucket == "" {
			return ierrors.New("E181").WithDetail("upload.s3.bucket is required for the s3 backend")
		}
	default:
		return ierrors.New("E181").WithDetail("upload.backend must be \"disk\" or \"s3\", got " + strconv.Quote(c.Upload.Backend))
	}
	if c.Upload.MaxFileSize < 0 {
		return ierrors.New("E181").WithDetail("upload.maxFileSize must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout returns server.shutdownTimeout, or 10s when unset.
func (c *Config) ShutdownTimeout() time.Duration {
	return durationOr(c.Server.ShutdownTimeout, 10*time.Second)
}

// DownloadTimeout returns download.timeout, or 30s when unset.
func (c *Config) DownloadTimeout() time.Duration {
	return durationOr(c.Download.Timeout, 30*time.Second)
}

// TempExpiry returns upload.tempExpiry, or 1h when unset.
func (c *Config) TempExpiry() time.Duration {
	return durationOr(c.Upload.TempExpiry, time.Hour)
}

// DownloadPath returns the download directory, resolved against the
// config directory when relative.
func (c *Config) DownloadPath() string {
	if filepath.IsAbs(c.Download.Dir) {
		return c.Download.Dir
	}
	return filepath.Join(c.Dir(), c.Download.Dir)
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	l, err := ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, ierrors.New("E181").
			WithDetail("log level must be debug, info, warn or error, got " + strconv.Quote(s))
	}
	return l, nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := parseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the one containing
// imaginify.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ierrors.New("E180").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ConfigFileName + " or pass --config").
				Wrap(fs.ErrNotExist)
		}
		dir = parent
	}
}
