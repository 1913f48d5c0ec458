package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// DefaultRootFolderID is the Drive folder used when no root folder is configured.
const DefaultRootFolderID = "18c_Shx04J8MJOOSD-qv7iCnAoT-qHanb"

// DefaultAllowedOrigins are the browser origins accepted when CORS_ORIGINS is unset.
var DefaultAllowedOrigins = []string{
	"http://localhost",
	"http://127.0.0.1",
	"http://localhost:8080",
	"http://127.0.0.1:8080",
	"https://pelangidrive.netlify.app",
}

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	CORS        CORSConfig    `toml:"cors"`
	Storage     StorageConfig `toml:"storage"`
	Drive       DriveConfig   `toml:"drive"`
	PDFCo       PDFCoConfig   `toml:"pdfco"`
	Logging     LoggingConfig `toml:"logging"`
	Janitor     JanitorConfig `toml:"janitor"`
}

type ServerConfig struct {
	Port         int    `toml:"port"`
	Host         string `toml:"host"`
	RoutePrefix  string `toml:"route_prefix"`  // Stripped from incoming paths, e.g. "/.netlify/functions/api"
	MaxUploadMB  int64  `toml:"max_upload_mb"` // Upper bound on multipart request bodies
	DebugErrors  bool   `toml:"debug_errors"`  // Include stack traces in error responses
	ReadTimeout  string `toml:"read_timeout"`  // e.g. "30s"
	WriteTimeout string `toml:"write_timeout"` // Must cover a remote conversion round trip
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type StorageConfig struct {
	UploadDir string `toml:"upload_dir"` // Scratch directory for per-request PDF/xlsx files
}

// DriveConfig holds the Google Drive backend settings. TokenJSON and
// ClientSecretJSON carry raw or base64 encoded credential documents that are
// written to CredentialsDir when the files are not already present.
type DriveConfig struct {
	RootFolderID     string `toml:"root_folder_id"`
	CredentialsDir   string `toml:"credentials_dir"`
	TokenFile        string `toml:"token_file"`
	ClientSecretFile string `toml:"client_secret_file"`
	TokenJSON        string `toml:"token_json"`
	ClientSecretJSON string `toml:"client_secret_json"`
}

type PDFCoConfig struct {
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	Timeout   string `toml:"timeout"`    // e.g. "120s"
	RateLimit int    `toml:"rate_limit"` // Requests per second, 0 = unlimited
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // default "15:04:05"
}

// JanitorConfig controls the periodic sweep of abandoned scratch files.
type JanitorConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron expression or descriptor, e.g. "@every 1h"
	MaxAge   string `toml:"max_age"`  // e.g. "6h"
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:         8000,
			Host:         "0.0.0.0",
			RoutePrefix:  "/.netlify/functions/api",
			MaxUploadMB:  50,
			ReadTimeout:  "30s",
			WriteTimeout: "180s",
		},
		CORS: CORSConfig{
			AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
		},
		Storage: StorageConfig{
			UploadDir: filepath.Join(os.TempDir(), "pelangi-temp"),
		},
		Drive: DriveConfig{
			RootFolderID:     DefaultRootFolderID,
			CredentialsDir:   os.TempDir(),
			TokenFile:        "token.json",
			ClientSecretFile: "client_secret.json",
		},
		PDFCo: PDFCoConfig{
			BaseURL: "https://api.pdf.co/v1",
			Timeout: "120s",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Janitor: JanitorConfig{
			Enabled:  true,
			Schedule: "@every 1h",
			MaxAge:   "6h",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> files (in order) -> .env -> environment.
// Later files override earlier ones. Empty paths are skipped.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadDotEnv populates the process environment from path when it exists.
// Variables already set in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PELANGI_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration. PORT is set by most hosting platforms.
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if port := os.Getenv("PELANGI_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PELANGI_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if prefix, ok := os.LookupEnv("PELANGI_ROUTE_PREFIX"); ok {
		config.Server.RoutePrefix = prefix
	}
	if maxMB := os.Getenv("PELANGI_MAX_UPLOAD_MB"); maxMB != "" {
		if mb, err := strconv.ParseInt(maxMB, 10, 64); err == nil {
			config.Server.MaxUploadMB = mb
		}
	}
	if debugErrors := os.Getenv("DEBUG_ERRORS"); debugErrors != "" {
		config.Server.DebugErrors = debugErrors == "true"
	}

	// A set value replaces the defaults even when it lists no origins.
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		config.CORS.AllowedOrigins = splitList(origins)
	}

	if uploadDir := os.Getenv("UPLOAD_DIR"); uploadDir != "" {
		config.Storage.UploadDir = uploadDir
	}

	// Drive configuration
	if root := os.Getenv("DRIVE_ROOT_FOLDER_ID"); root != "" {
		config.Drive.RootFolderID = root
	} else if root := os.Getenv("DRIVE_FOLDER_ID"); root != "" {
		config.Drive.RootFolderID = root
	}
	if dir := os.Getenv("CREDENTIALS_DIR"); dir != "" {
		config.Drive.CredentialsDir = dir
	}
	if token := os.Getenv("TOKEN_JSON_BASE64"); token != "" {
		config.Drive.TokenJSON = token
	}
	if secret := os.Getenv("CLIENT_SECRET_JSON_BASE64"); secret != "" {
		config.Drive.ClientSecretJSON = secret
	}

	// PDF.co configuration
	if key := os.Getenv("PDFCO_API_KEY"); key != "" {
		config.PDFCo.APIKey = key
	}
	if baseURL := os.Getenv("PDFCO_BASE_URL"); baseURL != "" {
		config.PDFCo.BaseURL = baseURL
	}
	if timeout := os.Getenv("PDFCO_TIMEOUT"); timeout != "" {
		config.PDFCo.Timeout = timeout
	}
	if limit := os.Getenv("PDFCO_RATE_LIMIT"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			config.PDFCo.RateLimit = l
		}
	}

	// Logging configuration
	if level := os.Getenv("PELANGI_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("PELANGI_LOG_OUTPUT"); output != "" {
		if outputs := splitList(output); len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Janitor configuration
	if enabled := os.Getenv("PELANGI_JANITOR_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Janitor.Enabled = b
		}
	}
	if schedule := os.Getenv("PELANGI_JANITOR_SCHEDULE"); schedule != "" {
		config.Janitor.Schedule = schedule
	}
	if maxAge := os.Getenv("PELANGI_JANITOR_MAX_AGE"); maxAge != "" {
		config.Janitor.MaxAge = maxAge
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Flags have the highest priority.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive"))
	}
	for name, value := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"pdfco.timeout":        c.PDFCo.Timeout,
		"janitor.max_age":      c.Janitor.MaxAge,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if c.Janitor.Enabled {
		if err := ValidateSchedule(c.Janitor.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("janitor.schedule: %w", err))
		}
	}

	return errors.Join(errs...)
}

// ValidateSchedule validates a standard 5-field cron expression or an @descriptor.
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// ParseDuration parses s, returning fallback when s is empty or invalid.
func ParseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// MaxUploadBytes returns the multipart body limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
