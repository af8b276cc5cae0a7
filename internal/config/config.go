package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// StorageConfig selects where the session is persisted
type StorageConfig struct {
	Backend       string `yaml:"backend" validate:"omitempty,oneof=file redis postgres"`
	Dir           string `yaml:"dir,omitempty"`
	RedisAddr     string `yaml:"redisAddr,omitempty" validate:"required_if=Backend redis"`
	RedisPassword string `yaml:"redisPassword,omitempty"`
	RedisDB       int    `yaml:"redisDB,omitempty" validate:"min=0"`
	PostgresDSN   string `yaml:"postgresDSN,omitempty" validate:"required_if=Backend postgres"`
}

// PayrollExportConfig configures the spreadsheet export and payslip emails
type PayrollExportConfig struct {
	// Ledger is where exported rows and payslip deliveries are recorded: sheets or postgres
	Ledger        string `yaml:"ledger,omitempty" validate:"omitempty,oneof=sheets postgres"`
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
	GmailSender   string `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
}

// EventTemplate is a named recurrence used to post the same event repeatedly
type EventTemplate struct {
	Name  string `yaml:"name" validate:"required"`
	RRule string `yaml:"rrule" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	APIBaseURL     string              `yaml:"apiBaseURL" validate:"required,url"`
	RequestTimeout time.Duration       `yaml:"requestTimeout,omitempty" validate:"min=0"`
	Locale         string              `yaml:"locale,omitempty" validate:"omitempty,oneof=ko en"`
	PageSize       int                 `yaml:"pageSize,omitempty" validate:"omitempty,min=1,max=100"`
	Storage        StorageConfig       `yaml:"storage"`
	KakaoRestKey   string              `yaml:"kakaoRestKey,omitempty"`
	DeploymentsDir string              `yaml:"deploymentsDir,omitempty"`
	MetricsAddr    string              `yaml:"metricsAddr,omitempty"`
	PayrollExport  PayrollExportConfig `yaml:"payrollExport,omitempty"`
	EventTemplates []EventTemplate     `yaml:"eventTemplates,omitempty" validate:"dive"`
}

// Template returns the event template called name
func (c *Config) Template(name string) (*EventTemplate, bool) {
	for i := range c.EventTemplates {
		if c.EventTemplates[i].Name == name {
			return &c.EventTemplates[i], true
		}
	}
	return nil, false
}

const (
	defaultRequestTimeout = 15 * time.Second
	defaultLocale         = "ko"
	defaultPageSize       = 20
	defaultStorageBackend = "file"
	defaultDeploymentsDir = "deployments"
	defaultLedger         = "sheets"
)

// Environment variables that override the config file
const (
	EnvAPIBaseURL     = "WORKPROOF_API_BASE_URL"
	EnvStorageBackend = "WORKPROOF_STORAGE_BACKEND"
	EnvRedisAddr      = "WORKPROOF_REDIS_ADDR"
	EnvPostgresDSN    = "WORKPROOF_POSTGRES_DSN"
	EnvKakaoRestKey   = "WORKPROOF_KAKAO_REST_KEY"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from workproof_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix
// For example, env="staging" will look for "workproof_config.staging.yaml"
func LoadWithEnv(env string) (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.PayrollExport.Ledger == "postgres" && cfg.Storage.PostgresDSN == "" {
		return fmt.Errorf("config validation failed: payrollExport.ledger postgres needs storage.postgresDSN")
	}

	for i, tmpl := range cfg.EventTemplates {
		if _, err := rrule.StrToRRule(tmpl.RRule); err != nil {
			return fmt.Errorf("invalid rrule in eventTemplates[%d]: %w", i, err)
		}
	}

	return nil
}

func applyEnvOverrides(cfg *Config) {
	overrides := map[string]*string{
		EnvAPIBaseURL:     &cfg.APIBaseURL,
		EnvStorageBackend: &cfg.Storage.Backend,
		EnvRedisAddr:      &cfg.Storage.RedisAddr,
		EnvPostgresDSN:    &cfg.Storage.PostgresDSN,
		EnvKakaoRestKey:   &cfg.KakaoRestKey,
	}

	for key, field := range overrides {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			*field = value
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaultStorageBackend
	}
	if cfg.DeploymentsDir == "" {
		cfg.DeploymentsDir = defaultDeploymentsDir
	}
	if cfg.PayrollExport.Ledger == "" {
		cfg.PayrollExport.Ledger = defaultLedger
	}
}

// findConfigFile searches for workproof_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "workproof_config.staging.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "workproof_config.yaml"
	if env != "" {
		configFileName = "workproof_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
