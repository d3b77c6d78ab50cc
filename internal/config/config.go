package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPolicyCode is the policy selected for every journey unless overridden
const DefaultPolicyCode = "TCPOP"

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabasesConfig     `mapstructure:"database"`
	FormProvider  FormProviderConfig  `mapstructure:"form_provider"`
	Questionnaire QuestionnaireConfig `mapstructure:"questionnaire"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
}

// DatabasesConfig holds all database configurations
type DatabasesConfig struct {
	Tracking DatabaseConfig `mapstructure:"tracking"`
}

// DatabaseConfig holds individual database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// FormProviderConfig holds the external form service (ODS) configuration
type FormProviderConfig struct {
	BaseURL   string                `mapstructure:"base_url"`
	Timeout   time.Duration         `mapstructure:"timeout"`
	Endpoints FormProviderEndpoints `mapstructure:"endpoints"`
}

// FormProviderEndpoints holds the path prefix of each form provider operation.
// The journey type and customer identifier are appended as path segments.
type FormProviderEndpoints struct {
	Ready  string `mapstructure:"ready"`
	Save   string `mapstructure:"save"`
	Submit string `mapstructure:"submit"`
	Reset  string `mapstructure:"reset"`
	Retake string `mapstructure:"retake"`
	Error  string `mapstructure:"error"`
}

// QuestionnaireConfig holds questionnaire lifecycle configuration
type QuestionnaireConfig struct {
	MultipleRetakeEnabled bool   `mapstructure:"multiple_retake_enabled"`
	DefaultPolicyCode     string `mapstructure:"default_policy_code"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	// Nested keys map to env vars with underscores, e.g.
	// CRP_QUESTIONNAIRE_QUESTIONNAIRE_MULTIPLE_RETAKE_ENABLED
	v.SetEnvPrefix("CRP_QUESTIONNAIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 15*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)

	v.SetDefault("database.tracking.type", "mysql")
	v.SetDefault("database.tracking.port", 3306)
	v.SetDefault("database.tracking.max_open_conns", 25)
	v.SetDefault("database.tracking.max_idle_conns", 5)
	v.SetDefault("database.tracking.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("form_provider.timeout", 30*time.Second)
	v.SetDefault("form_provider.endpoints.ready", "/form/ready")
	v.SetDefault("form_provider.endpoints.save", "/form/save")
	v.SetDefault("form_provider.endpoints.submit", "/form/submit")
	v.SetDefault("form_provider.endpoints.reset", "/form/reset")
	v.SetDefault("form_provider.endpoints.retake", "/form/retake")
	v.SetDefault("form_provider.endpoints.error", "/form/error")

	v.SetDefault("questionnaire.multiple_retake_enabled", false)
	v.SetDefault("questionnaire.default_policy_code", DefaultPolicyCode)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.Tracking.Hostname == "" {
		return fmt.Errorf("database hostname is required")
	}

	if config.Database.Tracking.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if config.FormProvider.BaseURL == "" {
		return fmt.Errorf("form provider base URL is required")
	}

	if strings.TrimSpace(config.Questionnaire.DefaultPolicyCode) == "" {
		return fmt.Errorf("default policy code is required")
	}

	return nil
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}

// GetEndpointURL returns the full URL for a form provider endpoint path
func (f *FormProviderConfig) GetEndpointURL(endpoint string) string {
	return strings.TrimRight(f.BaseURL, "/") + endpoint
}
