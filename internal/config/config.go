package config

import (
	"errors"
	"fmt"
	"os"

	"frontdesk/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App         AppConfig        `yaml:"app"`
	Logging     LoggingConfig    `yaml:"logging"`
	Backend     BackendConfig    `yaml:"backend"`
	Console     ConsoleConfig    `yaml:"console"`
	Session     SessionConfig    `yaml:"session"`
	Credentials []Credential     `yaml:"credentials"`
	Redis       RedisConfig      `yaml:"redis"`
	Audit       AuditConfig      `yaml:"audit"`
	Monitoring  MonitoringConfig `yaml:"monitoring"`
	Telegram    TelegramConfig   `yaml:"telegram"`
	Exports     ExportConfig     `yaml:"exports"`
	Google      GoogleConfig     `yaml:"google"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// BackendConfig describes the remote reservations REST API.
type BackendConfig struct {
	BaseURL        string  `yaml:"base_url"`
	APIKey         string  `yaml:"api_key"`
	APIExtra       string  `yaml:"api_extra"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	RPS            float64 `yaml:"rps"`
	Burst          int     `yaml:"burst"`
	CacheTTL       int     `yaml:"cache_ttl"`
}

// ConsoleConfig describes the HTTP surface the browser talks to.
type ConsoleConfig struct {
	Port              int     `yaml:"port"`
	RateLimitRPS      float64 `yaml:"rate_limit_rps"`
	RateLimitBurst    int     `yaml:"rate_limit_burst"`
	ReadHeaderTimeout int     `yaml:"read_header_timeout"`
	WriteTimeout      int     `yaml:"write_timeout"`
}

// SessionConfig selects the persistence backend for staff sessions.
type SessionConfig struct {
	Backend  string `yaml:"backend"` // file or redis
	FilePath string `yaml:"file_path"`
	TTL      int    `yaml:"ttl"`
}

// Credential is one entry of the demo credential list. A real identity
// provider replaces the list via the session.CredentialVerifier seam.
type Credential struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	HotelID  int64  `yaml:"hotel_id"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile           string `yaml:"credentials_file"`
	ReservationsSpreadsheetID string `yaml:"reservations_spreadsheet_id"`
}

func Load(configPath string) (*Config, error) {
	// .env загружается до YAML, чтобы подстановки видели переменные
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend base_url is required")
	}

	switch c.Session.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("unknown session backend: %s", c.Session.Backend)
	}
	if c.Session.Backend == "redis" && c.Redis.Address == "" {
		return errors.New("session backend redis requires redis address")
	}

	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE") {
		return errors.New("telegram notifier requires bot_token")
	}

	return ValidateCredentials(c.Credentials)
}

// ValidateCredentials rejects duplicate emails and receptionists without a
// bound hotel.
func ValidateCredentials(creds []Credential) error {
	emails := make(map[string]bool)
	for _, cred := range creds {
		if cred.Email == "" {
			return fmt.Errorf("credential '%s' has empty email", cred.Name)
		}
		if emails[cred.Email] {
			return fmt.Errorf("duplicate credential email found: %s", cred.Email)
		}
		emails[cred.Email] = true

		switch models.Role(cred.Role) {
		case models.RoleAdmin:
		case models.RoleReceptionist:
			if cred.HotelID == 0 {
				return fmt.Errorf("receptionist '%s' must be bound to a hotel", cred.Email)
			}
		default:
			return fmt.Errorf("credential '%s' has unknown role %q", cred.Email, cred.Role)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Backend.Burst <= 0 {
		c.Backend.Burst = 5
	}
	if c.Console.Port == 0 {
		c.Console.Port = 8080
	}
	if c.Console.ReadHeaderTimeout == 0 {
		c.Console.ReadHeaderTimeout = 5
	}
	if c.Console.WriteTimeout == 0 {
		c.Console.WriteTimeout = 15
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "file"
	}
	if c.Session.FilePath == "" {
		c.Session.FilePath = "data/session.json"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = models.DefaultSessionTTL
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
	if len(c.Credentials) == 0 {
		c.Credentials = DemoCredentials()
	}
}

// DemoCredentials is the fixed demo list: one admin and two receptionists
// bound to distinct hotels.
func DemoCredentials() []Credential {
	return []Credential{
		{ID: "1", Name: "Admin User", Email: "admin@example.com", Password: "admin123", Role: string(models.RoleAdmin)},
		{ID: "2", Name: "Hotel Receptionist", Email: "recep@example.com", Password: "recep123", Role: string(models.RoleReceptionist), HotelID: 1},
		{ID: "3", Name: "Hotel Receptionist 2", Email: "recep2@example.com", Password: "recep123", Role: string(models.RoleReceptionist), HotelID: 2},
	}
}
