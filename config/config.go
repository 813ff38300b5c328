package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Naver     NaverConfig     `yaml:"naver"`
	Registry  RegistryConfig  `yaml:"registry"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"-"`
	Username     string        `yaml:"username"`
	PasswordHash string        `yaml:"-"`
	Role         string        `yaml:"role"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// Credentials is a Naver open API client id/secret pair.
type Credentials struct {
	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`
}

func (c Credentials) Valid() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type NaverConfig struct {
	BaseURL  string      `yaml:"base_url"`
	Search   Credentials `yaml:"-"`
	Shopping Credentials `yaml:"-"`
}

type RegistryConfig struct {
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"-"`
	ServiceID   string        `yaml:"service_id"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
}

type GeminiConfig struct {
	APIKey   string `yaml:"-"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

type DatabaseConfig struct {
	URL string `yaml:"-"`
}

type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"-"`
	RedisDB       int           `yaml:"redis_db"`
	TTL           time.Duration `yaml:"ttl"`
}

// GradeThresholds are the lower bounds (inclusive) of the A and B strategy
// grades. Both 50/30 and 60/35 have been used by the business.
type GradeThresholds struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

type AnalyticsConfig struct {
	Grades        GradeThresholds `yaml:"grades"`
	BundleDivisor float64         `yaml:"bundle_divisor"`
	RecentWindow  int             `yaml:"recent_window"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig holds the application-wide configuration.
var AppConfig = Default()

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":3000"},
		Auth: AuthConfig{
			Role:     "staff",
			TokenTTL: 12 * time.Hour,
		},
		Naver: NaverConfig{BaseURL: "https://openapi.naver.com"},
		Registry: RegistryConfig{
			BaseURL:     "http://openapi.foodsafetykorea.go.kr/api",
			ServiceID:   "I1250",
			Timeout:     10 * time.Second,
			MaxAttempts: 3,
			RetryDelay:  2 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:    "gemini-2.5-flash-lite",
			Language: "Korean",
		},
		Cache: CacheConfig{TTL: 30 * time.Minute},
		Analytics: AnalyticsConfig{
			Grades:        GradeThresholds{A: 50, B: 30},
			BundleDivisor: 6,
			RecentWindow:  3,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the optional .env file and YAML file, then applies environment
// variables on top of them. Environment variables always win.
func Load(envFile, yamlFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// A missing .env is fine; the process environment is used directly.
	_ = godotenv.Load(envFile)

	cfg := Default()
	if yamlFile != "" {
		data, err := os.ReadFile(yamlFile)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "ADDR")
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.Username, "DASHBOARD_USERNAME")
	setString(&cfg.Auth.PasswordHash, "DASHBOARD_PASSWORD_HASH")
	setString(&cfg.Auth.Role, "DASHBOARD_ROLE")

	setString(&cfg.Naver.BaseURL, "NAVER_BASE_URL")
	setString(&cfg.Naver.Search.ClientID, "NAVER_CLIENT_ID")
	setString(&cfg.Naver.Search.ClientSecret, "NAVER_CLIENT_SECRET")
	setString(&cfg.Naver.Shopping.ClientID, "NAVER_SHOPPING_CLIENT_ID")
	setString(&cfg.Naver.Shopping.ClientSecret, "NAVER_SHOPPING_CLIENT_SECRET")
	if !cfg.Naver.Shopping.Valid() {
		cfg.Naver.Shopping = cfg.Naver.Search
	}

	setString(&cfg.Registry.BaseURL, "FOODSAFETY_BASE_URL")
	setString(&cfg.Registry.APIKey, "FOODSAFETY_API_KEY")
	setString(&cfg.Registry.ServiceID, "FOODSAFETY_SERVICE_ID")

	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.Gemini.Language, "REPORT_LANGUAGE")

	setString(&cfg.Database.URL, "DATABASE_URL")

	setString(&cfg.Cache.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Cache.RedisPassword, "REDIS_PASSWORD")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if err := setFloat(&cfg.Analytics.Grades.A, "GRADE_A_THRESHOLD"); err != nil {
		return err
	}
	if err := setFloat(&cfg.Analytics.Grades.B, "GRADE_B_THRESHOLD"); err != nil {
		return err
	}
	if err := setFloat(&cfg.Analytics.BundleDivisor, "BUNDLE_DIVISOR"); err != nil {
		return err
	}
	if err := setInt(&cfg.Analytics.RecentWindow, "TREND_RECENT_WINDOW"); err != nil {
		return err
	}
	if err := setInt(&cfg.Cache.RedisDB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Cache.TTL, "CACHE_TTL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Registry.Timeout, "FOODSAFETY_TIMEOUT"); err != nil {
		return err
	}
	return nil
}

// Validate checks the tunables that would make computations meaningless.
func (c Config) Validate() error {
	if c.Analytics.Grades.A < c.Analytics.Grades.B {
		return fmt.Errorf("grade A threshold (%v) must not be below grade B threshold (%v)",
			c.Analytics.Grades.A, c.Analytics.Grades.B)
	}
	if c.Analytics.BundleDivisor <= 0 {
		return fmt.Errorf("bundle divisor must be positive, got %v", c.Analytics.BundleDivisor)
	}
	if c.Analytics.RecentWindow < 2 {
		return fmt.Errorf("recent window must be at least 2, got %d", c.Analytics.RecentWindow)
	}
	if c.Registry.MaxAttempts < 1 {
		return fmt.Errorf("registry max attempts must be at least 1, got %d", c.Registry.MaxAttempts)
	}
	return nil
}

// Capabilities records which optional collaborators are configured. It is
// computed once at startup and passed to whoever needs it.
type Capabilities struct {
	Commerce bool `json:"commerce"`
	Trend    bool `json:"trend"`
	Registry bool `json:"registry"`
	LLM      bool `json:"llm"`
	Archive  bool `json:"archive"`
	Cache    bool `json:"cache"`
}

// Capabilities derives the capability flags from the configured credentials.
func (c Config) Capabilities() Capabilities {
	return Capabilities{
		Commerce: c.Naver.Shopping.Valid(),
		Trend:    c.Naver.Search.Valid(),
		Registry: c.Registry.APIKey != "",
		LLM:      c.Gemini.APIKey != "",
		Archive:  c.Database.URL != "",
		Cache:    c.Cache.RedisAddr != "",
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setFloat(dst *float64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
