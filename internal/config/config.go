package config

import (
  "fmt"
  "os"
  "strconv"
  "time"

  "github.com/joho/godotenv"
)

const (
  defaultBannerDuration = 5 * time.Second
  defaultSubmitDebounce = time.Second
)

type Config struct {
  Host       string
  Port       string
  DBHost     string
  DBPort     int
  DBName     string
  DBUser     string
  DBPass     string
  SMTPHost   string
  SMTPPort   int
  SMTPUser   string
  SMTPPass   string
  SMTPFrom   string
  PublicURL  string
  StaticPath string
  LogLevel   string
  UI         UIConfig
}

// UIConfig holds the timings shared by the browser page and the terminal client.
type UIConfig struct {
  BannerDuration time.Duration
  SubmitDebounce time.Duration
}

// ClientConfig is what the terminal client needs to reach a running server.
type ClientConfig struct {
  APIBaseURL string
  LogLevel   string
  UI         UIConfig
}

func LoadConfig() (*Config, error) {
  godotenv.Load()

  cfg := &Config{
    Host:       getEnv("HOST", "0.0.0.0"),
    Port:       getEnv("PORT", "8080"),
    DBHost:     getEnv("PG_HOST", "localhost"),
    DBPort:     getEnvInt("PG_PORT", 5432),
    DBName:     getEnv("PG_DATABASE", "newsletter"),
    DBUser:     getEnv("PG_USER", "postgres"),
    DBPass:     getEnv("PG_PASSWORD", ""),
    SMTPHost:   getEnv("SMTP_SERVER", ""),
    SMTPPort:   getEnvInt("SMTP_PORT", 587),
    SMTPUser:   getEnv("SMTP_USER", ""),
    SMTPPass:   getEnv("SMTP_PASSWORD", ""),
    PublicURL:  getEnv("PUBLIC_URL", ""),
    StaticPath: getEnv("STATIC_PATH", "./static"),
    LogLevel:   getEnv("LOG_LEVEL", "info"),
    UI:         loadUIConfig(),
  }
  cfg.SMTPFrom = getEnv("SMTP_FROM", cfg.SMTPUser)

  if cfg.SMTPHost == "" {
    return nil, fmt.Errorf("SMTP_SERVER not configured")
  }
  if !validPort(cfg.DBPort) {
    return nil, fmt.Errorf("PG_PORT out of range: %d", cfg.DBPort)
  }
  if !validPort(cfg.SMTPPort) {
    return nil, fmt.Errorf("SMTP_PORT out of range: %d", cfg.SMTPPort)
  }

  return cfg, nil
}

func LoadClientConfig() *ClientConfig {
  godotenv.Load()

  return &ClientConfig{
    APIBaseURL: getEnv("LANDING_API_URL", "http://localhost:8080"),
    LogLevel:   getEnv("LOG_LEVEL", "info"),
    UI:         loadUIConfig(),
  }
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
  return c.Host + ":" + c.Port
}

func loadUIConfig() UIConfig {
  return UIConfig{
    BannerDuration: getEnvDuration("BANNER_DURATION", defaultBannerDuration),
    SubmitDebounce: getEnvDuration("SUBMIT_DEBOUNCE", defaultSubmitDebounce),
  }
}

func getEnv(key, defaultVal string) string {
  if value, exists := os.LookupEnv(key); exists {
    return value
  }
  return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
  if value, exists := os.LookupEnv(key); exists {
    if i, err := strconv.Atoi(value); err == nil {
      return i
    }
  }
  return defaultVal
}

func validPort(p int) bool {
  return p > 0 && p <= 65535
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
  if value, exists := os.LookupEnv(key); exists {
    if d, err := time.ParseDuration(value); err == nil && d > 0 {
      return d
    }
  }
  return defaultVal
}
