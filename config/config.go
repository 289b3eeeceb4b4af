package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	HTTP     HTTPConfig
	Editor   EditorConfig
	LogLevel string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConnString returns the pgx connection URL.
func (c DBConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type TelegramConfig struct {
	Token    string
	AdminIDs []int64 // telegram users allowed to edit menus
}

type HTTPConfig struct {
	Addr string // empty (HTTP_ADDR=off) disables the HTTP server
}

type EditorConfig struct {
	ImageMaxBytes int64
	HistoryLimit  int
	AutoMigrate   bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	admins, err := parseIDs(getEnv("ADMIN_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}
	maxBytes, err := getInt("IMAGE_MAX_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	historyLimit, err := getInt("HISTORY_LIMIT", 50)
	if err != nil {
		return nil, err
	}

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "daily_menu"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Telegram: TelegramConfig{
			Token:    getEnv("TOKEN", ""),
			AdminIDs: admins,
		},
		HTTP: HTTPConfig{
			Addr: httpAddr(getEnv("HTTP_ADDR", ":8080")),
		},
		Editor: EditorConfig{
			ImageMaxBytes: int64(maxBytes),
			HistoryLimit:  historyLimit,
			AutoMigrate:   getBool("AUTO_MIGRATE"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func httpAddr(v string) string {
	if strings.EqualFold(v, "off") {
		return ""
	}
	return v
}

// getBool accepts "1" or "true" (any case).
func getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true")
}

// parseIDs parses a comma separated list of telegram user ids.
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid telegram user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
