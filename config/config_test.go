package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_SSLMODE", "ADMIN_IDS", "HTTP_ADDR", "LOG_LEVEL", "IMAGE_MAX_BYTES", "HISTORY_LIMIT", "AUTO_MIGRATE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "daily_menu", cfg.DB.Database)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(5<<20), cfg.Editor.ImageMaxBytes)
	assert.Equal(t, 50, cfg.Editor.HistoryLimit)
	assert.False(t, cfg.Editor.AutoMigrate)
	assert.Empty(t, cfg.Telegram.AdminIDs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("ADMIN_IDS", "101, 202,,303")
	t.Setenv("AUTO_MIGRATE", "TRUE")
	t.Setenv("HISTORY_LIMIT", "10")
	t.Setenv("HTTP_ADDR", "off")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, []int64{101, 202, 303}, cfg.Telegram.AdminIDs)
	assert.True(t, cfg.Editor.AutoMigrate)
	assert.Equal(t, 10, cfg.Editor.HistoryLimit)
	assert.Empty(t, cfg.HTTP.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DB_PORT", "five"},
		{"ADMIN_IDS", "12,abc"},
		{"ADMIN_IDS", "-4"},
		{"IMAGE_MAX_BYTES", "1MB"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_ConnString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "menus", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/menus?sslmode=disable", c.ConnString())
}
