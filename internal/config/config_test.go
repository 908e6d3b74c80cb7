package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DASHBOARD_ADDR", ":8080")
	t.Setenv("DASHBOARD_SOURCE", "http")
	t.Setenv("DASHBOARD_DATA_URL", DefaultDataURL+"/")
	t.Setenv("DASHBOARD_CACHE_TTL_SECONDS", "")
	t.Setenv("DASHBOARD_LOAD_TIMEOUT_SECONDS", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "info")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, SourceHTTP, cfg.Source)
	assert.Equal(t, DefaultDataURL, cfg.DataURL)
	assert.Equal(t, 600*time.Second, cfg.CacheTTL)
	assert.Equal(t, 60*time.Second, cfg.LoadTimeout)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		expectErr bool
		check     func(t *testing.T, cfg *Config)
	}{
		{
			name: "CSV Source",
			env:  map[string]string{"DASHBOARD_SOURCE": "CSV", "DASHBOARD_DATA_DIR": "/tmp/olist"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, SourceCSV, cfg.Source)
				assert.Equal(t, "/tmp/olist", cfg.DataDir)
			},
		},
		{
			name:      "Unknown Source",
			env:       map[string]string{"DASHBOARD_SOURCE": "ftp"},
			expectErr: true,
		},
		{
			name: "Invalid Integer Falls Back",
			env:  map[string]string{"DASHBOARD_SOURCE": "http", "DASHBOARD_CACHE_TTL_SECONDS": "ten", "REDIS_DB": "2"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 600*time.Second, cfg.CacheTTL)
				assert.Equal(t, 2, cfg.Redis.DB)
			},
		},
		{
			name: "Invalid Log Level Falls Back",
			env:  map[string]string{"DASHBOARD_SOURCE": "postgres", "LOG_LEVEL": "chatty"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, SourcePostgres, cfg.Source)
				assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
