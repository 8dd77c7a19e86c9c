package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ReportCSV, cfg.Report.Type)
	assert.False(t, cfg.Engine.AllowClientMismatch)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name: "valid sqlite",
			config: &Config{
				LogLevel: "DEBUG",
				Report:   ReportConfig{Type: ReportSQLite, DBPath: "runs.sqlite"},
			},
			wantErr: false,
		},
		{
			name: "bad log level",
			config: &Config{
				LogLevel: "loud",
				Report:   ReportConfig{Type: ReportCSV},
			},
			wantErr: true,
			errMsg:  "log_level must be one of",
		},
		{
			name: "unknown report type",
			config: &Config{
				LogLevel: "info",
				Report:   ReportConfig{Type: "xml"},
			},
			wantErr: true,
			errMsg:  "report.type must be 'csv' or 'sqlite'",
		},
		{
			name: "sqlite without path",
			config: &Config{
				LogLevel: "info",
				Report:   ReportConfig{Type: ReportSQLite},
			},
			wantErr: true,
			errMsg:  "report db_path required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Engine.AllowClientMismatch = true
			cfg.Report = ReportConfig{Type: ReportSQLite, DBPath: "out.sqlite"}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  allow_client_mismatch: true\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Engine.AllowClientMismatch)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ReportCSV, cfg.Report.Type)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report:\n  type: xml\n"), 0o644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadSkipsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loud.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "loud", cfg.LogLevel)
	assert.Error(t, cfg.Validate())

	cfg.LogLevel = "error"
	assert.NoError(t, cfg.Validate())
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}
