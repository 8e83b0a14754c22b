package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "propnet.yaml",
			content: `workers: 4
max_steps: 500
policy: collect
log_level: debug
`,
		},
		{
			name:    "json",
			file:    "propnet.json",
			content: `{"workers": 4, "max_steps": 500, "policy": "collect", "log_level": "debug"}`,
		},
		{
			name: "toml",
			file: "propnet.toml",
			content: `workers = 4
max_steps = 500
policy = "collect"
log_level = "debug"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(write(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, 4, cfg.Workers)
			assert.Equal(t, 500, cfg.MaxSteps)
			assert.Equal(t, domain.PolicyCollect, cfg.Policy)
			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, ":8080", cfg.Addr, "unset keys keep defaults")
		})
	}
}

func TestLoad_WeakTyping(t *testing.T) {
	cfg, err := config.Load(write(t, "propnet.yaml", `workers: "8"`))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		invalid bool
	}{
		{name: "malformed yaml", file: "c.yaml", content: "workers: [1"},
		{name: "malformed json", file: "c.json", content: "{"},
		{name: "unknown key", file: "c.yaml", content: "threads: 2", invalid: true},
		{name: "negative workers", file: "c.yaml", content: "workers: -1", invalid: true},
		{name: "negative steps", file: "c.json", content: `{"max_steps": -5}`, invalid: true},
		{name: "unknown policy", file: "c.toml", content: `policy = "ignore"`, invalid: true},
		{name: "unknown level", file: "c.yaml", content: "log_level: loud", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(write(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, config.ErrInvalid)
			}
		})
	}
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}
