package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Database: DatabaseConfig{Path: "/some/path/midshelf.db"},
		Auth: AuthConfig{
			SessionDuration:    720 * time.Hour,
			LoginRatePerMinute: 10,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDatabasePath(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = ""

	assert.Error(t, cfg.Validate())
}

func TestValidate_SessionDuration(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.SessionDuration = 0
	assert.Error(t, cfg.Validate())

	cfg.Auth.SessionDuration = -time.Hour
	assert.Error(t, cfg.Validate())
}

func TestValidate_LoginRate(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.LoginRatePerMinute = 0

	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/fallback")
		require.NoError(t, err)
		assert.Equal(t, "/fallback", got)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := expandPath("~/data/midshelf.db", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "data", "midshelf.db"), got)
	})

	t.Run("absolute path is cleaned", func(t *testing.T) {
		got, err := expandPath("/a/b/../c", "")
		require.NoError(t, err)
		assert.Equal(t, "/a/c", got)
	})
}

func TestExpandDatabasePath_Default(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := validConfig()
	cfg.Database.Path = ""
	require.NoError(t, cfg.expandDatabasePath())

	assert.Equal(t, filepath.Join(home, "midshelf", "midshelf.db"), cfg.Database.Path)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	const key = "MIDSHELF_TEST_CONFIG_VALUE"
	t.Setenv(key, "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", key, "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", key, "fallback"))

	os.Unsetenv(key)
	assert.Equal(t, "fallback", getConfigValue("", key, "fallback"))
}

func TestGetIntConfigValue(t *testing.T) {
	const key = "MIDSHELF_TEST_INT_VALUE"

	assert.Equal(t, 10, getIntConfigValue("", key, 10))
	assert.Equal(t, 25, getIntConfigValue("25", key, 10))
	assert.Equal(t, 10, getIntConfigValue("not-a-number", key, 10))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nMIDSHELF_TEST_ENVFILE_A=hello\nMIDSHELF_TEST_ENVFILE_B=\"quoted\"\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("MIDSHELF_TEST_ENVFILE_A")
		os.Unsetenv("MIDSHELF_TEST_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("MIDSHELF_TEST_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("MIDSHELF_TEST_ENVFILE_B"))
}

func TestLoadEnvFile_InvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}
