package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INSURANCE_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.APIHost)
	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 0.7, cfg.SimilarityThreshold)
	assert.Equal(t, []string{"pdf", "docx", "txt"}, cfg.AllowedFileTypes)
	assert.Equal(t, "default", cfg.Source("api_port"))
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
api_port: 9000
chunk_size: 500
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	t.Setenv("INSURANCE_CONFIG_PATH", dir)
	t.Setenv("API_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, "environment", cfg.Source("api_port"))
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, "file", cfg.Source("chunk_size"))
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not yaml"), 0o644))

	t.Setenv("INSURANCE_CONFIG_PATH", dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return newDefault()
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing api key is allowed", func(t *testing.T) {
		cfg := valid()
		cfg.OpenAIAPIKey = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing database url", func(t *testing.T) {
		cfg := valid()
		cfg.DatabaseURL = ""
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		cfg := valid()
		cfg.ChunkOverlap = 2000
		assert.ErrorContains(t, cfg.Validate(), "chunk_overlap")
	})

	t.Run("threshold out of range", func(t *testing.T) {
		cfg := valid()
		cfg.SimilarityThreshold = 1.5
		assert.ErrorContains(t, cfg.Validate(), "similarity_threshold")
	})

	t.Run("unsupported file type", func(t *testing.T) {
		cfg := valid()
		cfg.AllowedFileTypes = []string{"pdf", "exe"}
		assert.ErrorContains(t, cfg.Validate(), "exe")
	})
}

func TestTruthyEnvValues(t *testing.T) {
	t.Setenv("INSURANCE_CONFIG_PATH", t.TempDir())

	for _, val := range []string{"1", "true", "Yes", "on"} {
		t.Setenv("DEBUG", val)
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Debug, "value %q", val)
	}

	t.Setenv("DEBUG", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
}

func TestIsFileTypeAllowed(t *testing.T) {
	cfg := newDefault()

	assert.True(t, cfg.IsFileTypeAllowed("pdf"))
	assert.True(t, cfg.IsFileTypeAllowed(".PDF"))
	assert.False(t, cfg.IsFileTypeAllowed("exe"))
}

func TestAttributesRedactsSecrets(t *testing.T) {
	cfg := newDefault()
	cfg.OpenAIAPIKey = "sk-secret"

	for _, attr := range cfg.Attributes() {
		switch attr.Name {
		case "openai_api_key":
			assert.Equal(t, "[REDACTED]", attr.Value)
		case "database_url":
			assert.Equal(t, "[REDACTED]", attr.Value)
		case "redis_url":
			assert.Equal(t, "", attr.Value)
		}
	}
}
