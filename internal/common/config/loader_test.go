package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "credit-risk-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearCredentials(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: risk\n"))
	require.NoError(t, err)

	assert.Equal(t, "risk", cfg.App.Name)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, 60000, cfg.LLM.Timeout)
	assert.Equal(t, DatasetSourceCSV, cfg.Dataset.Source)
	assert.Equal(t, "customer_database.csv", cfg.Dataset.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadFromFile_MissingCredential(t *testing.T) {
	clearCredentials(t)

	_, err := LoadFromFile(writeConfig(t, "llm:\n  provider: openai\n"))
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, apperrors.ErrCodeMissingCredential, stdErr.Code)
	assert.Contains(t, stdErr.Details, "OPENAI_API_KEY")
}

func TestLoadFromFile_GeminiCredential(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := LoadFromFile(writeConfig(t, "llm:\n  provider: Gemini\n"))
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.BaseURL)
}

func TestLoadFromFile_EnvOverridesFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("LLM_API_KEY", "from-env")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")

	cfg, err := LoadFromFile(writeConfig(t, "llm:\n  model: gpt-4.1\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	clearCredentials(t)
	t.Setenv("RISK_TEST_KEY", "expanded-key")

	cfg, err := LoadFromFile(writeConfig(t, "llm:\n  api_key: ${RISK_TEST_KEY}\n"))
	require.NoError(t, err)

	assert.Equal(t, "expanded-key", cfg.LLM.APIKey)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown provider", "llm:\n  provider: llama\n  api_key: k\n"},
		{"unknown dataset source", "llm:\n  api_key: k\ndataset:\n  source: s3\n"},
		{"postgres without host", "llm:\n  api_key: k\ndataset:\n  source: postgres\n"},
		{"cache without redis", "llm:\n  api_key: k\n  cache:\n    enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentials(t)

			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)

			var stdErr *apperrors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, apperrors.ErrCodeInvalidConfig, stdErr.Code)
		})
	}
}

func TestWorkerDefaults(t *testing.T) {
	clearCredentials(t)
	body := "llm:\n  api_key: k\n  timeout: 10000\nworkers:\n  assess-credit-risk:\n    enabled: true\n"

	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)

	w := GetWorkerConfig(cfg, "assess-credit-risk")
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 15000, w.Timeout)

	assert.True(t, GetWorkerConfig(cfg, "not-configured").Enabled)
	assert.Equal(t, 15*time.Second, GetDuration(w.Timeout))
}

func TestValidateForWorker(t *testing.T) {
	assert.Error(t, ValidateForWorker(&Config{}))
	assert.NoError(t, ValidateForWorker(&Config{Camunda: CamundaConfig{BrokerAddress: "localhost:26500"}}))
}

func TestLoadForTools_SkipsCredentialCheck(t *testing.T) {
	clearCredentials(t)

	cfg, err := LoadForTools()
	require.NoError(t, err)

	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, "applicants", cfg.Dataset.Table)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
}
