package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("LUMEN_LLM_PROVIDER", "")
	t.Setenv("LUMEN_LLM_API_KEY", "")
	t.Setenv("LUMEN_LLM_BASE_URL", "")
	t.Setenv("LUMEN_LLM_MODEL", "")

	p := &Profile{}
	p.FromEnv()

	require.Equal(t, "openai", p.LLMProvider)
	require.Equal(t, "https://api.openai.com/v1", p.LLMBaseURL)
	require.Equal(t, "gpt-4o-mini", p.LLMModel)
	require.Equal(t, 60, p.LLMTimeout)
	require.False(t, p.IsLLMEnabled())
}

func TestFromEnvProviderDefaults(t *testing.T) {
	tests := []struct {
		provider    string
		wantBaseURL string
		wantModel   string
	}{
		{"deepseek", "https://api.deepseek.com", "deepseek-chat"},
		{"ollama", "http://localhost:11434", "llama3.1"},
		{"openrouter", "https://openrouter.ai/api/v1", "deepseek/deepseek-chat"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv("LUMEN_LLM_PROVIDER", tt.provider)
			t.Setenv("LUMEN_LLM_BASE_URL", "")
			t.Setenv("LUMEN_LLM_MODEL", "")

			p := &Profile{}
			p.FromEnv()
			require.Equal(t, tt.wantBaseURL, p.LLMBaseURL)
			require.Equal(t, tt.wantModel, p.LLMModel)
		})
	}
}

func TestFromEnvExplicitOverridesDefaults(t *testing.T) {
	t.Setenv("LUMEN_LLM_PROVIDER", "deepseek")
	t.Setenv("LUMEN_LLM_BASE_URL", "http://proxy.internal/v1")
	t.Setenv("LUMEN_LLM_MODEL", "deepseek-reasoner")
	t.Setenv("LUMEN_LLM_API_KEY", "sk-test")

	p := &Profile{}
	p.FromEnv()
	require.Equal(t, "http://proxy.internal/v1", p.LLMBaseURL)
	require.Equal(t, "deepseek-reasoner", p.LLMModel)
	require.True(t, p.IsLLMEnabled())
}

func TestValidate(t *testing.T) {
	t.Run("unknown mode falls back to demo", func(t *testing.T) {
		p := &Profile{Mode: "staging", Driver: "sqlite", Data: t.TempDir()}
		require.NoError(t, p.Validate())
		require.Equal(t, "demo", p.Mode)
	})

	t.Run("sqlite gets default dsn under data dir", func(t *testing.T) {
		dir := t.TempDir()
		p := &Profile{Mode: "dev", Driver: "sqlite", Data: dir}
		require.NoError(t, p.Validate())
		require.Contains(t, p.DSN, "lumen_dev.db")
	})

	t.Run("postgres requires dsn", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "postgres"}
		require.Error(t, p.Validate())
	})

	t.Run("unsupported driver", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "mysql"}
		require.Error(t, p.Validate())
	})
}
