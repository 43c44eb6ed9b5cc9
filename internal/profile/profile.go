package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// LLM configuration (OpenAI-compatible protocol).
	// All providers (openai, deepseek, ollama, ...) use the same config shape.
	LLMProvider string // Provider identifier: openai, deepseek, siliconflow, openrouter, ollama
	LLMAPIKey   string // LLM API key
	LLMBaseURL  string // LLM base URL (optional, has default per provider)
	LLMModel    string // Model name: gpt-4o, deepseek-chat, etc.
	LLMTimeout  int    // LLM request timeout in seconds (default: 60)

	Mode        string // dev, demo, or prod
	Addr        string // address of the HTTP server
	Port        int    // port of the HTTP server
	Data        string // data directory
	Driver      string // database driver: sqlite or postgres
	DSN         string // database source name
	Version     string
	InstanceURL string
}

// Provider default configurations for the LLM.
// Used when LUMEN_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "Qwen/Qwen2.5-72B-Instruct",
	},
	"openrouter": {
		BaseURL: "https://openrouter.ai/api/v1",
		Model:   "deepseek/deepseek-chat",
	},
	"ollama": {
		BaseURL: "http://localhost:11434",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMEnabled returns true if an LLM API key is configured. Local providers
// (ollama) do not require a key, only a base URL.
func (p *Profile) IsLLMEnabled() bool {
	return p.LLMAPIKey != "" || p.LLMProvider == "ollama"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("LUMEN_LLM_PROVIDER", "openai")
	p.LLMAPIKey = getEnvOrDefault("LUMEN_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("LUMEN_LLM_BASE_URL", "")
	p.LLMTimeout = getEnvOrDefaultInt("LUMEN_LLM_TIMEOUT_SECONDS", 60)
	p.LLMModel = getEnvOrDefault("LUMEN_LLM_MODEL", "")

	defaults, ok := llmProviderDefaults[p.LLMProvider]
	if !ok {
		// Unknown provider: treat as a generic OpenAI-compatible endpoint,
		// the base URL and model must then be set explicitly.
		return
	}
	if p.LLMBaseURL == "" {
		p.LLMBaseURL = defaults.BaseURL
	}
	if p.LLMModel == "" {
		p.LLMModel = defaults.Model
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies.
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "lumen")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					return errors.Wrapf(err, "failed to create data directory %s", p.Data)
				}
			}
		} else {
			p.Data = "/var/opt/lumen"
		}
	}

	if p.Driver == "sqlite" {
		dataDir, err := checkDataDir(p.Data)
		if err != nil {
			return err
		}
		p.Data = dataDir
		if p.DSN == "" {
			dbFile := fmt.Sprintf("lumen_%s.db", p.Mode)
			p.DSN = filepath.Join(dataDir, dbFile)
		}
	}

	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	return nil
}
