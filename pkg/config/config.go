package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alantheprice/recode/pkg/prompts"
	"github.com/alantheprice/recode/pkg/utils"

	"github.com/joho/godotenv"
)

const (
	LargeCoder  = "ollama:qwen2.5-coder:32b"
	MediumCoder = "ollama:qwen2.5-coder:14b"
	SmallCoder  = "ollama:qwen2.5-coder:7b"
	MicroCoder  = "ollama:qwen2.5-coder:3b"
)

type Config struct {
	AgentModel         string  `json:"agent_model"`      // routes natural-language requests to tools
	EditingModel       string  `json:"editing_model"`    // whole-file and snippet refactors
	ConversionModel    string  `json:"conversion_model"` // language migration
	DepsModel          string  `json:"deps_model"`       // dependency analysis and rewrites
	LocalModel         string  `json:"local_model"`
	OllamaServerURL    string  `json:"ollama_server_url"`
	Temperature        float64 `json:"temperature"`
	TopP               float64 `json:"top_p"`
	MaxAnalysisChars   int     `json:"max_analysis_chars"`
	DepsMaxFiles       int     `json:"deps_max_files"`
	DepsMaxFileBytes   int     `json:"deps_max_file_bytes"`
	RequestTimeoutSecs int     `json:"request_timeout_secs"`
	TrackChanges       bool    `json:"track_changes"`
	JsonLogs           bool    `json:"json_logs"`
	SkipPrompt         bool    `json:"-"` // Internal use, not saved to config
	Interactive        bool    `json:"-"` // Internal use, not saved to config
}

func getHomeConfigPath() (string, string) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	configDir := filepath.Join(home, ".recode")
	return configDir, filepath.Join(configDir, "config.json")
}

func getCurrentConfigPath() (string, string) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", ""
	}
	configDir := filepath.Join(cwd, ".recode")
	return configDir, filepath.Join(configDir, "config.json")
}

func (cfg *Config) setDefaultValues() {
	if cfg.AgentModel == "" {
		cfg.AgentModel = "openai:gpt-4o"
	}
	if cfg.EditingModel == "" {
		cfg.EditingModel = "openai:gpt-4o-mini"
	}
	if cfg.ConversionModel == "" {
		cfg.ConversionModel = "openai:gpt-4o"
	}
	if cfg.DepsModel == "" {
		cfg.DepsModel = cfg.AgentModel
	}
	if cfg.LocalModel == "" {
		cfg.LocalModel = SmallCoder
	}
	if cfg.OllamaServerURL == "" {
		cfg.OllamaServerURL = "http://localhost:11434"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1 // Very low temperature for consistency
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.9
	}
	if cfg.MaxAnalysisChars == 0 {
		cfg.MaxAnalysisChars = 8000
	}
	if cfg.DepsMaxFiles == 0 {
		cfg.DepsMaxFiles = 40
	}
	if cfg.DepsMaxFileBytes == 0 {
		cfg.DepsMaxFileBytes = 200_000
	}
	if cfg.RequestTimeoutSecs == 0 {
		cfg.RequestTimeoutSecs = 300
	}
}

func loadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	// Booleans that default to true must be seeded before unmarshaling, so an
	// older config that omits them keeps the default while an explicit false
	// in the file still wins.
	cfg.TrackChanges = true

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.setDefaultValues()
	if result := cfg.Validate(); !result.IsValid() {
		return nil, result.CombinedError()
	}
	return &cfg, nil
}

func saveConfig(filePath string, cfg *Config) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

func createConfig(filePath string, skipPrompt bool) (*Config, error) {
	cfg := &Config{TrackChanges: true}

	if !skipPrompt {
		reader := bufio.NewReader(os.Stdin)

		fmt.Print(prompts.EnterAgentModel("openai:gpt-4o"))
		agentModel, _ := reader.ReadString('\n')
		cfg.AgentModel = strings.TrimSpace(agentModel)

		fmt.Print(prompts.EnterEditingModel("openai:gpt-4o-mini"))
		editingModel, _ := reader.ReadString('\n')
		cfg.EditingModel = strings.TrimSpace(editingModel)

		fmt.Print(prompts.EnterConversionModel("openai:gpt-4o"))
		conversionModel, _ := reader.ReadString('\n')
		cfg.ConversionModel = strings.TrimSpace(conversionModel)

		fmt.Print(prompts.TrackChangesPrompt())
		trackStr, _ := reader.ReadString('\n')
		track := strings.TrimSpace(strings.ToLower(trackStr))
		cfg.TrackChanges = track == "" || track == "yes" || track == "y"
	}

	cfg.setDefaultValues()

	if err := saveConfig(filePath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrInitConfig loads the config from the working directory first, then the
// home directory, creating one at the home location when neither exists. A
// .env file in the working directory is loaded first and overrides the
// inherited environment.
func LoadOrInitConfig(skipPrompt bool) (*Config, error) {
	logger := utils.GetLogger(skipPrompt)

	godotenv.Overload()

	_, currentConfigPath := getCurrentConfigPath()
	_, homeConfigPath := getHomeConfigPath()

	if _, err := os.Stat(currentConfigPath); err == nil {
		cfg, lerr := loadConfig(currentConfigPath)
		if lerr != nil {
			return nil, lerr
		}
		cfg.SkipPrompt = skipPrompt
		return cfg, nil
	}
	if _, err := os.Stat(homeConfigPath); err == nil {
		cfg, lerr := loadConfig(homeConfigPath)
		if lerr != nil {
			return nil, lerr
		}
		cfg.SkipPrompt = skipPrompt
		return cfg, nil
	}

	logger.LogUserInteraction(prompts.NoConfigFound())
	cfg, err := createConfig(homeConfigPath, skipPrompt)
	if err != nil {
		return nil, fmt.Errorf("could not create initial config: %w", err)
	}
	cfg.SkipPrompt = skipPrompt
	logger.LogUserInteraction(prompts.ConfigSaved(homeConfigPath))
	return cfg, nil
}

// InitConfig creates a fresh config in the working directory, prompting for
// model choices unless skipPrompt is set.
func InitConfig(skipPrompt bool) error {
	logger := utils.GetLogger(skipPrompt)

	_, currentConfigPath := getCurrentConfigPath()
	_, err := createConfig(currentConfigPath, skipPrompt)
	if err != nil {
		return err
	}
	logger.LogUserInteraction(prompts.ConfigSaved(currentConfigPath))
	return nil
}
