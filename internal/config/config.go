// Package config provides configuration management for the LaTeX project
// translator.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"latex-project-translator/internal/logger"
	"latex-project-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "latex-project-translator.json"
	// EnvOpenAIAPIKey is the environment variable name for the OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for the OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default OpenAI model to use
	DefaultModel = "gpt-4o"
	// DefaultTargetLanguage is the default translation target
	DefaultTargetLanguage = string(types.LanguageJapanese)
	// DefaultCompiler is the default LaTeX compiler
	DefaultCompiler = "pdflatex"
	// DefaultCompileTimeout is the default per-pass compile timeout in seconds
	DefaultCompileTimeout = 300
	// DefaultConcurrency is the default translation concurrency
	DefaultConcurrency = 3
)

// Manager loads, holds and persists the application configuration.
type Manager struct {
	configPath string
	config     *types.Config
}

// NewManager creates a Manager with the specified config path. If configPath
// is empty, it uses the default path in the user's home directory.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "latex-project-translator", DefaultConfigFileName)
	}

	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		OpenAIAPIKey:   "",
		OpenAIBaseURL:  DefaultBaseURL,
		OpenAIModel:    DefaultModel,
		TargetLanguage: DefaultTargetLanguage,
		Compiler:       DefaultCompiler,
		CompileTimeout: DefaultCompileTimeout,
		Concurrency:    DefaultConcurrency,
		WorkDirectory:  "",
	}
}

// Load loads configuration from the config file. A missing file or invalid
// JSON falls back to defaults; empty fields of a loaded file are filled with
// defaults afterwards.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded",
				logger.String("path", m.configPath),
				logger.String("model", config.OpenAIModel),
				logger.String("targetLanguage", config.TargetLanguage))
			m.config = config
		}
	}

	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = DefaultModel
	}
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = DefaultBaseURL
	}
	if m.config.TargetLanguage == "" {
		m.config.TargetLanguage = DefaultTargetLanguage
	}
	if m.config.Compiler == "" {
		m.config.Compiler = DefaultCompiler
	}
	if m.config.CompileTimeout == 0 {
		m.config.CompileTimeout = DefaultCompileTimeout
	}
	if m.config.Concurrency == 0 {
		m.config.Concurrency = DefaultConcurrency
	}

	return nil
}

// Save writes the current configuration to the config file.
func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	// 0600: the file holds the API key
	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// GetAPIKey returns the OpenAI API key, preferring the config file value and
// falling back to the environment variable.
func (m *Manager) GetAPIKey() string {
	if m.config != nil && m.config.OpenAIAPIKey != "" {
		return m.config.OpenAIAPIKey
	}
	return os.Getenv(EnvOpenAIAPIKey)
}

// SetAPIKey sets the OpenAI API key and saves the configuration.
func (m *Manager) SetAPIKey(key string) error {
	if m.config == nil {
		m.config = defaultConfig()
	}
	m.config.OpenAIAPIKey = key
	return m.Save()
}

// GetBaseURL returns the OpenAI API base URL, preferring the config file
// value and falling back to the environment variable, then the default.
func (m *Manager) GetBaseURL() string {
	if m.config != nil && m.config.OpenAIBaseURL != "" && m.config.OpenAIBaseURL != DefaultBaseURL {
		return m.config.OpenAIBaseURL
	}
	if envURL := os.Getenv(EnvOpenAIBaseURL); envURL != "" {
		return envURL
	}
	return DefaultBaseURL
}

// GetModel returns the OpenAI model to use.
func (m *Manager) GetModel() string {
	if m.config != nil && m.config.OpenAIModel != "" {
		return m.config.OpenAIModel
	}
	return DefaultModel
}

// GetTargetLanguage returns the configured translation target.
func (m *Manager) GetTargetLanguage() types.TargetLanguage {
	if m.config != nil && m.config.TargetLanguage != "" {
		return types.TargetLanguage(m.config.TargetLanguage)
	}
	return types.TargetLanguage(DefaultTargetLanguage)
}

// GetCompiler returns the configured LaTeX compiler.
func (m *Manager) GetCompiler() string {
	if m.config != nil && m.config.Compiler != "" {
		return m.config.Compiler
	}
	return DefaultCompiler
}

// GetCompileTimeout returns the compile timeout in seconds.
func (m *Manager) GetCompileTimeout() int {
	if m.config != nil && m.config.CompileTimeout > 0 {
		return m.config.CompileTimeout
	}
	return DefaultCompileTimeout
}

// GetConcurrency returns the translation concurrency.
func (m *Manager) GetConcurrency() int {
	if m.config != nil && m.config.Concurrency > 0 {
		return m.config.Concurrency
	}
	return DefaultConcurrency
}

// GetWorkDirectory returns the work directory.
func (m *Manager) GetWorkDirectory() string {
	if m.config != nil {
		return m.config.WorkDirectory
	}
	return ""
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig replaces the entire configuration.
func (m *Manager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}
