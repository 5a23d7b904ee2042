package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the finsight assistant.
type Config struct {
	// Stock data
	AlphavantageAPIKey     string `mapstructure:"alphavantage_api_key"`
	AlphavantageBaseURL    string `mapstructure:"alphavantage_base_url"`
	AlphavantageOutputSize string `mapstructure:"alphavantage_output_size"`

	// Web search backing the sentiment pipeline
	SearchAPIKey     string `mapstructure:"search_api_key"`
	SearchBaseURL    string `mapstructure:"search_base_url"`
	SearchMaxResults int    `mapstructure:"search_max_results"`

	// OpenAI-compatible chat completion API
	LLMAPIKey        string  `mapstructure:"llm_api_key"`
	LLMBaseURL       string  `mapstructure:"llm_base_url"`
	LLMModel         string  `mapstructure:"llm_model"`
	LLMTemperature   float64 `mapstructure:"llm_temperature"`
	LLMMaxInputChars int     `mapstructure:"llm_max_input_chars"`

	// Upper bound for answering a single query
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// envKeys maps config keys to the environment variables that set them
var envKeys = map[string]string{
	"alphavantage_api_key":     "ALPHAVANTAGE_API_KEY",
	"alphavantage_base_url":    "ALPHAVANTAGE_BASE_URL",
	"alphavantage_output_size": "ALPHAVANTAGE_OUTPUT_SIZE",
	"search_api_key":           "SEARCH_API_KEY",
	"search_base_url":          "SEARCH_BASE_URL",
	"search_max_results":       "SEARCH_MAX_RESULTS",
	"llm_api_key":              "LLM_API_KEY",
	"llm_base_url":             "LLM_BASE_URL",
	"llm_model":                "LLM_MODEL",
	"llm_temperature":          "LLM_TEMPERATURE",
	"llm_max_input_chars":      "LLM_MAX_INPUT_CHARS",
	"request_timeout":          "REQUEST_TIMEOUT",
}

// LoadDotEnv copies a .env file in the working directory, when present, into
// the environment. Variables that are already set win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

// Load reads configuration from a .env file (when present), environment
// variables and an optional config.yaml. Environment variables take
// precedence over the config file.
//
// Required:
//   - ALPHAVANTAGE_API_KEY
//   - SEARCH_API_KEY
//   - LLM_API_KEY
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("alphavantage_output_size", "full")
	v.SetDefault("search_base_url", "https://api.tavily.com")
	v.SetDefault("search_max_results", 5)
	v.SetDefault("llm_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm_model", "openai/gpt-4o-mini")
	v.SetDefault("llm_temperature", 0.2)
	v.SetDefault("llm_max_input_chars", 12000)
	v.SetDefault("request_timeout", "60s")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.finsight")

	// A missing config file is fine; a malformed one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports every missing required setting at once
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.AlphavantageAPIKey) == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}
	if strings.TrimSpace(c.SearchAPIKey) == "" {
		missing = append(missing, "SEARCH_API_KEY")
	}
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT %s: must be positive", c.RequestTimeout)
	}
	return nil
}
