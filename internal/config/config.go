package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	LLM struct {
		Provider       string  `mapstructure:"provider"` // "openai" or "gemini"
		Model          string  `mapstructure:"model"`
		OpenaiApiKey   string  `mapstructure:"openai_api_key"`
		OpenaiBaseURL  string  `mapstructure:"openai_base_url"` // optional OpenAI-compatible endpoint
		GoogleApiKey   string  `mapstructure:"google_api_key"`
		Temperature    float32 `mapstructure:"temperature"`
		MaxTokens      int     `mapstructure:"max_tokens"`
		TimeoutSeconds int     `mapstructure:"timeout_seconds"`
		CallDelayMs    int     `mapstructure:"call_delay_ms"`
	} `mapstructure:"llm"`

	Classifier struct {
		Mode           string `mapstructure:"mode"` // "rule", "llm" or "hybrid"
		PromptTemplate string `mapstructure:"prompt_template"`
	} `mapstructure:"classifier"`

	Batch struct {
		ChunkSize    int `mapstructure:"chunk_size"`
		MaxRetries   int `mapstructure:"max_retries"`
		ChunkDelayMs int `mapstructure:"chunk_delay_ms"`
	} `mapstructure:"batch"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	API struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"api"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	// Allow Viper to read environment variables; bind the common
	// provider keys so they work without a config file entry.
	viper.AutomaticEnv()
	viper.BindEnv("llm.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("llm.google_api_key", "GEMINI_API_KEY")

	viper.SetDefault("classifier.mode", "rule")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 256)
	viper.SetDefault("llm.timeout_seconds", 60)
	viper.SetDefault("llm.call_delay_ms", 500)
	viper.SetDefault("batch.chunk_size", 20)
	viper.SetDefault("batch.max_retries", 3)
	viper.SetDefault("batch.chunk_delay_ms", 500)
	viper.SetDefault("worker.concurrency", 4)
	viper.SetDefault("worker.queues", map[string]int{"classification": 1})
	viper.SetDefault("api.address", ":8080")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
