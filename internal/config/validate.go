package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}

	switch c.Classifier.Mode {
	case "rule":
		// no provider needed
	case "llm", "hybrid":
		switch c.LLM.Provider {
		case "openai":
			if c.LLM.OpenaiApiKey == "" {
				return errors.New("llm.openai_api_key is required when the openai provider is enabled")
			}
		case "gemini":
			if c.LLM.GoogleApiKey == "" {
				return errors.New("llm.google_api_key is required when the gemini provider is enabled")
			}
		default:
			return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
		}
		if c.LLM.Model == "" {
			return errors.New("llm.model is required when the llm path is enabled")
		}
	default:
		return fmt.Errorf("classifier.mode must be rule, llm or hybrid, got %q", c.Classifier.Mode)
	}

	if c.Batch.ChunkSize <= 0 {
		return errors.New("batch.chunk_size must be a positive integer")
	}
	if c.Batch.MaxRetries <= 0 {
		return errors.New("batch.max_retries must be a positive integer")
	}
	if c.Batch.ChunkDelayMs < 0 {
		return errors.New("batch.chunk_delay_ms must be non-negative")
	}

	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}
	return nil
}
