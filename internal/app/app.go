package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"tagwise/internal/batch"
	"tagwise/internal/config"
	"tagwise/internal/rules"
	"tagwise/internal/services"
	"tagwise/internal/store"
	"tagwise/internal/store/primary"
	"tagwise/internal/textfeat"
	"tagwise/pkg/classifier"
)

// App wires configuration, storage and the classification stack
// together for the CLI, the API server and the worker.
type App struct {
	Config *config.Config

	PostStore   store.PostStore
	ResultStore store.ResultStore
	BatchStore  store.BatchStore
	LabelStore  store.LabelStore
	JobClient   store.JobClient

	Extractor      *textfeat.Extractor
	RuleClassifier *classifier.RuleClassifier
	Classifier     classifier.Classifier
	Orchestrator   *batch.Orchestrator

	closers []func()
}

func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	app := &App{Config: cfg}

	if err := app.initPrimaryStore(context.Background()); err != nil {
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.initClassifier(); err != nil {
		app.Close()
		return nil, err
	}
	app.initOrchestrator()

	log.Info("Application initialization complete.")
	return app, nil
}

// Close releases resources acquired during initialization, in reverse
// order. Safe to call on a partially initialized app.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) initPrimaryStore(ctx context.Context) error {
	ps, err := primary.NewPrimaryStore(ctx, a.Config.Database.DSN)
	if err != nil {
		return fmt.Errorf("init primary store: %w", err)
	}
	a.PostStore = ps
	a.ResultStore = ps
	a.BatchStore = ps
	a.LabelStore = ps
	a.closers = append(a.closers, ps.Close)
	return nil
}

func (a *App) initJobClient() error {
	if a.Config.Redis.Address == "" {
		log.Warn("Redis address not configured; async batch enqueueing is disabled.")
		return nil
	}
	jc, err := store.NewAsynqJobClient(a.Config.Redis.Address, a.Config.Redis.Password, a.Config.Redis.DB)
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	a.JobClient = jc
	a.closers = append(a.closers, func() {
		if err := jc.Close(); err != nil {
			log.Errorf("Error closing job client: %v", err)
		}
	})
	return nil
}

// initClassifier builds the classification stack for the configured
// mode. The rule path is always constructed; classify CLI output and
// the hybrid mode both rely on it.
func (a *App) initClassifier() error {
	cfg := a.Config

	ruleSet, err := rules.NewRuleSet(rules.DefaultRules())
	if err != nil {
		return fmt.Errorf("load rule table: %w", err)
	}
	a.Extractor = textfeat.NewExtractor()
	a.RuleClassifier = classifier.NewRuleClassifier(rules.NewScorer(ruleSet, a.Extractor))

	if cfg.Classifier.Mode == "rule" {
		a.Classifier = a.RuleClassifier
		return nil
	}

	client, err := a.buildCompletionClient()
	if err != nil {
		return err
	}
	opts := []classifier.Option{
		classifier.WithTemperature(cfg.LLM.Temperature),
		classifier.WithMaxTokens(cfg.LLM.MaxTokens),
		classifier.WithCallDelay(time.Duration(cfg.LLM.CallDelayMs) * time.Millisecond),
	}
	if cfg.Classifier.PromptTemplate != "" {
		opts = append(opts, classifier.WithPrompt(cfg.Classifier.PromptTemplate))
	}
	llm, err := classifier.NewLLMClassifier(client, cfg.LLM.Model, opts...)
	if err != nil {
		return fmt.Errorf("init llm classifier: %w", err)
	}

	switch cfg.Classifier.Mode {
	case "llm":
		a.Classifier = llm
	case "hybrid":
		a.Classifier = classifier.NewHybridClassifier(a.RuleClassifier, llm)
	}
	return nil
}

func (a *App) buildCompletionClient() (classifier.ChatCompleter, error) {
	cfg := a.Config
	switch cfg.LLM.Provider {
	case "openai":
		clientCfg := openai.DefaultConfig(cfg.LLM.OpenaiApiKey)
		if cfg.LLM.OpenaiBaseURL != "" {
			clientCfg.BaseURL = cfg.LLM.OpenaiBaseURL
		}
		log.Infof("OpenAI completion provider initialized (model %s)", cfg.LLM.Model)
		return openai.NewClientWithConfig(clientCfg), nil
	case "gemini":
		completer, err := services.NewGeminiCompleter(context.Background(), cfg.LLM.GoogleApiKey)
		if err != nil {
			return nil, fmt.Errorf("init gemini completion provider: %w", err)
		}
		a.closers = append(a.closers, func() {
			if err := completer.Close(); err != nil {
				log.Errorf("Error closing Gemini client: %v", err)
			}
		})
		return completer, nil
	default:
		return nil, fmt.Errorf("unknown or unsupported llm provider: %s", cfg.LLM.Provider)
	}
}

func (a *App) initOrchestrator() {
	a.Orchestrator = batch.NewOrchestrator(
		a.PostStore, a.ResultStore, a.BatchStore, a.LabelStore,
		batch.Config{
			MaxRetries:       a.Config.Batch.MaxRetries,
			DefaultChunkSize: a.Config.Batch.ChunkSize,
			ChunkDelay:       time.Duration(a.Config.Batch.ChunkDelayMs) * time.Millisecond,
			ItemTimeout:      time.Duration(a.Config.LLM.TimeoutSeconds) * time.Second,
		},
	)
}
