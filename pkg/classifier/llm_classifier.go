package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// ChatCompleter is the minimal completion-client surface the adapter
// needs. *openai.Client satisfies it; tests substitute a mock.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const defaultCallDelay = 500 * time.Millisecond

// LLMClassifier assigns labels by prompting a hosted completion model
// and parsing its answer. Any label outside the caller's vocabulary is
// discarded before the result is returned.
type LLMClassifier struct {
	client         ChatCompleter
	model          string
	promptOverride string
	temperature    float32
	maxTokens      int
	callDelay      time.Duration
}

// Option configures an LLMClassifier.
type Option func(*LLMClassifier)

// WithPrompt replaces the generated system instruction.
func WithPrompt(prompt string) Option {
	return func(c *LLMClassifier) { c.promptOverride = prompt }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(c *LLMClassifier) { c.temperature = t }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(c *LLMClassifier) { c.maxTokens = n }
}

// WithCallDelay sets the pause ClassifyMany inserts between calls.
func WithCallDelay(d time.Duration) Option {
	return func(c *LLMClassifier) { c.callDelay = d }
}

// NewLLMClassifier creates a classifier backed by an OpenAI-compatible
// chat completion client.
func NewLLMClassifier(client ChatCompleter, model string, opts ...Option) (*LLMClassifier, error) {
	if client == nil {
		return nil, fmt.Errorf("llm classifier requires a completion client")
	}
	if model == "" {
		return nil, fmt.Errorf("llm classifier requires a model name")
	}
	c := &LLMClassifier{
		client:      client,
		model:       model,
		temperature: 0.2,
		maxTokens:   256,
		callDelay:   defaultCallDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Classify prompts the model and returns the vocabulary-filtered
// result. Transport failures surface as *UpstreamError and an empty
// completion as ErrEmptyResponse; an unparseable completion resolves
// to a permissive empty result so one bad answer never aborts a batch.
func (c *LLMClassifier) Classify(ctx context.Context, text string, vocab Vocabulary) (Result, error) {
	res, _, err := c.classify(ctx, text, vocab)
	return res, err
}

// classify additionally reports whether the completion parsed, so
// ClassifyMany can keep neutral results out of the success count.
func (c *LLMClassifier) classify(ctx context.Context, text string, vocab Vocabulary) (Result, bool, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt(vocab)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return Result{}, false, &UpstreamError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return Result{}, false, ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return Result{}, false, ErrEmptyResponse
	}

	parsed, ok := parseResponse(content)
	if !ok {
		log.Warnf("Unparseable completion, returning neutral result: %.120q", content)
		return Result{}, false, nil
	}

	return Result{
		IsLowValue:   parsed.IsValueless,
		TopicTags:    filterVocabulary(parsed.TopicTags, vocab.TopicLabels),
		ContentTypes: filterVocabulary(parsed.ContentTypes, vocab.ContentTypeLabels),
	}, true, nil
}

// ClassifyMany processes texts strictly sequentially with a fixed
// pause between calls to respect upstream rate limits. Per-item
// failures are counted, not propagated; results[i] is the zero Result
// for a failed item. Unparseable completions land in ParseFailures,
// never in Succeeded. onProgress, if non-nil, observes running counts
// after every item.
func (c *LLMClassifier) ClassifyMany(ctx context.Context, texts []string, vocab Vocabulary, onProgress func(Progress)) []Result {
	results := make([]Result, len(texts))
	var progress Progress
	for i, text := range texts {
		if i > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(c.callDelay):
			}
		}
		res, parsed, err := c.classify(ctx, text, vocab)
		progress.Processed++
		switch {
		case err != nil:
			progress.Failed++
			log.Warnf("Classification failed for item %d: %v", i, err)
		case !parsed:
			progress.ParseFailures++
		default:
			progress.Succeeded++
			if res.IsLowValue {
				progress.LowValue++
			}
			results[i] = res
		}
		if onProgress != nil {
			onProgress(progress)
		}
	}
	return results
}

var _ Classifier = (*LLMClassifier)(nil)

// systemPrompt embeds the caller's current vocabularies unless an
// override was supplied. The instruction demands strict JSON so the
// primary parser almost always succeeds.
func (c *LLMClassifier) systemPrompt(vocab Vocabulary) string {
	if c.promptOverride != "" {
		return c.promptOverride
	}
	var b strings.Builder
	b.WriteString("你是一个社交媒体内容分类助手。根据用户提供的帖子文本,判断其主题标签和内容类型,并判断是否为低价值内容。\n")
	b.WriteString("可选主题标签: ")
	b.WriteString(strings.Join(vocab.TopicLabels, ", "))
	b.WriteString("\n可选内容类型: ")
	b.WriteString(strings.Join(vocab.ContentTypeLabels, ", "))
	b.WriteString("\n只能从上述列表中选择,不得新造标签。")
	b.WriteString("严格输出 JSON,不要输出其它文字: ")
	b.WriteString(`{"isValueless": bool, "topicTags": [string], "contentTypes": [string]}`)
	return b.String()
}
