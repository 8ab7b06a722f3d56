package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock completion client ---

type mockChatCompleter struct {
	mockResponse openai.ChatCompletionResponse
	mockError    error
	calls        int
	lastRequest  openai.ChatCompletionRequest
}

func (m *mockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.calls++
	m.lastRequest = req
	if m.mockError != nil {
		return openai.ChatCompletionResponse{}, m.mockError
	}
	return m.mockResponse, nil
}

// scriptedCompleter returns one scripted reply per call, in order.
type scriptedCompleter struct {
	replies []openai.ChatCompletionResponse
	errs    []error
	calls   int
}

func (m *scriptedCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	i := m.calls
	m.calls++
	if m.errs[i] != nil {
		return openai.ChatCompletionResponse{}, m.errs[i]
	}
	return m.replies[i], nil
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func testVocabulary() Vocabulary {
	return Vocabulary{
		TopicLabels:       []string{"人工智能", "编程", "生活方式"},
		ContentTypeLabels: []string{"教程", "新闻/事件", "研究/数据"},
	}
}

// --- Tests ---

func TestNewLLMClassifier_Validation(t *testing.T) {
	_, err := NewLLMClassifier(nil, "gpt-test")
	assert.Error(t, err)

	_, err = NewLLMClassifier(&mockChatCompleter{}, "")
	assert.Error(t, err)
}

func TestClassify_CodeFencedJSONWithVocabularyFilter(t *testing.T) {
	content := "```json\n{\"isValueless\": false, \"topicTags\": [\"人工智能\", \"区块链\"], \"contentTypes\": [\"教程\"]}\n```"
	mock := &mockChatCompleter{mockResponse: textResponse(content)}

	c, err := NewLLMClassifier(mock, "gpt-test")
	require.NoError(t, err)

	result, err := c.Classify(context.Background(), "测试文本", testVocabulary())
	require.NoError(t, err)

	assert.False(t, result.IsLowValue)
	assert.Equal(t, []string{"人工智能"}, result.TopicTags, "区块链 is outside the vocabulary and must be dropped")
	assert.Equal(t, []string{"教程"}, result.ContentTypes)
}

func TestClassify_CaseInsensitiveCanonicalCasing(t *testing.T) {
	content := `{"isValueless": false, "topicTags": ["ai"], "contentTypes": []}`
	mock := &mockChatCompleter{mockResponse: textResponse(content)}

	c, err := NewLLMClassifier(mock, "gpt-test")
	require.NoError(t, err)

	result, err := c.Classify(context.Background(), "text", Vocabulary{TopicLabels: []string{"AI"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"AI"}, result.TopicTags, "matching is case-insensitive but output uses vocabulary casing")
}

func TestClassify_LabeledLineFallback(t *testing.T) {
	content := "分类结果如下\n主题标签: 人工智能、编程\n内容类型: 教程\n低价值: 是"
	mock := &mockChatCompleter{mockResponse: textResponse(content)}

	c, err := NewLLMClassifier(mock, "gpt-test")
	require.NoError(t, err)

	result, err := c.Classify(context.Background(), "text", testVocabulary())
	require.NoError(t, err)

	assert.True(t, result.IsLowValue)
	assert.Equal(t, []string{"人工智能", "编程"}, result.TopicTags)
	assert.Equal(t, []string{"教程"}, result.ContentTypes)
}

func TestClassify_UnparseableContentIsPermissive(t *testing.T) {
	mock := &mockChatCompleter{mockResponse: textResponse("I cannot classify this text, sorry.")}

	c, err := NewLLMClassifier(mock, "gpt-test")
	require.NoError(t, err)

	result, err := c.Classify(context.Background(), "text", testVocabulary())
	require.NoError(t, err, "an unparseable answer must not become an item failure")
	assert.Equal(t, Result{}, result)
}

func TestClassify_EmptyResponse(t *testing.T) {
	for name, resp := range map[string]openai.ChatCompletionResponse{
		"no choices":    {},
		"blank content": textResponse("   "),
	} {
		t.Run(name, func(t *testing.T) {
			c, err := NewLLMClassifier(&mockChatCompleter{mockResponse: resp}, "gpt-test")
			require.NoError(t, err)

			_, err = c.Classify(context.Background(), "text", testVocabulary())
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestClassify_TransportErrorWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	mock := &mockChatCompleter{mockError: cause}

	c, err := NewLLMClassifier(mock, "gpt-test")
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "text", testVocabulary())
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.ErrorIs(t, err, cause)
}

func TestClassify_PromptEmbedsVocabulary(t *testing.T) {
	mock := &mockChatCompleter{mockResponse: textResponse(`{"isValueless": false}`)}

	c, err := NewLLMClassifier(mock, "gpt-test", WithTemperature(0.7), WithMaxTokens(128))
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "post body", testVocabulary())
	require.NoError(t, err)

	req := mock.lastRequest
	assert.Equal(t, "gpt-test", req.Model)
	assert.InDelta(t, 0.7, float64(req.Temperature), 1e-6)
	assert.Equal(t, 128, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Contains(t, req.Messages[0].Content, "人工智能")
	assert.Contains(t, req.Messages[0].Content, "研究/数据")
	assert.Equal(t, "post body", req.Messages[1].Content)
}

func TestClassify_PromptOverride(t *testing.T) {
	mock := &mockChatCompleter{mockResponse: textResponse(`{"isValueless": false}`)}

	c, err := NewLLMClassifier(mock, "gpt-test", WithPrompt("custom instruction"))
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), "text", testVocabulary())
	require.NoError(t, err)
	assert.Equal(t, "custom instruction", mock.lastRequest.Messages[0].Content)
}

func TestClassifyMany_SequentialWithProgress(t *testing.T) {
	good := textResponse(`{"isValueless": true, "topicTags": ["人工智能"], "contentTypes": []}`)
	mock := &scriptedCompleter{
		replies: []openai.ChatCompletionResponse{good, {}, good},
		errs:    []error{nil, errors.New("boom"), nil},
	}

	c, err := NewLLMClassifier(mock, "gpt-test", WithCallDelay(1))
	require.NoError(t, err)

	var updates []Progress
	results := c.ClassifyMany(context.Background(), []string{"a", "b", "c"}, testVocabulary(), func(p Progress) {
		updates = append(updates, p)
	})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"人工智能"}, results[0].TopicTags)
	assert.Equal(t, Result{}, results[1], "failed item yields the zero result")
	assert.Equal(t, []string{"人工智能"}, results[2].TopicTags)

	require.Len(t, updates, 3)
	final := updates[2]
	assert.Equal(t, 3, final.Processed)
	assert.Equal(t, 2, final.Succeeded)
	assert.Equal(t, 1, final.Failed)
	assert.Equal(t, 2, final.LowValue)
	assert.Equal(t, 3, mock.calls)
}

func TestClassifyMany_CountsParseFailuresSeparately(t *testing.T) {
	good := textResponse(`{"isValueless": false, "topicTags": ["编程"], "contentTypes": []}`)
	unparseable := textResponse("抱歉,我无法对这段文本进行分类。")
	mock := &scriptedCompleter{
		replies: []openai.ChatCompletionResponse{good, unparseable, good},
		errs:    []error{nil, nil, nil},
	}

	c, err := NewLLMClassifier(mock, "gpt-test", WithCallDelay(1))
	require.NoError(t, err)

	var final Progress
	results := c.ClassifyMany(context.Background(), []string{"a", "b", "c"}, testVocabulary(), func(p Progress) {
		final = p
	})

	require.Len(t, results, 3)
	assert.Equal(t, Result{}, results[1], "an unparseable answer yields the neutral result")

	assert.Equal(t, 3, final.Processed)
	assert.Equal(t, 2, final.Succeeded, "a neutral result is not a true success")
	assert.Equal(t, 1, final.ParseFailures)
	assert.Equal(t, 0, final.Failed, "a parse failure is not an item failure either")
}

func TestClassifyMany_StopsOnContextCancel(t *testing.T) {
	good := textResponse(`{"isValueless": false}`)
	mock := &scriptedCompleter{
		replies: []openai.ChatCompletionResponse{good, good},
		errs:    []error{nil, nil},
	}

	ctx, cancel := context.WithCancel(context.Background())
	c, err := NewLLMClassifier(mock, "gpt-test")
	require.NoError(t, err)

	cancel()
	results := c.ClassifyMany(ctx, []string{"a", "b"}, testVocabulary(), nil)

	require.Len(t, results, 2)
	assert.Equal(t, 1, mock.calls, "cancellation between items must stop the sequence")
}

func TestFilterVocabulary(t *testing.T) {
	allowed := []string{"教程", "新闻/事件"}

	assert.Equal(t, []string{"教程"}, filterVocabulary([]string{"教程", "教程", "未知"}, allowed))
	assert.Nil(t, filterVocabulary(nil, allowed))
	assert.Nil(t, filterVocabulary([]string{"未知"}, allowed))
}
