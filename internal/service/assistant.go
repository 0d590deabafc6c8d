package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/firehistory/backend/internal/domain"
	"github.com/firehistory/backend/internal/logger"
	"github.com/firehistory/backend/internal/metrics"
)

// Messages shown on the AI tab
const (
	InactiveMessage    = "This feature is inactive as no language model is configured!"
	QueryFailedMessage = "Error when running the query."
)

// Completer turns a system prompt and a user message into completion text
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAICompleter calls a chat completion endpoint
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer; an empty baseURL targets the OpenAI API
func NewOpenAICompleter(apiKey, baseURL, model string) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICompleter{client: openai.NewClientWithConfig(cfg), model: model}
}

// Complete sends one system and one user message
func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			MaxTokens:   600,
			N:           1,
			Temperature: math.SmallestNonzeroFloat32, // zero is dropped by omitempty
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned empty response or choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// AnswerCache stores raw completions; redisstore.Client satisfies it
type AnswerCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Assistant answers natural-language questions by generating SQL and running it read-only
type Assistant struct {
	repo      domain.FireRepository
	completer Completer
	model     string
	cache     AnswerCache
	ttl       time.Duration
	metrics   *metrics.Dashboard
	log       zerolog.Logger
}

// AssistantOption configures an Assistant
type AssistantOption func(*Assistant)

func WithAnswerCache(c AnswerCache, ttl time.Duration) AssistantOption {
	return func(a *Assistant) { a.cache, a.ttl = c, ttl }
}

// WithModelName namespaces cache keys by model
func WithModelName(m string) AssistantOption {
	return func(a *Assistant) { a.model = m }
}

func WithAssistantMetrics(m *metrics.Dashboard) AssistantOption {
	return func(a *Assistant) { a.metrics = m }
}

func WithAssistantLogger(l zerolog.Logger) AssistantOption {
	return func(a *Assistant) { a.log = l }
}

// NewAssistant creates the assistant. A nil completer leaves it disabled.
func NewAssistant(repo domain.FireRepository, completer Completer, opts ...AssistantOption) *Assistant {
	a := &Assistant{repo: repo, completer: completer, log: zerolog.Nop()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Enabled reports whether a completion service is configured
func (a *Assistant) Enabled() bool {
	return a != nil && a.completer != nil
}

// Ask generates a statement for question and runs it. A statement the
// database rejects is not an error: the answer carries QueryFailedMessage
// alongside the raw completion. Only completions whose statement ran are
// cached.
func (a *Assistant) Ask(ctx context.Context, question string) (domain.AssistantAnswer, error) {
	if !a.Enabled() {
		return domain.AssistantAnswer{}, domain.ErrAssistantDisabled
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.AssistantAnswer{}, &domain.ParseError{Field: "question", Err: fmt.Errorf("must not be empty")}
	}
	log := logger.FromContext(ctx, &a.log)

	answer := domain.AssistantAnswer{Question: question}
	response, cached := a.cached(ctx, question)
	if cached {
		answer.Cached = true
		a.metrics.IncAssistant(metrics.AssistantCached)
	} else {
		var err error
		response, err = a.completer.Complete(ctx, systemPrompt, questionPrompt(question))
		if err != nil {
			a.metrics.IncAssistant(metrics.AssistantCompletion)
			log.Error().Err(err).Msg("completion failed")
			return domain.AssistantAnswer{}, &domain.ConnectionError{Op: "completion", Err: err}
		}
	}
	answer.Response = response
	answer.SQL = StripSQLFence(response)

	start := time.Now()
	result, err := a.repo.RunReadOnly(ctx, answer.SQL)
	a.metrics.ObserveQuery("assistant", err, time.Since(start).Seconds())
	if err != nil {
		a.metrics.IncAssistant(metrics.AssistantBadSQL)
		log.Warn().Err(err).Str("sql", answer.SQL).Msg("generated statement failed")
		answer.Error = QueryFailedMessage
		if cached {
			a.evict(ctx, question)
		}
		return answer, nil
	}
	if !cached {
		a.store(ctx, question, response)
	}
	if result.Truncated {
		log.Info().Int("rows", len(result.Rows)).Msg("ad hoc result truncated")
	}
	a.metrics.IncAssistant(metrics.AssistantAnswered)
	answer.Result = &result
	return answer, nil
}

func (a *Assistant) cached(ctx context.Context, question string) (string, bool) {
	if a.cache == nil {
		return "", false
	}
	b, ok, err := a.cache.Get(ctx, CacheKey(a.model, question))
	if err != nil {
		logger.FromContext(ctx, &a.log).Warn().Err(err).Msg("assistant cache read failed")
		return "", false
	}
	return string(b), ok
}

func (a *Assistant) store(ctx context.Context, question, response string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(ctx, CacheKey(a.model, question), []byte(response), a.ttl); err != nil {
		logger.FromContext(ctx, &a.log).Warn().Err(err).Msg("assistant cache write failed")
	}
}

func (a *Assistant) evict(ctx context.Context, question string) {
	if err := a.cache.Del(ctx, CacheKey(a.model, question)); err != nil {
		logger.FromContext(ctx, &a.log).Warn().Err(err).Msg("assistant cache evict failed")
	}
}

// CacheKey hashes the model, prompt and question into a Redis key
func CacheKey(model, question string) string {
	d := xxhash.New()
	_, _ = d.WriteString(model)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(systemPrompt)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(question)
	return "assistant:v1:" + strconv.FormatUint(d.Sum64(), 16)
}

// StripSQLFence removes markdown code fences around a generated statement
func StripSQLFence(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
