package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"vaani/internal/cache"
	"vaani/internal/chat"
	"vaani/internal/config"
)

// Fallback content substituted for failed completions. These are delivered
// to the UI as ordinary assistant messages, never as errors.
const (
	fallbackRateLimited = "⏳ Rate limit exceeded. Please wait a moment and try again."
	fallbackGeneric     = "Sorry, I encountered an error. Please try again."
)

// apiError is a non-2xx reply from a completion endpoint.
type apiError struct {
	Status int
	Detail string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Detail)
}

// errorEnvelope is the error body shape shared by the OpenAI-compatible
// endpoints.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// apiErrorFrom builds an apiError from a non-2xx response body.
func apiErrorFrom(status int, body []byte) *apiError {
	detail := "Unknown error"
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		detail = envelope.Error.Message
	}
	return &apiError{Status: status, Detail: detail}
}

// Client calls the configured completion backend with a full message stream
// and yields the assistant reply. Failures of any kind are translated into
// user-displayable fallback content, so Complete never fails.
type Client struct {
	config     config.Config
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	httpClient *http.Client
	cache      sync.Map

	// endpoint URLs, overridable in tests
	groqURL      string
	openaiURL    string
	ollamaURL    string
	anthropicURL string
}

// NewClient creates a completion client for the backend named in cfg.
func NewClient(cfg config.Config, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		config:       cfg,
		logger:       logger,
		tracer:       tracer,
		meter:        meter,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		groqURL:      "https://api.groq.com/openai/v1/chat/completions",
		openaiURL:    "https://api.openai.com/v1/chat/completions",
		ollamaURL:    "http://localhost:11434/api/chat",
		anthropicURL: "https://api.anthropic.com/v1/messages",
	}
}

// keyEnv names the API-key environment variable for the configured backend,
// or "" when the backend needs no key.
func (c *Client) keyEnv() string {
	switch c.config.Backend {
	case config.BackendGroq:
		return "GROQ_API_KEY"
	case config.BackendOpenAI:
		return "OPENAI_API_KEY"
	case config.BackendAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// Complete sends the stream to the configured backend and returns the
// assistant reply, or fallback content when the call cannot be made or
// fails. The returned text is always safe to append as an assistant turn.
func (c *Client) Complete(ctx context.Context, messages []chat.Message) string {
	if env := c.keyEnv(); env != "" && os.Getenv(env) == "" {
		return fmt.Sprintf("Please add your %s to your .env file", env)
	}

	cacheKey := cache.Key(messages)
	if cached, ok := c.checkCache(cacheKey); ok {
		return cached
	}

	var response string
	var err error

	switch c.config.Backend {
	case config.BackendGroq:
		response, err = c.callGroq(ctx, messages)
	case config.BackendOpenAI:
		response, err = c.callOpenAI(ctx, messages)
	case config.BackendOllama:
		response, err = c.callOllama(ctx, messages)
	case config.BackendAnthropic:
		response, err = c.callAnthropic(ctx, messages)
	default:
		err = fmt.Errorf("unknown backend: %s", c.config.Backend)
	}

	if err != nil {
		c.logger.Error("completion failed", "backend", c.config.Backend, "error", err)
		return c.fallbackFor(err)
	}

	c.storeCache(cacheKey, response)
	return response
}

// fallbackFor maps a completion failure onto user-displayable content.
func (c *Client) fallbackFor(err error) string {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		return fallbackGeneric
	}
	switch apiErr.Status {
	case http.StatusUnauthorized:
		return fmt.Sprintf("❌ Invalid API key. Please check your %s in your .env file", c.keyEnv())
	case http.StatusTooManyRequests:
		return fallbackRateLimited
	default:
		return fmt.Sprintf("Sorry, I encountered an error: %s", apiErr.Detail)
	}
}

// checkCache checks if a response is cached
func (c *Client) checkCache(cacheKey string) (string, bool) {
	if val, ok := c.cache.Load(cacheKey); ok {
		cached := val.(cache.CachedResponse)
		c.logger.Info("cache hit", "key", cacheKey[:16])
		return cached.Response, true
	}
	return "", false
}

// storeCache stores a response in cache
func (c *Client) storeCache(cacheKey, response string) {
	c.cache.Store(cacheKey, cache.CachedResponse{
		Response:  response,
		Timestamp: time.Now(),
	})
}

// recordDuration records the request-duration histogram for one call.
func (c *Client) recordDuration(ctx context.Context, start time.Time) {
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(time.Since(start).Milliseconds()))
	}
}

// recordUsage records OpenTelemetry counters from a usage payload.
func (c *Client) recordUsage(ctx context.Context, usage map[string]interface{}) {
	if usage == nil {
		return
	}

	for key, value := range usage {
		if intVal, ok := value.(float64); ok {
			counter, err := c.meter.Int64Counter(
				fmt.Sprintf("llm.usage.%s", key),
				metric.WithDescription(fmt.Sprintf("LLM usage metric: %s", key)),
			)
			if err != nil {
				c.logger.Warn("failed to create counter", "key", key, "error", err)
				continue
			}
			counter.Add(ctx, int64(intVal))
		}
	}
}

// wireMessages converts a stream into the role/content pairs every backend
// accepts.
func wireMessages(messages []chat.Message) []map[string]string {
	out := make([]map[string]string, len(messages))
	for i, msg := range messages {
		out[i] = map[string]string{
			"role":    msg.Role,
			"content": msg.Content,
		}
	}
	return out
}
