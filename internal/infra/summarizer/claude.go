package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"medgenie/internal/resilience/circuitbreaker"
	"medgenie/internal/utils/text"
)

// ClaudeConfig holds configuration parameters for the Claude summarizer.
// Configuration is loaded from environment variables with fallback to defaults.
type ClaudeConfig struct {
	// Window bounds the generated summary length.
	// Loaded from SUMMARY_MIN_LENGTH / SUMMARY_MAX_LENGTH.
	Window Window

	// Model is the Claude API model identifier to use for summarization.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single summarization API call.
	Timeout time.Duration
}

// LoadClaudeConfig loads configuration from environment variables.
// Invalid window values fall back to the defaults with a warning log.
//
// Environment variables:
//   - SUMMARY_MIN_LENGTH: Summary lower bound (default: 30)
//   - SUMMARY_MAX_LENGTH: Summary upper bound (default: 130, max: 1024)
//
// Returns ClaudeConfig with validated settings.
func LoadClaudeConfig() ClaudeConfig {
	return ClaudeConfig{
		Window:    LoadWindowFromEnv(),
		Model:     string(anthropic.ModelClaudeSonnet4_5_20250929),
		MaxTokens: 1024,
		Timeout:   60 * time.Second,
	}
}

// Claude implements the Summarizer interface using Anthropic's Claude API.
// It includes circuit breaker protection and supports a configurable summary
// length window with comprehensive observability. Temperature is pinned to
// zero so repeated requests over the same note stay stable.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	config          ClaudeConfig
	metricsRecorder SummaryMetricsRecorder
}

// NewClaude creates a new Claude summarizer with the given API key.
// It automatically configures the circuit breaker, the length window,
// and metrics recording.
func NewClaude(apiKey string) *Claude {
	config := LoadClaudeConfig()

	slog.Info("Initialized Claude summarizer with configuration",
		slog.Int("min_length", config.Window.MinLength),
		slog.Int("max_length", config.Window.MaxLength),
		slog.String("model", config.Model))

	return &Claude{
		client:          anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		config:          config,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Summarize generates a summary of the given text using Claude.
// It executes through the circuit breaker; failures are not retried, the
// caller decides how to degrade.
func (c *Claude) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doSummarize(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("claude api circuit breaker open, request rejected",
				slog.String("service", "claude-api"),
				slog.String("state", c.circuitBreaker.State().String()))
			return "", fmt.Errorf("claude api unavailable: circuit breaker open")
		}
		return "", err
	}

	return cbResult.(string), nil
}

// buildPrompt constructs the summarization prompt using the configured window.
// It instructs the model to stay within the length bounds and to carry
// clinical facts through unchanged.
//
// Example output:
//
//	"Summarize the following clinical visit note in 30 to 130 words. ..."
func (c *Claude) buildPrompt(note string) string {
	return fmt.Sprintf("Summarize the following clinical visit note in %d to %d words. "+
		"Keep medication names, dosages, and diagnoses exactly as written. "+
		"Respond with only the summary:\n%s",
		c.config.Window.MinLength, c.config.Window.MaxLength, note)
}

// doSummarize performs the actual API call without the circuit breaker.
// It includes comprehensive structured logging and metrics recording for observability.
func (c *Claude) doSummarize(ctx context.Context, inputText string) (string, error) {
	// Generate unique request ID for tracing
	requestID := uuid.New().String()

	// Truncate text to avoid token limit (safety measure, even though Claude supports 200k tokens)
	// Safe limit: ~10,000 chars to maintain consistency with the other providers
	const maxChars = 10000
	truncatedText := inputText
	if len(inputText) > maxChars {
		truncatedText = inputText[:maxChars] + "...\n(note truncated for length)"
		slog.Warn("text truncated for claude api",
			slog.String("request_id", requestID),
			slog.Int("original_length", len(inputText)),
			slog.Int("truncated_length", len(truncatedText)))
	}

	// Build prompt with the configured window
	prompt := c.buildPrompt(truncatedText)
	inputLength := text.CountRunes(truncatedText)

	// Log summarization start
	slog.InfoContext(ctx, "Starting summarization",
		slog.String("request_id", requestID),
		slog.Int("input_length", inputLength),
		slog.Int("min_length", c.config.Window.MinLength),
		slog.Int("max_length", c.config.Window.MaxLength))

	// Record start time for duration measurement
	start := time.Now()

	// Call Claude API with temperature zero for stable output
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(c.config.MaxTokens),
		Temperature: anthropic.Float(0),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	// Validate response structure
	if len(message.Content) == 0 {
		slog.ErrorContext(ctx, "Claude API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned empty response")
	}

	// Extract text from response
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		slog.ErrorContext(ctx, "Claude API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	summary := textBlock.Text
	summaryLength := text.CountRunes(summary)
	summaryWords := text.CountWords(summary)
	withinLimit := summaryWords <= c.config.Window.MaxLength

	// Log summary result
	slog.InfoContext(ctx, "Summarization completed",
		slog.String("request_id", requestID),
		slog.Int("summary_length", summaryLength),
		slog.Int("summary_words", summaryWords),
		slog.Int("max_length", c.config.Window.MaxLength),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	// Log warning if the window is exceeded (should be rare)
	if !withinLimit {
		excess := summaryWords - c.config.Window.MaxLength
		slog.WarnContext(ctx, "Summary exceeds length window",
			slog.String("request_id", requestID),
			slog.Int("summary_words", summaryWords),
			slog.Int("max_length", c.config.Window.MaxLength),
			slog.Int("excess", excess))
	}

	// Record metrics
	c.metricsRecorder.RecordLength(summaryLength)
	c.metricsRecorder.RecordDuration(duration)
	c.metricsRecorder.RecordCompliance(withinLimit)
	if !withinLimit {
		c.metricsRecorder.RecordLimitExceeded()
	}

	return summary, nil
}
