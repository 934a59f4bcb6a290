package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"medgenie/internal/resilience/circuitbreaker"
	"medgenie/internal/utils/text"
)

// OpenAIConfig holds configuration parameters for the OpenAI summarizer.
// Configuration is loaded from environment variables with fallback to defaults.
type OpenAIConfig struct {
	// Window bounds the generated summary length.
	// Loaded from SUMMARY_MIN_LENGTH / SUMMARY_MAX_LENGTH.
	Window Window

	// Model is the OpenAI API model identifier to use for summarization.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout is the maximum duration for a single summarization API call.
	Timeout time.Duration
}

// GetWindow implements SummarizerConfig interface.
// Returns the configured summary length window.
func (c *OpenAIConfig) GetWindow() Window {
	return c.Window
}

// Validate implements SummarizerConfig interface.
// Validates the configuration and returns an error if invalid.
func (c *OpenAIConfig) Validate() error {
	// Validate the window using the shared helper
	if err := ValidateWindow(c.Window); err != nil {
		return fmt.Errorf("invalid summary window: %w", err)
	}

	// Validate other fields
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}

	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	return nil
}

// LoadOpenAIConfig loads configuration from environment variables.
// Unlike the other providers this load is fail-closed: an unparseable or
// out-of-range window is a configuration error, not a silent default.
//
// Environment variables:
//   - SUMMARY_MIN_LENGTH: Summary lower bound (default: 30)
//   - SUMMARY_MAX_LENGTH: Summary upper bound (default: 130, max: 1024)
//
// Returns:
//   - OpenAIConfig with validated settings
//   - error if validation fails (fail-closed behavior)
func LoadOpenAIConfig() (*OpenAIConfig, error) {
	window := DefaultWindow()

	if envMin := os.Getenv("SUMMARY_MIN_LENGTH"); envMin != "" {
		parsed, err := strconv.Atoi(envMin)
		if err != nil {
			return nil, fmt.Errorf("invalid SUMMARY_MIN_LENGTH format: %s: %w", envMin, err)
		}
		window.MinLength = parsed
	}

	if envMax := os.Getenv("SUMMARY_MAX_LENGTH"); envMax != "" {
		parsed, err := strconv.Atoi(envMax)
		if err != nil {
			return nil, fmt.Errorf("invalid SUMMARY_MAX_LENGTH format: %s: %w", envMax, err)
		}
		window.MaxLength = parsed
	}

	// Validate the window using the shared helper
	if err := ValidateWindow(window); err != nil {
		return nil, fmt.Errorf("summary window out of valid range: %w", err)
	}

	config := &OpenAIConfig{
		Window:    window,
		Model:     "gpt-3.5-turbo",
		MaxTokens: 1024,
		Timeout:   60 * time.Second,
	}

	// Validate the entire configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid OpenAI configuration: %w", err)
	}

	return config, nil
}

// OpenAI implements the Summarizer interface using OpenAI's GPT API.
// It includes circuit breaker protection and supports a configurable summary
// length window with comprehensive observability.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	config          SummarizerConfig
	metricsRecorder SummaryMetricsRecorder
}

// NewOpenAI creates a new OpenAI summarizer with the given API key.
// It automatically configures the circuit breaker, the length window,
// and metrics recording.
func NewOpenAI(apiKey string, config SummarizerConfig) *OpenAI {
	window := config.GetWindow()
	slog.Info("Initialized OpenAI summarizer with configuration",
		slog.Int("min_length", window.MinLength),
		slog.Int("max_length", window.MaxLength))

	return &OpenAI{
		client:          openai.NewClient(apiKey),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		config:          config,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Summarize generates a summary of the given text using OpenAI's GPT API.
// It executes through the circuit breaker; failures are not retried, the
// caller decides how to degrade.
func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
		return o.doSummarize(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("openai api circuit breaker open, request rejected",
				slog.String("service", "openai-api"),
				slog.String("state", o.circuitBreaker.State().String()))
			return "", fmt.Errorf("openai api unavailable: circuit breaker open")
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
func (o *OpenAI) buildPrompt(note string) string {
	window := o.config.GetWindow()
	return fmt.Sprintf("Summarize the following clinical visit note in %d to %d words. "+
		"Keep medication names, dosages, and diagnoses exactly as written. "+
		"Respond with only the summary:\n%s",
		window.MinLength, window.MaxLength, note)
}

// doSummarize performs the actual API call without the circuit breaker.
// It includes comprehensive structured logging and metrics recording for observability.
func (o *OpenAI) doSummarize(ctx context.Context, inputText string) (string, error) {
	// Truncate text to avoid token limit (gpt-3.5-turbo max: 16,385 tokens)
	// Safe limit: ~10,000 chars (~2,500 tokens) to account for system prompt and response
	const maxChars = 10000
	truncatedText := inputText
	if len(inputText) > maxChars {
		truncatedText = inputText[:maxChars] + "...\n(note truncated for length)"
		slog.Warn("text truncated for openai api",
			slog.Int("original_length", len(inputText)),
			slog.Int("truncated_length", len(truncatedText)))
	}

	// Build prompt with the configured window
	prompt := o.buildPrompt(truncatedText)
	inputLength := text.CountRunes(truncatedText)
	window := o.config.GetWindow()

	// Log summarization start
	slog.InfoContext(ctx, "Starting summarization",
		slog.Int("input_length", inputLength),
		slog.Int("min_length", window.MinLength),
		slog.Int("max_length", window.MaxLength))

	// Record start time for duration measurement
	start := time.Now()

	// Call OpenAI API
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []openai.ChatCompletionMessage{{
			Role:    "system",
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api returned empty response")
	}

	// Extract summary from response
	summary := resp.Choices[0].Message.Content
	summaryLength := text.CountRunes(summary)
	summaryWords := text.CountWords(summary)
	withinLimit := summaryWords <= window.MaxLength

	// Log summary result
	slog.InfoContext(ctx, "Summarization completed",
		slog.Int("summary_length", summaryLength),
		slog.Int("summary_words", summaryWords),
		slog.Int("max_length", window.MaxLength),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	// Log warning if the window is exceeded (soft limit, not hard rejection)
	if !withinLimit {
		excess := summaryWords - window.MaxLength
		slog.WarnContext(ctx, "Summary exceeds length window",
			slog.Int("summary_words", summaryWords),
			slog.Int("max_length", window.MaxLength),
			slog.Int("excess", excess))
	}

	// Record metrics
	o.metricsRecorder.RecordLength(summaryLength)
	o.metricsRecorder.RecordDuration(duration)
	o.metricsRecorder.RecordCompliance(withinLimit)
	if !withinLimit {
		o.metricsRecorder.RecordLimitExceeded()
	}

	return summary, nil
}
