// Package summarizer provides model-backed text summarization implementations.
// It includes adapters for the Hugging Face Inference API, Claude (Anthropic),
// and OpenAI with reliability patterns. This package supports a configurable
// summary length window with comprehensive observability through structured
// logging and Prometheus metrics.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"medgenie/internal/resilience/circuitbreaker"
	"medgenie/internal/utils/text"
	pkgconfig "medgenie/pkg/config"
)

const (
	// defaultHuggingFaceModel is the summarization model the service was
	// originally deployed with.
	defaultHuggingFaceModel = "facebook/bart-large-cnn"

	// huggingFaceBaseURL is the hosted inference endpoint prefix. The model
	// identifier is appended to form the full URL.
	huggingFaceBaseURL = "https://api-inference.huggingface.co/models/"
)

// HuggingFaceConfig holds configuration parameters for the Hugging Face
// summarizer. Configuration is loaded from environment variables with
// fallback to defaults.
type HuggingFaceConfig struct {
	// Window bounds the generated summary length in model tokens.
	// Loaded from SUMMARY_MIN_LENGTH / SUMMARY_MAX_LENGTH.
	Window Window

	// Model is the hosted model identifier (e.g. "facebook/bart-large-cnn").
	Model string

	// Endpoint is the full inference URL. Defaults to the hosted Inference
	// API URL for Model; override it to point at a dedicated endpoint.
	Endpoint string

	// RequestsPerSecond throttles outbound calls to the shared hosted
	// endpoint. Zero disables throttling.
	RequestsPerSecond float64

	// Timeout is the maximum duration for a single summarization API call.
	// Cold model loads on the hosted API can take tens of seconds.
	Timeout time.Duration
}

// LoadHuggingFaceConfig loads configuration from environment variables.
// Invalid window values fall back to the defaults with a warning log.
//
// Environment variables:
//   - SUMMARY_MIN_LENGTH: Summary lower bound in tokens (default: 30)
//   - SUMMARY_MAX_LENGTH: Summary upper bound in tokens (default: 130)
//   - HUGGINGFACE_MODEL: Model identifier (default: facebook/bart-large-cnn)
//   - HUGGINGFACE_API_URL: Full endpoint override (default: hosted API + model)
//   - HUGGINGFACE_RPS: Outbound requests per second, 0 disables (default: 0)
//
// Returns HuggingFaceConfig with validated settings.
func LoadHuggingFaceConfig() HuggingFaceConfig {
	model := pkgconfig.GetEnvString("HUGGINGFACE_MODEL", defaultHuggingFaceModel)

	return HuggingFaceConfig{
		Window:            LoadWindowFromEnv(),
		Model:             model,
		Endpoint:          pkgconfig.GetEnvString("HUGGINGFACE_API_URL", huggingFaceBaseURL+model),
		RequestsPerSecond: pkgconfig.GetEnvFloat64("HUGGINGFACE_RPS", 0),
		Timeout:           60 * time.Second,
	}
}

// HuggingFace implements the Summarizer interface using the Hugging Face
// Inference API. It is the default provider and pins the generation
// parameters: a min/max length window and sampling disabled, so the same
// note always yields the same summary.
// It includes circuit breaker protection and optional request pacing.
type HuggingFace struct {
	config          HuggingFaceConfig
	apiKey          string
	httpClient      *http.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	rateLimiter     *rate.Limiter
	metricsRecorder SummaryMetricsRecorder
}

// NewHuggingFace creates a new Hugging Face summarizer with the given API key.
// It automatically configures the circuit breaker, the length window, optional
// request pacing, and metrics recording.
func NewHuggingFace(apiKey string) *HuggingFace {
	config := LoadHuggingFaceConfig()

	slog.Info("Initialized Hugging Face summarizer with configuration",
		slog.String("model", config.Model),
		slog.Int("min_length", config.Window.MinLength),
		slog.Int("max_length", config.Window.MaxLength),
		slog.Float64("requests_per_second", config.RequestsPerSecond))

	// Token bucket with burst of 1 keeps calls evenly spaced
	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &HuggingFace{
		config:          config,
		apiKey:          apiKey,
		httpClient:      &http.Client{Timeout: config.Timeout},
		circuitBreaker:  circuitbreaker.New(circuitbreaker.HuggingFaceAPIConfig()),
		rateLimiter:     limiter,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Summarize generates a summary of the given text using the hosted model.
// It executes through the circuit breaker; failures are not retried, the
// caller decides how to degrade.
func (h *HuggingFace) Summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	if h.rateLimiter != nil {
		if err := h.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("huggingface rate limiter: %w", err)
		}
	}

	cbResult, err := h.circuitBreaker.Execute(func() (interface{}, error) {
		return h.doSummarize(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("huggingface api circuit breaker open, request rejected",
				slog.String("service", "huggingface-api"),
				slog.String("state", h.circuitBreaker.State().String()))
			return "", fmt.Errorf("huggingface api unavailable: circuit breaker open")
		}
		return "", err
	}

	return cbResult.(string), nil
}

// inferenceRequest is the JSON payload for the hosted summarization endpoint.
type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
	Options    inferenceOptions    `json:"options"`
}

// inferenceParameters mirrors the generation arguments of the hosted model.
// DoSample stays false so repeated requests over the same note produce the
// same summary.
type inferenceParameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

// inferenceOptions controls endpoint behavior outside generation itself.
// WaitForModel makes the endpoint block on cold model loads instead of
// answering 503 immediately.
type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// inferenceResult is one element of the response array.
type inferenceResult struct {
	SummaryText string `json:"summary_text"`
}

// inferenceError is the error payload the endpoint returns with non-2xx
// statuses.
type inferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// doSummarize performs the actual API call without the circuit breaker.
// It includes comprehensive structured logging and metrics recording for observability.
func (h *HuggingFace) doSummarize(ctx context.Context, inputText string) (string, error) {
	// Generate unique request ID for tracing
	requestID := uuid.New().String()

	// Truncate text to keep the request within the model's input window
	// Safe limit: ~10,000 chars, consistent with the other providers
	const maxChars = 10000
	truncatedText := inputText
	if len(inputText) > maxChars {
		truncatedText = inputText[:maxChars]
		slog.Warn("text truncated for huggingface api",
			slog.String("request_id", requestID),
			slog.Int("original_length", len(inputText)),
			slog.Int("truncated_length", len(truncatedText)))
	}

	inputLength := text.CountRunes(truncatedText)

	// Log summarization start
	slog.InfoContext(ctx, "Starting summarization",
		slog.String("request_id", requestID),
		slog.String("model", h.config.Model),
		slog.Int("input_length", inputLength),
		slog.Int("min_length", h.config.Window.MinLength),
		slog.Int("max_length", h.config.Window.MaxLength))

	payload := inferenceRequest{
		Inputs: truncatedText,
		Parameters: inferenceParameters{
			MinLength: h.config.Window.MinLength,
			MaxLength: h.config.Window.MaxLength,
			DoSample:  false,
		},
		Options: inferenceOptions{WaitForModel: true},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal inference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.config.Endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	// Record start time for duration measurement
	start := time.Now()

	resp, err := h.httpClient.Do(req)

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("huggingface api error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The endpoint reports errors as {"error": ...}, with 503 plus an
		// estimated_time while the model is still loading
		message := strings.TrimSpace(string(body))
		var apiErr inferenceError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("request_id", requestID),
			slog.Int("status_code", resp.StatusCode),
			slog.Duration("duration", duration),
			slog.String("error", message))
		return "", fmt.Errorf("huggingface api returned status %d: %s", resp.StatusCode, message)
	}

	var results []inferenceResult
	if err := json.Unmarshal(body, &results); err != nil {
		slog.ErrorContext(ctx, "Hugging Face API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("decode inference response: %w", err)
	}

	// Validate response structure
	if len(results) == 0 || results[0].SummaryText == "" {
		slog.ErrorContext(ctx, "Hugging Face API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("huggingface api returned empty response")
	}

	summary := results[0].SummaryText
	summaryLength := text.CountRunes(summary)
	summaryWords := text.CountWords(summary)
	withinLimit := summaryWords <= h.config.Window.MaxLength

	// Log summary result
	slog.InfoContext(ctx, "Summarization completed",
		slog.String("request_id", requestID),
		slog.Int("summary_length", summaryLength),
		slog.Int("summary_words", summaryWords),
		slog.Int("max_length", h.config.Window.MaxLength),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	// Log warning if the window is exceeded (should be rare; the model
	// enforces max_length itself)
	if !withinLimit {
		excess := summaryWords - h.config.Window.MaxLength
		slog.WarnContext(ctx, "Summary exceeds length window",
			slog.String("request_id", requestID),
			slog.Int("summary_words", summaryWords),
			slog.Int("max_length", h.config.Window.MaxLength),
			slog.Int("excess", excess))
	}

	// Record metrics
	h.metricsRecorder.RecordLength(summaryLength)
	h.metricsRecorder.RecordDuration(duration)
	h.metricsRecorder.RecordCompliance(withinLimit)
	if !withinLimit {
		h.metricsRecorder.RecordLimitExceeded()
	}

	return summary, nil
}
