package summarizer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"medgenie/internal/resilience/circuitbreaker"
)

// newTestHuggingFace builds a summarizer pointed at a test server with a
// fresh circuit breaker and a mock metrics recorder.
func newTestHuggingFace(endpoint string, recorder SummaryMetricsRecorder) *HuggingFace {
	return &HuggingFace{
		config: HuggingFaceConfig{
			Window:   DefaultWindow(),
			Model:    defaultHuggingFaceModel,
			Endpoint: endpoint,
			Timeout:  5 * time.Second,
		},
		apiKey:          "test-key",
		httpClient:      &http.Client{Timeout: 5 * time.Second},
		circuitBreaker:  circuitbreaker.New(circuitbreaker.HuggingFaceAPIConfig()),
		metricsRecorder: recorder,
	}
}

/* ───────── Request Wire Format ───────── */

// TestHuggingFace_Summarize_Success tests a successful round trip and verifies
// the exact request the inference endpoint receives
func TestHuggingFace_Summarize_Success(t *testing.T) {
	const summaryText = "Patient presented with chest pain. Prescribed aspirin and scheduled a follow-up."

	var received inferenceRequest
	var authHeader, contentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		authHeader = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]inferenceResult{{SummaryText: summaryText}})
	}))
	defer server.Close()

	mock := &MockMetricsRecorder{}
	hf := newTestHuggingFace(server.URL, mock)

	input := "Patient c/o chest pain radiating to left arm. ECG normal. Started on aspirin 81mg daily."
	summary, err := hf.Summarize(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, summaryText, summary)

	// Authentication and content type
	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "application/json", contentType)

	// Generation parameters mirror the configured window, sampling stays off
	assert.Equal(t, input, received.Inputs)
	assert.Equal(t, 30, received.Parameters.MinLength)
	assert.Equal(t, 130, received.Parameters.MaxLength)
	assert.False(t, received.Parameters.DoSample)
	assert.True(t, received.Options.WaitForModel)

	// Metrics recorded exactly once
	require.Len(t, mock.RecordedLengths, 1)
	assert.Equal(t, len([]rune(summaryText)), mock.RecordedLengths[0])
	require.Len(t, mock.RecordedCompliance, 1)
	assert.True(t, mock.RecordedCompliance[0])
	assert.Equal(t, 0, mock.RecordedExceeded)
	assert.Len(t, mock.RecordedDurations, 1)
}

// TestHuggingFace_Summarize_InputTruncation tests that oversized notes are cut
// before they reach the endpoint
func TestHuggingFace_Summarize_InputTruncation(t *testing.T) {
	var receivedLength int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req inferenceRequest
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		receivedLength = len(req.Inputs)

		_ = json.NewEncoder(w).Encode([]inferenceResult{{SummaryText: "Long note summarized."}})
	}))
	defer server.Close()

	hf := newTestHuggingFace(server.URL, &MockMetricsRecorder{})

	longNote := strings.Repeat("a", 15000)
	_, err := hf.Summarize(context.Background(), longNote)

	require.NoError(t, err)
	assert.Equal(t, 10000, receivedLength, "Input above 10000 bytes should be truncated")
}

/* ───────── Error Handling ───────── */

// TestHuggingFace_Summarize_ModelLoading tests the 503 answer the hosted API
// gives while a cold model is still loading
func TestHuggingFace_Summarize_ModelLoading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(inferenceError{
			Error:         "Model facebook/bart-large-cnn is currently loading",
			EstimatedTime: 20.0,
		})
	}))
	defer server.Close()

	mock := &MockMetricsRecorder{}
	hf := newTestHuggingFace(server.URL, mock)

	_, err := hf.Summarize(context.Background(), "Patient presented with fever.")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "huggingface api returned status 503")
	assert.Contains(t, err.Error(), "currently loading")

	// No metrics on failure
	assert.Empty(t, mock.RecordedLengths)
	assert.Empty(t, mock.RecordedDurations)
}

// TestHuggingFace_Summarize_ErrorStatuses tests non-2xx statuses carry the
// endpoint's error message
func TestHuggingFace_Summarize_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		responseBody string
		wantSubstr   string
	}{
		{
			name:         "unauthorized with json error",
			statusCode:   http.StatusUnauthorized,
			responseBody: `{"error":"Authorization header is correct, but the token seems invalid"}`,
			wantSubstr:   "token seems invalid",
		},
		{
			name:         "rate limited with json error",
			statusCode:   http.StatusTooManyRequests,
			responseBody: `{"error":"Rate limit reached"}`,
			wantSubstr:   "Rate limit reached",
		},
		{
			name:         "server error with plain body",
			statusCode:   http.StatusInternalServerError,
			responseBody: `upstream worker crashed`,
			wantSubstr:   "upstream worker crashed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			hf := newTestHuggingFace(server.URL, &MockMetricsRecorder{})

			_, err := hf.Summarize(context.Background(), "Patient presented with fever.")

			require.Error(t, err)
			assert.Contains(t, err.Error(), "huggingface api returned status")
			assert.Contains(t, err.Error(), tt.wantSubstr)
		})
	}
}

// TestHuggingFace_Summarize_EmptyResponse tests responses without a usable summary
func TestHuggingFace_Summarize_EmptyResponse(t *testing.T) {
	tests := []struct {
		name         string
		responseBody string
	}{
		{"empty array", `[]`},
		{"empty summary text", `[{"summary_text":""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			hf := newTestHuggingFace(server.URL, &MockMetricsRecorder{})

			_, err := hf.Summarize(context.Background(), "Patient presented with fever.")

			require.Error(t, err)
			assert.Contains(t, err.Error(), "empty response")
		})
	}
}

// TestHuggingFace_Summarize_MalformedResponse tests a 200 answer that is not
// the expected result array
func TestHuggingFace_Summarize_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary_text":"not wrapped in an array"}`))
	}))
	defer server.Close()

	hf := newTestHuggingFace(server.URL, &MockMetricsRecorder{})

	_, err := hf.Summarize(context.Background(), "Patient presented with fever.")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode inference response")
}

// TestHuggingFace_Summarize_ContextCanceled tests canceled contexts fail fast
func TestHuggingFace_Summarize_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]inferenceResult{{SummaryText: "unreachable"}})
	}))
	defer server.Close()

	t.Run("without rate limiter", func(t *testing.T) {
		hf := newTestHuggingFace(server.URL, &MockMetricsRecorder{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := hf.Summarize(ctx, "Patient presented with fever.")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "huggingface api error")
	})

	t.Run("with rate limiter", func(t *testing.T) {
		hf := newTestHuggingFace(server.URL, &MockMetricsRecorder{})
		hf.rateLimiter = rate.NewLimiter(rate.Limit(1), 1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := hf.Summarize(ctx, "Patient presented with fever.")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "huggingface rate limiter")
	})
}

/* ───────── Circuit Breaker ───────── */

// TestHuggingFace_Summarize_CircuitBreakerOpens tests that sustained failures
// trip the breaker and subsequent calls are rejected without a network call
func TestHuggingFace_Summarize_CircuitBreakerOpens(t *testing.T) {
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
	}))
	defer server.Close()

	hf := newTestHuggingFace(server.URL, &MockMetricsRecorder{})

	// The breaker trips after 10 observed requests at a 0.7 failure ratio
	for i := 0; i < 10; i++ {
		_, err := hf.Summarize(context.Background(), "Patient presented with fever.")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "huggingface api returned status 500")
	}

	_, err := hf.Summarize(context.Background(), "Patient presented with fever.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, 10, calls, "Open breaker should reject without reaching the server")
}

/* ───────── Length Window Compliance ───────── */

// TestHuggingFace_Summarize_LimitExceeded tests metrics when the model answer
// overruns the configured window
func TestHuggingFace_Summarize_LimitExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]inferenceResult{
			{SummaryText: "This summary is clearly longer than two words."},
		})
	}))
	defer server.Close()

	mock := &MockMetricsRecorder{}
	hf := newTestHuggingFace(server.URL, mock)
	hf.config.Window = Window{MinLength: 1, MaxLength: 2}

	summary, err := hf.Summarize(context.Background(), "Patient presented with fever.")

	require.NoError(t, err, "An overrun is recorded, not rejected")
	assert.NotEmpty(t, summary)

	require.Len(t, mock.RecordedCompliance, 1)
	assert.False(t, mock.RecordedCompliance[0])
	assert.Equal(t, 1, mock.RecordedExceeded)
}

/* ───────── Configuration Loading ───────── */

// TestLoadHuggingFaceConfig_Defaults tests the shipped defaults
func TestLoadHuggingFaceConfig_Defaults(t *testing.T) {
	t.Setenv("HUGGINGFACE_MODEL", "")
	t.Setenv("HUGGINGFACE_API_URL", "")
	t.Setenv("HUGGINGFACE_RPS", "")

	config := LoadHuggingFaceConfig()

	assert.Equal(t, "facebook/bart-large-cnn", config.Model)
	assert.Equal(t, "https://api-inference.huggingface.co/models/facebook/bart-large-cnn", config.Endpoint)
	assert.Equal(t, float64(0), config.RequestsPerSecond)
	assert.Equal(t, 60*time.Second, config.Timeout)
	assert.Equal(t, DefaultWindow(), config.Window)
}

// TestLoadHuggingFaceConfig_CustomModel tests the endpoint follows the model override
func TestLoadHuggingFaceConfig_CustomModel(t *testing.T) {
	t.Setenv("HUGGINGFACE_MODEL", "sshleifer/distilbart-cnn-12-6")
	t.Setenv("HUGGINGFACE_API_URL", "")

	config := LoadHuggingFaceConfig()

	assert.Equal(t, "sshleifer/distilbart-cnn-12-6", config.Model)
	assert.Equal(t, "https://api-inference.huggingface.co/models/sshleifer/distilbart-cnn-12-6", config.Endpoint)
}

// TestLoadHuggingFaceConfig_EndpointOverride tests a dedicated endpoint URL wins
func TestLoadHuggingFaceConfig_EndpointOverride(t *testing.T) {
	t.Setenv("HUGGINGFACE_API_URL", "https://example.internal/summarize")

	config := LoadHuggingFaceConfig()

	assert.Equal(t, "https://example.internal/summarize", config.Endpoint)
}

// TestLoadHuggingFaceConfig_RequestsPerSecond tests pacing configuration
func TestLoadHuggingFaceConfig_RequestsPerSecond(t *testing.T) {
	t.Setenv("HUGGINGFACE_RPS", "2.5")

	config := LoadHuggingFaceConfig()

	assert.Equal(t, 2.5, config.RequestsPerSecond)
}

// TestNewHuggingFace_RateLimiter tests the limiter is only built when pacing is on
func TestNewHuggingFace_RateLimiter(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		t.Setenv("HUGGINGFACE_RPS", "")

		hf := NewHuggingFace("test-key")

		require.NotNil(t, hf)
		assert.Nil(t, hf.rateLimiter)
	})

	t.Run("enabled when positive", func(t *testing.T) {
		t.Setenv("HUGGINGFACE_RPS", "2")

		hf := NewHuggingFace("test-key")

		require.NotNil(t, hf)
		assert.NotNil(t, hf.rateLimiter)
	})
}
