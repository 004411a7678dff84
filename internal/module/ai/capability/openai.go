package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/scizor/server/internal/shared/config"
	apperrors "github.com/scizor/server/internal/shared/errors"
	"github.com/scizor/server/internal/utils/metrics"
	"github.com/scizor/server/internal/utils/requestctx"
)

const (
	chatCompletionsPath = "/chat/completions"
	audioSpeechPath     = "/audio/speech"

	// Upstream error bodies are logged, never forwarded; cap what we read.
	maxErrorBodyBytes = 4096
)

// HTTPClient talks to an OpenAI-compatible API. Every outbound call passes
// through a circuit breaker; an open breaker fails fast without touching the
// network. Safe for concurrent use.
type HTTPClient struct {
	baseURL     string
	apiKey      string
	textModel   string
	speechModel string
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker[[]byte]
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewHTTPClient creates a capability client from configuration and a resolved
// credential.
func NewHTTPClient(cfg *config.CapabilityConfig, apiKey string, m *metrics.Metrics, logger *zap.Logger) *HTTPClient {
	c := &HTTPClient{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      apiKey,
		textModel:   cfg.TextModel,
		speechModel: cfg.SpeechModel,
		client:      &http.Client{Timeout: cfg.RequestTimeout},
		metrics:     m,
		logger:      logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "capability",
		MaxRequests: 1,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Caller-side cancellation says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			m.SetBreakerOpen(to == gobreaker.StateOpen)
			logger.Warn("capability breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

// GenerateText performs one chat completion call. Empty choices yield an
// empty Text; the caller decides how to degrade.
func (c *HTTPClient) GenerateText(ctx context.Context, req *GenerateTextRequest) (*GenerateTextResponse, error) {
	payload := map[string]any{
		"model": c.textModel,
		"messages": []map[string]string{
			{"role": "system", "content": req.Instruction},
			{"role": "user", "content": req.Prompt},
		},
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		payload["max_tokens"] = req.MaxTokens
	}

	raw, err := c.do(ctx, chatCompletionsPath, payload)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	resp := &GenerateTextResponse{
		Model:            parsed.Model,
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
	}
	if len(parsed.Choices) > 0 {
		resp.Text = strings.TrimSpace(parsed.Choices[0].Message.Content)
	}
	return resp, nil
}

// SynthesizeSpeech performs one speech synthesis call and returns the raw
// audio bytes.
func (c *HTTPClient) SynthesizeSpeech(ctx context.Context, req *SynthesizeSpeechRequest) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = c.speechModel
	}

	payload := map[string]any{
		"model":           model,
		"input":           req.Text,
		"voice":           req.Voice,
		"response_format": req.Format,
		"speed":           req.Speed,
	}

	audio, err := c.do(ctx, audioSpeechPath, payload)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, apperrors.CapabilityUnavailable(errors.New("capability returned empty audio"))
	}
	return audio, nil
}

// do routes one request through the circuit breaker.
func (c *HTTPClient) do(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, path, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.CapabilityUnavailable(err)
		}
		return nil, err
	}
	return body, nil
}

// roundTrip performs the HTTP exchange and maps failures onto the error
// taxonomy by status code and error type.
func (c *HTTPClient) roundTrip(ctx context.Context, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	c.metrics.RecordCapabilityCall(path, time.Since(start))
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.TransientNetwork(err)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, apperrors.CapabilityUnavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Error("capability request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", requestctx.RequestID(ctx)),
			zap.String("user_id", requestctx.UserID(ctx)),
			zap.ByteString("body", detail))

		cause := fmt.Errorf("capability returned status %d", resp.StatusCode)
		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, apperrors.Unauthorized(cause)
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, apperrors.RateLimited(cause)
		case resp.StatusCode == http.StatusRequestTimeout:
			return nil, apperrors.TransientNetwork(cause)
		case resp.StatusCode >= 500:
			return nil, apperrors.CapabilityUnavailable(cause)
		default:
			return nil, apperrors.Unknown(cause)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// isTimeout reports whether err is a deadline or transport timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
