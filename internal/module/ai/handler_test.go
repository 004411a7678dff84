package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/scizor/server/internal/shared/errors"
)

// mockAIService implements ServiceInterface with canned results.
type mockAIService struct {
	enhanceResp  *EnhanceResponse
	enhanceErr   error
	generateResp *GenerateResponse
	generateErr  error
	speechResult *SpeechResult
	speechErr    error
	health       *HealthResponse
	calls        int
}

func (m *mockAIService) EnhancePrompt(_ context.Context, _ *EnhanceRequest) (*EnhanceResponse, error) {
	m.calls++
	return m.enhanceResp, m.enhanceErr
}

func (m *mockAIService) GenerateResponse(_ context.Context, _ *GenerateRequest) (*GenerateResponse, error) {
	m.calls++
	return m.generateResp, m.generateErr
}

func (m *mockAIService) SynthesizeSpeech(_ context.Context, _ *SpeechRequest) (*SpeechResult, error) {
	m.calls++
	return m.speechResult, m.speechErr
}

func (m *mockAIService) Health(_ context.Context) *HealthResponse {
	m.calls++
	return m.health
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func setupAIRouter(svc ServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func doAIRequest(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_EnhancePrompt(t *testing.T) {
	t.Run("Returns the enhanced prompt in the envelope", func(t *testing.T) {
		svc := &mockAIService{enhanceResp: &EnhanceResponse{
			EnhancedPrompt:  "better prompt",
			OriginalPrompt:  "prompt",
			EnhancementType: "general",
		}}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/enhance-prompt", gin.H{
			"user_id": "user-1",
			"prompt":  "prompt",
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		var data EnhanceResponse
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "better prompt", data.EnhancedPrompt)
		assert.Equal(t, "prompt", data.OriginalPrompt)
	})

	t.Run("Rejects a missing prompt without touching the service", func(t *testing.T) {
		svc := &mockAIService{}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/enhance-prompt", gin.H{"user_id": "user-1"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "invalid_input", resp.Error)
		assert.Equal(t, "invalid request", resp.Message)
		assert.Equal(t, 0, svc.calls)
	})

	t.Run("Maps an insufficient balance to 402", func(t *testing.T) {
		svc := &mockAIService{enhanceErr: apperrors.InsufficientBalance(nil)}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/enhance-prompt", gin.H{
			"user_id": "user-1",
			"prompt":  "prompt",
		})

		require.Equal(t, http.StatusPaymentRequired, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "insufficient_balance", resp.Error)
		assert.Equal(t, "insufficient balance", resp.Message)
	})
}

func TestHandler_GenerateResponse(t *testing.T) {
	t.Run("Returns the generated response", func(t *testing.T) {
		svc := &mockAIService{generateResp: &GenerateResponse{
			Response:     "an answer",
			ResponseType: "explanation",
		}}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/generate-response", gin.H{
			"user_id":       "user-1",
			"content":       "a question",
			"response_type": "explanation",
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)

		var data GenerateResponse
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "an answer", data.Response)
		assert.Equal(t, "explanation", data.ResponseType)
	})

	t.Run("Rejects a malformed body", func(t *testing.T) {
		svc := &mockAIService{}
		r := setupAIRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-response", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, svc.calls)
	})

	t.Run("Maps a retryable upstream failure to 504", func(t *testing.T) {
		svc := &mockAIService{generateErr: apperrors.TransientNetwork(context.DeadlineExceeded)}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/generate-response", gin.H{
			"user_id": "user-1",
			"content": "a question",
		})

		require.Equal(t, http.StatusGatewayTimeout, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "transient_network", resp.Error)
		assert.Equal(t, "request timed out, please try again", resp.Message)
	})
}

func TestHandler_TextToSpeech(t *testing.T) {
	t.Run("Streams the audio with attachment headers", func(t *testing.T) {
		svc := &mockAIService{speechResult: &SpeechResult{
			Audio:    []byte{0x49, 0x44, 0x33},
			MimeType: "audio/mpeg",
			Format:   "mp3",
		}}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/text-to-speech", gin.H{
			"user_id": "user-1",
			"text":    "hello",
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="speech.mp3"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, []byte{0x49, 0x44, 0x33}, w.Body.Bytes())
	})

	t.Run("Rejects an unknown voice without touching the service", func(t *testing.T) {
		svc := &mockAIService{}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/text-to-speech", gin.H{
			"user_id": "user-1",
			"text":    "hello",
			"voice":   "bogus",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid_input", resp.Error)
		assert.Equal(t, 0, svc.calls)
	})

	t.Run("Rejects a speed outside the supported range", func(t *testing.T) {
		svc := &mockAIService{}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/text-to-speech", gin.H{
			"user_id": "user-1",
			"text":    "hello",
			"speed":   3.5,
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, svc.calls)
	})

	t.Run("Maps a daily cap rejection to 429", func(t *testing.T) {
		svc := &mockAIService{speechErr: apperrors.RateLimited(nil)}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodPost, "/api/ai/text-to-speech", gin.H{
			"user_id": "user-1",
			"text":    "hello",
		})

		require.Equal(t, http.StatusTooManyRequests, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "rate_limited", resp.Error)
		assert.Equal(t, "too many requests", resp.Message)
	})
}

func TestHandler_Health(t *testing.T) {
	t.Run("Reports healthy with 200", func(t *testing.T) {
		svc := &mockAIService{health: &HealthResponse{Status: "healthy", Message: "ai service is ready"}}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodGet, "/api/ai/health", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var health HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
		assert.Equal(t, "healthy", health.Status)
		assert.NotContains(t, w.Body.String(), `"success"`)
	})

	t.Run("Reports unhealthy with 503", func(t *testing.T) {
		svc := &mockAIService{health: &HealthResponse{
			Status:  "unhealthy",
			Message: "ai service is temporarily unavailable",
		}}
		r := setupAIRouter(svc)

		w := doAIRequest(t, r, http.MethodGet, "/api/ai/health", nil)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var health HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
		assert.Equal(t, "unhealthy", health.Status)
	})
}
