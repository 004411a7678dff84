package ai

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scizor/server/internal/shared/response"
)

// Handler handles AI operation HTTP requests.
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new AI handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the AI operation routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ai := r.Group("/ai")
	{
		ai.POST("/enhance-prompt", h.EnhancePrompt)
		ai.POST("/generate-response", h.GenerateResponse)
		ai.POST("/text-to-speech", h.TextToSpeech)
		ai.GET("/health", h.Health)
	}
}

// EnhancePrompt godoc
// @Summary Enhance a prompt
// @Description Rewrites the prompt to be clearer and more effective; costs one operation
// @Tags ai
// @Accept json
// @Produce json
// @Param request body EnhanceRequest true "Prompt to enhance"
// @Success 200 {object} response.Envelope{data=EnhanceResponse}
// @Failure 400 {object} response.Envelope
// @Failure 402 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ai/enhance-prompt [post]
func (h *Handler) EnhancePrompt(c *gin.Context) {
	var req EnhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	resp, err := h.service.EnhancePrompt(c.Request.Context(), &req)
	if err != nil {
		response.Classified(c, err)
		return
	}

	response.OK(c, resp)
}

// GenerateResponse godoc
// @Summary Generate a response
// @Description Answers the given content directly; costs one operation
// @Tags ai
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Content to respond to"
// @Success 200 {object} response.Envelope{data=GenerateResponse}
// @Failure 400 {object} response.Envelope
// @Failure 402 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ai/generate-response [post]
func (h *Handler) GenerateResponse(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	resp, err := h.service.GenerateResponse(c.Request.Context(), &req)
	if err != nil {
		response.Classified(c, err)
		return
	}

	response.OK(c, resp)
}

// TextToSpeech godoc
// @Summary Convert text to speech
// @Description Synthesizes speech and streams the audio bytes; costs one operation
// @Tags ai
// @Accept json
// @Produce audio/mpeg
// @Param request body SpeechRequest true "Text to synthesize"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 402 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /ai/text-to-speech [post]
func (h *Handler) TextToSpeech(c *gin.Context) {
	var req SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request")
		return
	}

	result, err := h.service.SynthesizeSpeech(c.Request.Context(), &req)
	if err != nil {
		response.Classified(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "speech."+result.Format))
	c.Data(http.StatusOK, result.MimeType, result.Audio)
}

// Health godoc
// @Summary AI service health
// @Description Reports whether the capability client is ready
// @Tags ai
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /ai/health [get]
func (h *Handler) Health(c *gin.Context) {
	health := h.service.Health(c.Request.Context())

	status := http.StatusOK
	if health.Status != statusHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
