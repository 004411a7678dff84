package ai

// EnhanceRequest asks for a rewritten, improved version of a prompt.
type EnhanceRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	Prompt          string `json:"prompt" binding:"required"`
	EnhancementType string `json:"enhancement_type"`
	Audience        string `json:"audience"`
	Tone            string `json:"tone"`
	LengthHint      string `json:"length_hint"`
}

// EnhanceResponse carries the rewritten prompt.
type EnhanceResponse struct {
	EnhancedPrompt  string `json:"enhanced_prompt"`
	OriginalPrompt  string `json:"original_prompt"`
	EnhancementType string `json:"enhancement_type"`
}

// GenerateRequest asks for a direct response to the given content.
type GenerateRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	Content      string `json:"content" binding:"required"`
	ResponseType string `json:"response_type"`
	Audience     string `json:"audience"`
	Tone         string `json:"tone"`
	LengthHint   string `json:"length_hint"`
}

// GenerateResponse carries the generated response.
type GenerateResponse struct {
	Response     string `json:"response"`
	ResponseType string `json:"response_type"`
}

// SpeechRequest asks for synthesized speech. The responseFormat key is kept
// for compatibility with existing clients.
type SpeechRequest struct {
	UserID string  `json:"user_id" binding:"required"`
	Text   string  `json:"text" binding:"required"`
	Voice  string  `json:"voice" binding:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
	Format string  `json:"responseFormat" binding:"omitempty,oneof=mp3 opus aac flac"`
	Speed  float64 `json:"speed" binding:"omitempty,gte=0.25,lte=2.0"`
	Model  string  `json:"model" binding:"omitempty,oneof=tts-1 tts-1-hd"`
}

// SpeechResult is the synthesized clip handed back to the handler, which
// streams the bytes with the format's MIME type.
type SpeechResult struct {
	Audio    []byte
	MimeType string
	Format   string
}

// HealthResponse reports whether the capability client is ready.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
