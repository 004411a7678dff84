package capability

// GenerateTextRequest describes one text generation call.
type GenerateTextRequest struct {
	Instruction string  // system guidance for the model
	Prompt      string  // assembled user content
	MaxTokens   int     // upper bound on generated tokens, 0 means provider default
	Temperature float64 // sampling randomness
}

// GenerateTextResponse carries the generated text and usage accounting.
type GenerateTextResponse struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// SynthesizeSpeechRequest describes one speech synthesis call.
type SynthesizeSpeechRequest struct {
	Text   string
	Voice  string
	Format string
	Speed  float64
	Model  string // empty means the configured default
}

// MimeTypeForFormat maps an audio response format to its MIME type.
func MimeTypeForFormat(format string) string {
	switch format {
	case "mp3":
		return "audio/mpeg"
	case "opus":
		return "audio/opus"
	case "aac":
		return "audio/aac"
	case "flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
