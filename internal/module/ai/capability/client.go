package capability

import "context"

// Client is a connection to the external generative capability. One shared
// instance serves all requests; implementations must be safe for concurrent
// use.
type Client interface {
	GenerateText(ctx context.Context, req *GenerateTextRequest) (*GenerateTextResponse, error)
	SynthesizeSpeech(ctx context.Context, req *SynthesizeSpeechRequest) ([]byte, error)
}
