package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/scizor/server/internal/module/ai/audio"
	"github.com/scizor/server/internal/module/ai/capability"
	"github.com/scizor/server/internal/module/ai/catalog"
	"github.com/scizor/server/internal/module/ai/interaction"
	"github.com/scizor/server/internal/module/ledger"
	"github.com/scizor/server/internal/module/ledger/quota"
	"github.com/scizor/server/internal/shared/config"
	apperrors "github.com/scizor/server/internal/shared/errors"
	"github.com/scizor/server/internal/utils/metrics"
	"github.com/scizor/server/internal/utils/requestctx"
)

// fallbackText stands in when the capability produces no usable content for
// a text operation. A designed degradation, not an error.
const fallbackText = "No response generated."

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	healthyMessage  = "ai service is ready"

	defaultVoice  = "alloy"
	defaultFormat = "mp3"
	defaultSpeed  = 1.0

	archiveTimeout = 30 * time.Second
)

// ClientProvider hands out the shared capability client.
type ClientProvider interface {
	Ensure(ctx context.Context) (capability.Client, error)
}

// ServiceInterface defines the operation dispatcher contract.
type ServiceInterface interface {
	EnhancePrompt(ctx context.Context, req *EnhanceRequest) (*EnhanceResponse, error)
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	SynthesizeSpeech(ctx context.Context, req *SpeechRequest) (*SpeechResult, error)
	Health(ctx context.Context) *HealthResponse
}

// Service dispatches every paid operation through one path: validate, check
// the daily cap, charge the ledger, invoke the capability exactly once, and
// record the attempt. A spend is never refunded; failures after the charge
// are classified and surfaced as-is.
type Service struct {
	provider ClientProvider
	ledger   ledger.ServiceInterface
	limiter  quota.Limiter
	recorder *interaction.Recorder
	archive  audio.Store
	costs    config.LedgerConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates the operation dispatcher.
func NewService(
	provider ClientProvider,
	ledgerSvc ledger.ServiceInterface,
	limiter quota.Limiter,
	recorder *interaction.Recorder,
	archive audio.Store,
	costs config.LedgerConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		provider: provider,
		ledger:   ledgerSvc,
		limiter:  limiter,
		recorder: recorder,
		archive:  archive,
		costs:    costs,
		metrics:  m,
		logger:   logger,
	}
}

// textOperation carries the per-kind parameters of a text dispatch.
type textOperation struct {
	userID  string
	subType string
	cost    int64
	input   catalog.PromptInput
}

// EnhancePrompt rewrites the user's prompt through the capability.
func (s *Service) EnhancePrompt(ctx context.Context, req *EnhanceRequest) (*EnhanceResponse, error) {
	text, resolved, err := s.runTextOperation(ctx, catalog.KindEnhancePrompt, textOperation{
		userID:  req.UserID,
		subType: req.EnhancementType,
		cost:    s.costs.EnhanceCost,
		input: catalog.PromptInput{
			Primary:    req.Prompt,
			Audience:   req.Audience,
			Tone:       req.Tone,
			LengthHint: req.LengthHint,
		},
	})
	if err != nil {
		return nil, err
	}
	return &EnhanceResponse{
		EnhancedPrompt:  text,
		OriginalPrompt:  req.Prompt,
		EnhancementType: resolved,
	}, nil
}

// GenerateResponse answers the user's content through the capability.
func (s *Service) GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	text, resolved, err := s.runTextOperation(ctx, catalog.KindGenerateResponse, textOperation{
		userID:  req.UserID,
		subType: req.ResponseType,
		cost:    s.costs.GenerateCost,
		input: catalog.PromptInput{
			Primary:    req.Content,
			Audience:   req.Audience,
			Tone:       req.Tone,
			LengthHint: req.LengthHint,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GenerateResponse{
		Response:     text,
		ResponseType: resolved,
	}, nil
}

// runTextOperation is the shared dispatch path for both text kinds. It
// returns the generated text and the resolved sub-type.
func (s *Service) runTextOperation(ctx context.Context, kind catalog.Kind, op textOperation) (string, string, error) {
	start := time.Now()

	if op.userID == "" || strings.TrimSpace(op.input.Primary) == "" {
		return "", "", s.reject(kind, start, apperrors.InvalidInput("invalid request"))
	}
	ctx = requestctx.WithUserID(ctx, op.userID)

	if err := s.checkDailyCap(ctx, op.userID); err != nil {
		return "", "", s.reject(kind, start, err)
	}
	if err := s.spend(ctx, op.userID, op.cost); err != nil {
		return "", "", s.reject(kind, start, err)
	}

	// The user is charged from here on, whatever happens next.
	client, err := s.provider.Ensure(ctx)
	if err != nil {
		s.finishText(kind, op, "", start, "", err)
		return "", "", err
	}

	entry, resolved := catalog.Lookup(kind, op.subType)
	prompt := catalog.BuildPrompt(&op.input)

	resp, err := client.GenerateText(ctx, &capability.GenerateTextRequest{
		Instruction: entry.Instruction,
		Prompt:      prompt,
		MaxTokens:   entry.MaxTokens,
		Temperature: entry.Temperature,
	})
	if err != nil {
		s.finishText(kind, op, resolved, start, "", err)
		return "", "", err
	}

	text := resp.Text
	if text == "" {
		text = fallbackText
	}

	s.finishText(kind, op, resolved, start, text, nil)
	return text, resolved, nil
}

// SynthesizeSpeech converts text to speech. Text length and voice parameters
// are validated before any charge.
func (s *Service) SynthesizeSpeech(ctx context.Context, req *SpeechRequest) (*SpeechResult, error) {
	start := time.Now()
	kind := catalog.KindTextToSpeech

	if req.UserID == "" || strings.TrimSpace(req.Text) == "" {
		return nil, s.reject(kind, start, apperrors.InvalidInput("invalid request"))
	}
	ctx = requestctx.WithUserID(ctx, req.UserID)

	entry, resolved := catalog.Lookup(kind, "")
	if n := utf8.RuneCountInString(req.Text); n > entry.MaxInputChars {
		return nil, s.reject(kind, start, apperrors.InvalidInput(
			fmt.Sprintf("text exceeds the maximum length of %d characters", entry.MaxInputChars)))
	}

	voice := req.Voice
	if voice == "" {
		voice = defaultVoice
	}
	format := req.Format
	if format == "" {
		format = defaultFormat
	}
	speed := req.Speed
	if speed == 0 {
		speed = defaultSpeed
	}

	if err := s.checkDailyCap(ctx, req.UserID); err != nil {
		return nil, s.reject(kind, start, err)
	}
	if err := s.spend(ctx, req.UserID, s.costs.SpeechCost); err != nil {
		return nil, s.reject(kind, start, err)
	}

	client, err := s.provider.Ensure(ctx)
	if err != nil {
		s.finishSpeech(req, resolved, start, voice, format, nil, err)
		return nil, err
	}

	clip, err := client.SynthesizeSpeech(ctx, &capability.SynthesizeSpeechRequest{
		Text:   req.Text,
		Voice:  voice,
		Format: format,
		Speed:  speed,
		Model:  req.Model,
	})
	if err != nil {
		s.finishSpeech(req, resolved, start, voice, format, nil, err)
		return nil, err
	}

	result := &SpeechResult{
		Audio:    clip,
		MimeType: capability.MimeTypeForFormat(format),
		Format:   format,
	}
	s.finishSpeech(req, resolved, start, voice, format, result, nil)
	return result, nil
}

// Health reports whether the capability client can be produced.
func (s *Service) Health(ctx context.Context) *HealthResponse {
	if _, err := s.provider.Ensure(ctx); err != nil {
		return &HealthResponse{
			Status:  statusUnhealthy,
			Message: apperrors.Classify(err).Message,
		}
	}
	return &HealthResponse{Status: statusHealthy, Message: healthyMessage}
}

// reject records the outcome of an operation that failed before any charge.
func (s *Service) reject(kind catalog.Kind, start time.Time, err error) error {
	s.metrics.RecordOperation(string(kind), string(apperrors.KindOf(err)), time.Since(start))
	return err
}

// checkDailyCap enforces the per-user daily request cap. Limiter errors fail
// open: availability of the counter store never blocks paying users.
func (s *Service) checkDailyCap(ctx context.Context, userID string) error {
	allowed, err := s.limiter.Allow(ctx, userID)
	if err != nil {
		return nil
	}
	if !allowed {
		return apperrors.RateLimited(errors.New("daily request cap reached"))
	}
	return nil
}

// spend charges the ledger, mapping its sentinels onto the error taxonomy.
func (s *Service) spend(ctx context.Context, userID string, cost int64) error {
	_, err := s.ledger.Spend(ctx, userID, cost)
	switch {
	case err == nil:
		s.metrics.RecordSpend("ok")
		return nil
	case errors.Is(err, ledger.ErrUserNotFound):
		s.metrics.RecordSpend("user_not_found")
		return apperrors.UserNotFound(err)
	case errors.Is(err, ledger.ErrInsufficientBalance):
		s.metrics.RecordSpend("insufficient_balance")
		return apperrors.InsufficientBalance(err)
	case errors.Is(err, ledger.ErrInvalidUserID), errors.Is(err, ledger.ErrInvalidCost):
		s.metrics.RecordSpend("error")
		return apperrors.InvalidInput("invalid request")
	default:
		s.metrics.RecordSpend("error")
		return fmt.Errorf("ledger spend: %w", err)
	}
}

// finishText records metrics and the interaction row for a charged text
// operation.
func (s *Service) finishText(kind catalog.Kind, op textOperation, subType string, start time.Time, output string, opErr error) {
	status := "ok"
	if opErr != nil {
		status = string(apperrors.KindOf(opErr))
	}
	s.metrics.RecordOperation(string(kind), status, time.Since(start))

	var labels pq.StringArray
	if op.input.Audience != "" {
		labels = append(labels, "audience:"+op.input.Audience)
	}
	if op.input.Tone != "" {
		labels = append(labels, "tone:"+op.input.Tone)
	}
	if op.input.LengthHint != "" {
		labels = append(labels, "length:"+op.input.LengthHint)
	}

	s.recorder.Record(&interaction.Record{
		UserID:        op.userID,
		Kind:          string(kind),
		SubType:       subType,
		PromptChars:   utf8.RuneCountInString(op.input.Primary),
		OutputChars:   utf8.RuneCountInString(output),
		Cost:          op.cost,
		Status:        status,
		ContextLabels: labels,
	})
}

// finishSpeech records metrics and the interaction row for a charged speech
// operation, and hands a successful clip to the archive.
func (s *Service) finishSpeech(req *SpeechRequest, subType string, start time.Time, voice, format string, result *SpeechResult, opErr error) {
	status := "ok"
	if opErr != nil {
		status = string(apperrors.KindOf(opErr))
	}
	s.metrics.RecordOperation(string(catalog.KindTextToSpeech), status, time.Since(start))

	labels := pq.StringArray{"voice:" + voice, "format:" + format}
	outputBytes := 0
	if result != nil {
		outputBytes = len(result.Audio)
		key := fmt.Sprintf("audio/%s/%s.%s", req.UserID, uuid.NewString(), format)
		labels = append(labels, "audio:"+key)
		s.archiveAudio(key, result)
	}

	s.recorder.Record(&interaction.Record{
		UserID:        req.UserID,
		Kind:          string(catalog.KindTextToSpeech),
		SubType:       subType,
		PromptChars:   utf8.RuneCountInString(req.Text),
		OutputChars:   outputBytes,
		Cost:          s.costs.SpeechCost,
		Status:        status,
		ContextLabels: labels,
	})
}

// archiveAudio uploads the clip in the background; the request never waits
// on the archive.
func (s *Service) archiveAudio(key string, result *SpeechResult) {
	data := result.Audio
	mime := result.MimeType
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := s.archive.Save(ctx, key, data, mime); err != nil {
			s.logger.Warn("failed to archive audio clip",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}
