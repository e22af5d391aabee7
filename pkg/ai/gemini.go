package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// GeminiConfig defines configuration options for the Gemini evaluator.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Logger          zerolog.Logger
}

// GeminiEvaluator implements Evaluator against the Gemini generate-content API.
type GeminiEvaluator struct {
	client *genai.Client
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiEvaluator builds a new evaluator using the provided configuration.
// A missing API key is reported here so callers receive a typed
// "not configured" failure instead of a silently unset client.
func NewGeminiEvaluator(ctx context.Context, cfg GeminiConfig) (*GeminiEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 4096
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &GeminiEvaluator{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/projeval/projeval-api/pkg/ai/gemini"),
		logger: logger.With().Str("component", "gemini_evaluator").Logger(),
	}, nil
}

// Evaluate sends the prompt to Gemini and returns the raw response text.
func (e *GeminiEvaluator) Evaluate(parent context.Context, prompt string) (string, error) {
	ctx, span := e.tracer.Start(parent, "gemini.evaluate", trace.WithAttributes(
		attribute.String("model", e.cfg.Model),
	))
	defer span.End()

	temperature := e.cfg.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: e.cfg.MaxOutputTokens,
	}

	start := time.Now()
	resp, err := e.client.Models.GenerateContent(ctx, e.cfg.Model, genai.Text(prompt), config)
	aiDuration.WithLabelValues(e.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(e.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("gemini evaluate: %w", err)
	}

	if resp == nil {
		err := fmt.Errorf("no response generated")
		aiFailures.WithLabelValues(e.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		err := fmt.Errorf("no text content in gemini response")
		aiFailures.WithLabelValues(e.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return text, nil
}
