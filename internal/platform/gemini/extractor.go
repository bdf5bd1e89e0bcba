package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	// defaultModel is the Gemini model used for extraction.
	defaultModel = "gemini-2.0-flash"

	// defaultMaxRetries bounds retry attempts for transient API errors.
	defaultMaxRetries = 3

	// defaultRetryDelay is the base backoff delay between attempts.
	defaultRetryDelay = 2 * time.Second
)

// extractionPrompt frames the source material for the model. The model
// returns plain unit content, not JSON, so parsing stays trivial.
const extractionPrompt = `You are preparing training material for a billiards skill-training app.
Rewrite the raw source material below into a single, self-contained training
unit description. Keep the drill instructions, success criteria and any
measurements. Drop page numbers, headers and scanning artifacts. Answer with
the cleaned text only.

Source material:
%s`

// Extractor turns raw source material into clean training unit content
// via the Gemini API.
type Extractor struct {
	logger     *slog.Logger
	client     *genai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
}

// NewExtractor creates an Extractor with the given API key.
func NewExtractor(ctx context.Context, logger *slog.Logger, apiKey string) (*Extractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create client: %v", ErrInvalidConfig, err)
	}

	return &Extractor{
		logger:     logger.With("component", "gemini_extractor"),
		client:     client,
		model:      defaultModel,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}, nil
}

// ExtractUnitContent produces clean unit content from the given raw
// source material. Transient API errors are retried with exponential
// backoff and jitter; malformed or blocked responses fail immediately.
func (e *Extractor) ExtractUnitContent(ctx context.Context, source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", ErrEmptySource
	}

	prompt := fmt.Sprintf(extractionPrompt, source)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		e.logger.DebugContext(ctx, "calling Gemini API",
			"attempt", attempt+1,
			"max_attempts", e.maxRetries+1,
			"source_length", len(source))

		content, err := e.callOnce(ctx, prompt)
		if err == nil {
			return content, nil
		}
		lastErr = err

		// Permanent failures do not improve with retries.
		if isPermanent(err) {
			return "", err
		}
		if attempt == e.maxRetries {
			break
		}

		// Exponential backoff with jitter in [0.5, 1.0].
		backoff := float64(e.retryDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5))

		e.logger.WarnContext(ctx, "Gemini API call failed, retrying",
			"error", err,
			"attempt", attempt+1,
			"delay", delay)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("%w: exceeded %d attempts: %v",
		ErrTransientFailure, e.maxRetries+1, lastErr)
}

// callOnce makes a single generation request and validates the response.
func (e *Extractor) callOnce(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", ErrContentBlocked
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty content", ErrInvalidResponse)
	}
	return text, nil
}

// isPermanent reports whether the error will not be fixed by retrying.
func isPermanent(err error) bool {
	return errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrContentBlocked)
}
