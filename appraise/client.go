// package appraise turns a screenshot of in-game item text into a short
// value assessment: a vision model extracts the text, PreprocessOCRText
// cleans it, and an appraisal model judges the item.
package appraise

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/wdjwxh/d2rtz-bot/config"
	"github.com/wdjwxh/d2rtz-bot/logging"
	"github.com/wdjwxh/d2rtz-bot/metrics"
)

// mockDelay imitates the latency of a real model call in mock mode so the
// command flow around it stays realistic.
const mockDelay = 800 * time.Millisecond

// Client holds the two model connections used by the appraisal pipeline.
type Client struct {
	ocr    llms.Model
	llm    llms.Model
	mock   bool
	logger *logging.Logger
}

// Setup connects to the OCR vision endpoint and the appraisal endpoint. Both
// speak the OpenAI chat-completion dialect, so the same client library serves
// both with different base URLs and models. In mock mode no connection is made.
func Setup(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.MockMode {
		logger.Info("appraisal running in mock mode, model calls are canned")
		return &Client{mock: true, logger: logger}, nil
	}

	ocr, err := openai.New(
		openai.WithBaseURL(cfg.OCRAPIURL),
		openai.WithToken(tokenOr(cfg.OCRAPIKey)),
		openai.WithModel(cfg.OCRModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR client: %w", err)
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.AIAPIURL),
		openai.WithToken(tokenOr(cfg.AIAPIKey)),
		openai.WithModel(cfg.AIModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create appraisal LLM client: %w", err)
	}

	return &Client{
		ocr:    ocr,
		llm:    llm,
		logger: logger,
	}, nil
}

// tokenOr keeps the client library happy when an endpoint needs no auth.
func tokenOr(key string) string {
	if key == "" {
		return "none"
	}
	return key
}

// ExtractText runs the screenshot at imageURL through the OCR vision model
// and returns the raw extracted text.
func (c *Client) ExtractText(ctx context.Context, imageURL string, messageID uuid.UUID) (string, error) {
	log := c.logger.WithRequestID(messageID)

	if c.mock {
		if err := sleepCtx(ctx, mockDelay); err != nil {
			return "", err
		}
		return mockOCRText, nil
	}

	content := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.ImageURLPart(imageURL),
				llms.TextPart(ocrInstruction),
			},
		},
	}

	resp, err := c.ocr.GenerateContent(ctx, content,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(1024),
	)
	if err != nil {
		metrics.AppraisalStageTotal.WithLabelValues("ocr", "error").Inc()
		return "", fmt.Errorf("failed to get OCR response: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.AppraisalStageTotal.WithLabelValues("ocr", "empty").Inc()
		return "", fmt.Errorf("OCR API returned no choices")
	}

	metrics.AppraisalStageTotal.WithLabelValues("ocr", "success").Inc()
	log.Debug("ocr extraction complete", "chars", len(resp.Choices[0].Content))
	return resp.Choices[0].Content, nil
}

// Analyze sends the cleaned item text to the appraisal model and returns its
// verdict.
func (c *Client) Analyze(ctx context.Context, itemText string, messageID uuid.UUID) (string, error) {
	log := c.logger.WithRequestID(messageID)

	if c.mock {
		if err := sleepCtx(ctx, mockDelay); err != nil {
			return "", err
		}
		return mockAnalysis, nil
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, AppraiserPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, itemText),
	}

	resp, err := c.llm.GenerateContent(ctx, content,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(512),
	)
	if err != nil {
		metrics.AppraisalStageTotal.WithLabelValues("analyze", "error").Inc()
		return "", fmt.Errorf("failed to get appraisal response: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.AppraisalStageTotal.WithLabelValues("analyze", "empty").Inc()
		return "", fmt.Errorf("appraisal API returned no choices")
	}

	metrics.AppraisalStageTotal.WithLabelValues("analyze", "success").Inc()
	log.Debug("appraisal complete", "chars", len(resp.Choices[0].Content))
	return resp.Choices[0].Content, nil
}

// AppraiseImage is the full pipeline: OCR, preprocessing, analysis.
func (c *Client) AppraiseImage(ctx context.Context, imageURL string, messageID uuid.UUID) (string, error) {
	raw, err := c.ExtractText(ctx, imageURL, messageID)
	if err != nil {
		return "", err
	}
	return c.AppraiseText(ctx, raw, messageID)
}

// AppraiseText cleans already-extracted OCR text and analyzes it. Used
// directly when test mode supplies the text without a screenshot.
func (c *Client) AppraiseText(ctx context.Context, rawText string, messageID uuid.UUID) (string, error) {
	cleaned := PreprocessOCRText(rawText)
	if cleaned == "" {
		return "", fmt.Errorf("no usable item text after cleanup")
	}
	return c.Analyze(ctx, cleaned, messageID)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
