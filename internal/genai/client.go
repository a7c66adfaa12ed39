// Package genai calls the generative endpoint for artwork edits and
// structured image analysis.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nanopack/internal/asset"
	"nanopack/internal/errors"
)

// Config holds client settings. Zero values fall back to the
// application defaults.
type Config struct {
	APIKey        string
	BaseURL       string
	ImageModel    string
	AnalysisModel string
	Timeout       time.Duration
}

// Client is a thin wrapper over the generateContent endpoint.
type Client struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

// NewClient creates a generative client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gemini-2.5-flash-image"
	}
	if cfg.AnalysisModel == "" {
		cfg.AnalysisModel = "gemini-2.5-flash"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string        `json:"responseModalities,omitempty"`
	ResponseMimeType   string          `json:"responseMimeType,omitempty"`
	ResponseSchema     json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string      `json:"text,omitempty"`
				InlineData *inlineData `json:"inlineData,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// EditImage applies a text instruction to a base64 data-URI image and
// returns the edited image as a data URI.
func (c *Client) EditImage(ctx context.Context, dataURI, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", errors.NewGenerationFailed("generative API key is not configured")
	}

	mimeType, body, err := asset.SplitDataURI(dataURI)
	if err != nil {
		return "", errors.NewGenerationFailed(fmt.Sprintf("bad source image: %v", err))
	}

	req := generateRequest{
		Contents: []content{
			{
				Parts: []part{
					{InlineData: &inlineData{MimeType: mimeType, Data: body}},
					{Text: prompt},
				},
				Role: "user",
			},
		},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	resp, err := c.generate(ctx, c.cfg.ImageModel, req)
	if err != nil {
		return "", errors.NewGenerationFailed(err.Error())
	}

	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				mt := p.InlineData.MimeType
				if mt == "" {
					mt = "image/png"
				}
				return "data:" + mt + ";base64," + p.InlineData.Data, nil
			}
		}
	}
	return "", errors.NewGenerationFailed("model returned no image")
}

// AnalyzeJSON sends a base64 data-URI image with an analysis prompt and
// a response schema, and returns the model's raw JSON text. Callers own
// validation of the returned document.
func (c *Client) AnalyzeJSON(ctx context.Context, dataURI, prompt string, schema json.RawMessage) (json.RawMessage, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("generative API key is not configured")
	}

	mimeType, body, err := asset.SplitDataURI(dataURI)
	if err != nil {
		return nil, fmt.Errorf("bad source image: %w", err)
	}

	req := generateRequest{
		Contents: []content{
			{
				Parts: []part{
					{InlineData: &inlineData{MimeType: mimeType, Data: body}},
					{Text: prompt},
				},
				Role: "user",
			},
		},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}

	resp, err := c.generate(ctx, c.cfg.AnalysisModel, req)
	if err != nil {
		return nil, err
	}

	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if text := strings.TrimSpace(p.Text); text != "" {
				return json.RawMessage(text), nil
			}
		}
	}
	return nil, fmt.Errorf("model returned no text")
}

func (c *Client) generate(ctx context.Context, model string, req generateRequest) (*generateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-Id", requestID)

	c.log.Debug("generateContent request",
		zap.String("model", model),
		zap.String("request_id", requestID))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generateContent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("generateContent error",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("generateContent error: status=%d body=%s", resp.StatusCode, string(errBody))
	}

	var gResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &gResp, nil
}
