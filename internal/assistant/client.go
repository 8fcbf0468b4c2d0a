package assistant

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/raditmaulana/bengkelhub-backend/pkg/config"
)

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// geminiClient talks to the generative-language REST API.
type geminiClient struct {
	http  *resty.Client
	model string
	key   string
}

func newGeminiClient(cfg config.AssistantConfig) *geminiClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	return &geminiClient{http: client, model: cfg.Model, key: cfg.APIKey}
}

func (c *geminiClient) generate(ctx context.Context, req generateRequest) (string, error) {
	var (
		out    generateResponse
		apiErr apiErrorResponse
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.key).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("assistant api status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("assistant api returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
