// Package gemini reads slip images with a Gemini vision model.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/logger"
	"google.golang.org/genai"
)

const DefaultModelName = "gemini-2.5-flash"

// Dialect labels results that came from the vision model.
const Dialect common.Dialect = "Gemini"

var (
	ErrQuotaExceeded = errors.New("gemini quota exceeded")
	ErrEmptyResponse = errors.New("empty response from model")
)

const prompt = `Analyze this bank transfer slip (Thai bank slip). Extract the following details and return ONLY a valid JSON object with no markdown formatting or other text.

JSON Keys:
- bank: The bank name. Return one of these exact strings: "KBank", "SCB", "Krungthai", "Bangkok Bank", "TTB", "GSB", "Krungsri", "CIMB", "UOB", "TISCO", "LHB", "Kiatnakin", "Thanachart", "MAKE by KBank".
- date: The transaction date (preferably in DD/MM/YYYY format, convert Buddhist year to Gregorian if needed).
- sender: The sender's name.
- receiver: The receiver's name.
- amount: The amount transferred (numbers only, no comma).
- refId: The transaction reference ID.

If a field is not found or unclear, set the value to "-".`

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models generator
	model  string
}

// New creates a client for the Gemini API. An empty model uses
// DefaultModelName.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(client.Models, model), nil
}

func newClient(g generator, model string) *Client {
	if model == "" {
		model = DefaultModelName
	}
	return &Client{models: g, model: model}
}

// ExtractImage asks the model for the slip fields in img.
func (c *Client) ExtractImage(ctx context.Context, img []byte, mimeType string) (common.Fields, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: img}},
			},
		},
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		if isQuotaError(err) {
			return common.Fields{}, fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return common.Fields{}, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return common.Fields{}, ErrEmptyResponse
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &parsed); err != nil {
		log := logger.FromContext(ctx)
		log.Debug().Str("raw", raw).Msg("unparseable model output")
		return common.Fields{}, fmt.Errorf("unmarshal model JSON: %w", err)
	}
	return common.FieldsFromAny(parsed), nil
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "quota")
}

// cleanModelJSON strips markdown fences and any text around the object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
