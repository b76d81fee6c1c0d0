package geminisvc

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/trezcool/edutube/core/content"
)

// supportedAPIVersion is the surface served by the genai SDK.
const supportedAPIVersion = "v1beta"

// Client calls the Gemini API. It is safe for concurrent use.
type Client struct {
	genai *genai.Client
}

var _ content.ModelClient = (*Client)(nil) // interface compliance check

// NewClient creates a Gemini client. opts are appended after the API key (endpoint overrides in tests).
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing API key")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	c, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating gemini client")
	}
	return &Client{genai: c}, nil
}

func (c *Client) Close() error {
	return c.genai.Close()
}

// Generate sends the prompt and every file as inline data to cand, once.
func (c *Client) Generate(ctx context.Context, cand content.Candidate, req content.GenerationRequest) (string, error) {
	if cand.APIVersion != supportedAPIVersion {
		return "", errors.Wrapf(content.ErrUnsupportedAPIVersion, "%s", cand.APIVersion)
	}

	parts := make([]genai.Part, 0, len(req.Files)+1)
	parts = append(parts, genai.Text(req.Prompt))
	for _, f := range req.Files {
		parts = append(parts, genai.Blob{MIMEType: f.MIMEType, Data: f.Data})
	}

	resp, err := c.genai.GenerativeModel(cand.Name).GenerateContent(ctx, parts...)
	if err != nil {
		return "", errors.Wrapf(err, "generating with %s", cand.Name)
	}
	return primaryText(resp), nil
}

// primaryText concatenates the text parts of the first candidate.
func primaryText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String()
}

// ModelInfo describes a model visible to the API key.
type ModelInfo struct {
	Name        string
	DisplayName string
	Methods     []string
}

// ListModels returns the models that support content generation.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	it := c.genai.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "listing models")
		}
		if !supports(m.SupportedGenerationMethods, "generateContent") {
			continue
		}
		models = append(models, ModelInfo{
			Name:        strings.TrimPrefix(m.Name, "models/"),
			DisplayName: m.DisplayName,
			Methods:     m.SupportedGenerationMethods,
		})
	}
	return models, nil
}

func supports(methods []string, method string) bool {
	for _, m := range methods {
		if m == method {
			return true
		}
	}
	return false
}
