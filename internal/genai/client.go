package genai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	// ErrIncomplete occurs when the model returns JSON that parses but is
	// missing fields the view cannot render without.
	ErrIncomplete = errors.New("incomplete generation response")

	// ErrEmptyResponse occurs when the API returns no candidates.
	ErrEmptyResponse = errors.New("generation returned no candidates")
)

// Client calls the Gemini generateContent API with a response schema per
// operation. The schema is the only structural guarantee; every semantic
// constraint (units, disambiguation, category vocabularies) lives in the
// prompt text.
type Client struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a generation client configured from the environment.
func NewClient() *Client {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &Client{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   model,
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string             `json:"responseMimeType"`
	ResponseSchema   *jsonschema.Schema `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt with its schema and returns the raw candidate
// text, trimmed. Transport, rate-limit and decode failures come back as plain
// errors; a 429 keeps its status code in the error text so callers can
// recognize it.
func (c *Client) generate(ctx context.Context, prompt string, schema *jsonschema.Schema) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.BaseURL, c.Model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API error: %d %s", resp.StatusCode, resp.Status)
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text), nil
}

// schemaFor reflects a result type into the response schema sent with the
// request. Optional fields are the ones tagged omitempty.
func schemaFor(v any) *jsonschema.Schema {
	ref := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	schema := ref.Reflect(v)
	schema.Version = ""
	return schema
}

// IsRateLimited reports whether an error looks like a 429 from the API.
func IsRateLimited(err error) bool {
	return err != nil && strings.Contains(err.Error(), "429")
}
