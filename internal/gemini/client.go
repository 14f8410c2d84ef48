// Package gemini calls the Gemini generateContent API to transcribe
// spoken audio in a media file into timestamped English text.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/transcriptai/transcript-service/internal/config"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// transcribePrompt is the fixed instruction sent with every request.
// The parser downstream depends on the [MM:SS]-per-line output shape.
const transcribePrompt = `You are an expert transcriber.
Please transcribe the audio from this video into English.

Rules:
1. If the audio is in a language other than English, translate it to English.
2. Provide timestamps at the beginning of each segment in the format [MM:SS].
3. Ignore background noise or silence.
4. Format the output clearly with one segment per line.`

// Client calls the Gemini generateContent endpoint
type Client struct {
	apiKey      string
	model       string
	temperature float64
	baseURL     string
	httpClient  *http.Client
}

// generateRequest is the generateContent request payload
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

// generateResponse is the subset of the generateContent response we read
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// QuotaError reports a rate/quota rejection from the API
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("gemini quota exceeded: %s", e.Message)
}

// NewClient creates a new Gemini client from configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey:      cfg.GeminiAPIKey,
		model:       cfg.GeminiModel,
		temperature: cfg.GeminiTemperature,
		baseURL:     defaultBaseURL,
		// No client-level timeout; the caller bounds the call through ctx.
		httpClient: &http.Client{},
	}
}

// Generate sends the media bytes plus the fixed transcription prompt and
// returns the model's free-form text response.
func (c *Client) Generate(ctx context.Context, data []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(data),
				}},
				{Text: transcribePrompt},
			},
		}},
		GenerationConfig: &generationConfig{Temperature: c.temperature},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &QuotaError{Message: strings.TrimSpace(string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if genResp.Error != nil {
		return "", fmt.Errorf("gemini API error %d: %s", genResp.Error.Code, genResp.Error.Message)
	}

	var sb strings.Builder
	for _, cand := range genResp.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
	}

	return sb.String(), nil
}

// SetBaseURL overrides the API endpoint, used by tests
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}
