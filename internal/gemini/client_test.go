package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/transcriptai/transcript-service/internal/config"
)

func testClient(baseURL string) *Client {
	c := NewClient(&config.Config{
		GeminiAPIKey:      "test-key",
		GeminiModel:       "gemini-3-flash-preview",
		GeminiTemperature: 0.2,
	})
	c.SetBaseURL(baseURL)
	return c
}

func textResponse(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerate_RequestShape(t *testing.T) {
	var captured generateRequest
	var path, apiKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		w.Write([]byte(textResponse("[00:01] hi")))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	media := []byte{0x00, 0x01, 0x02, 0xff}

	text, err := client.Generate(context.Background(), media, "video/webm")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if text != "[00:01] hi" {
		t.Errorf("Unexpected text: %q", text)
	}

	if path != "/models/gemini-3-flash-preview:generateContent" {
		t.Errorf("Unexpected path: %s", path)
	}
	if apiKey != "test-key" {
		t.Errorf("Unexpected api key header: %s", apiKey)
	}

	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatalf("Unexpected request structure: %+v", captured)
	}

	inline := captured.Contents[0].Parts[0].InlineData
	if inline == nil {
		t.Fatal("Expected inline media data in first part")
	}
	if inline.MimeType != "video/webm" {
		t.Errorf("Unexpected mime type: %s", inline.MimeType)
	}
	if inline.Data != base64.StdEncoding.EncodeToString(media) {
		t.Errorf("Media bytes not base64-encoded correctly")
	}

	prompt := captured.Contents[0].Parts[1].Text
	if !strings.Contains(prompt, "[MM:SS]") {
		t.Errorf("Prompt missing timestamp instruction: %q", prompt)
	}
	if !strings.Contains(prompt, "translate it to English") {
		t.Errorf("Prompt missing translation instruction: %q", prompt)
	}

	if captured.GenerationConfig == nil || captured.GenerationConfig.Temperature != 0.2 {
		t.Errorf("Unexpected generation config: %+v", captured.GenerationConfig)
	}
}

func TestGenerate_DefaultMimeType(t *testing.T) {
	var captured generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(textResponse("ok")))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Generate(context.Background(), []byte("x"), ""); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if captured.Contents[0].Parts[0].InlineData.MimeType != "video/mp4" {
		t.Errorf("Expected video/mp4 fallback, got %s", captured.Contents[0].Parts[0].InlineData.MimeType)
	}
}

func TestGenerate_MultiPartResponseJoined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[00:01] a"},{"text":"\n[00:02] b"}]}}]}`))
	}))
	defer srv.Close()

	text, err := testClient(srv.URL).Generate(context.Background(), []byte("x"), "audio/mpeg")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if text != "[00:01] a\n[00:02] b" {
		t.Errorf("Unexpected joined text: %q", text)
	}
}

func TestGenerate_QuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), []byte("x"), "video/mp4")

	var quota *QuotaError
	if !errors.As(err, &quota) {
		t.Fatalf("Expected QuotaError, got %v", err)
	}
}

func TestGenerate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"internal"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Generate(context.Background(), []byte("x"), "video/mp4")
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Expected status in error, got: %v", err)
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := testClient(srv.URL).Generate(ctx, []byte("x"), "video/mp4"); err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
