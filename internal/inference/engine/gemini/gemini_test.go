package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"

	"github.com/yungbote/roastmycode-backend/internal/inference/engine"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	cfg      *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.cfg = model, contents, cfg
	return f.resp, f.err
}

func textResponse(s string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: s}}}}},
	}
}

func TestGenerateTextMapsMessages(t *testing.T) {
	f := &fakeModels{resp: textResponse(`{"code":"x"}`)}
	e := &Engine{models: f}

	out, err := e.GenerateText(context.Background(), "google/gemini-2.5-flash", []engine.Message{
		{Role: engine.RoleSystem, Content: "extract"},
		{Role: engine.RoleUser, Content: "here", ImageURLs: []string{"data:image/jpeg;base64,aGVsbG8="}},
	}, engine.GenerateOptions{Temperature: 0.3, MaxTokens: 2000, JSONObject: true})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != `{"code":"x"}` {
		t.Fatalf("out=%q", out)
	}
	if f.model != "gemini-2.5-flash" {
		t.Fatalf("model=%q", f.model)
	}
	if f.cfg.SystemInstruction == nil || f.cfg.SystemInstruction.Parts[0].Text != "extract" {
		t.Fatalf("system instruction not set")
	}
	if f.cfg.MaxOutputTokens != 2000 || f.cfg.ResponseMIMEType != "application/json" {
		t.Fatalf("cfg=%+v", f.cfg)
	}
	if len(f.contents) != 1 || len(f.contents[0].Parts) != 2 {
		t.Fatalf("contents=%+v", f.contents)
	}
	blob := f.contents[0].Parts[1].InlineData
	if blob == nil || blob.MIMEType != "image/jpeg" || string(blob.Data) != "hello" {
		t.Fatalf("inline data=%+v", blob)
	}
}

func TestGenerateTextEmpty(t *testing.T) {
	e := &Engine{models: &fakeModels{resp: &genai.GenerateContentResponse{}}}
	_, err := e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})
	if !errors.Is(err, engine.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestGenerateTextMapsAPIError(t *testing.T) {
	e := &Engine{models: &fakeModels{err: genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}}}
	_, err := e.GenerateText(context.Background(), "m", []engine.Message{{Role: "user", Content: "x"}}, engine.GenerateOptions{})
	if engine.StatusOf(err) != http.StatusTooManyRequests {
		t.Fatalf("status=%d err=%v", engine.StatusOf(err), err)
	}
}
