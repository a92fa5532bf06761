// Package gemini adapts the Google Gen AI SDK to the engine interface so the
// service can call Gemini directly instead of through the chat gateway.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yungbote/roastmycode-backend/internal/inference/config"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine"
	"github.com/yungbote/roastmycode-backend/internal/platform/dataurl"
)

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Engine struct {
	models generator
}

func New(ctx context.Context, cfg config.EngineConfig) (*Engine, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai: api_key required")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: new client: %w", err)
	}
	return &Engine{models: cli.Models}, nil
}

// APIError carries the Gemini status code so callers classify it like a
// gateway HTTP status.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("genai error: status=%d %s", e.Code, e.Message)
}

func (e *APIError) HTTPStatus() int { return e.Code }

func (e *APIError) Snippet() string {
	if len(e.Message) > 500 {
		return e.Message[:500]
	}
	return e.Message
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	contents, system, err := toContents(messages)
	if err != nil {
		return "", err
	}
	if len(contents) == 0 {
		return "", errors.New("no messages")
	}

	gcfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		gcfg.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.JSONObject {
		gcfg.ResponseMIMEType = "application/json"
	}

	resp, err := e.models.GenerateContent(ctx, upstreamName(model), contents, gcfg)
	if err != nil {
		return "", mapError(err)
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", engine.ErrEmptyCompletion
	}
	return text, nil
}

// upstreamName drops the gateway's provider prefix ("google/gemini-2.5-flash").
func upstreamName(model string) string {
	model = strings.TrimSpace(model)
	if i := strings.LastIndex(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}

func toContents(messages []engine.Message) ([]*genai.Content, *genai.Content, error) {
	var system *genai.Content
	out := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if strings.EqualFold(m.Role, engine.RoleSystem) {
			if text == "" {
				continue
			}
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: text})
			continue
		}
		c := &genai.Content{Role: string(genai.RoleUser)}
		if text != "" {
			c.Parts = append(c.Parts, &genai.Part{Text: text})
		}
		for _, u := range m.ImageURLs {
			mime, data, err := dataurl.Parse(u)
			if err != nil {
				return nil, nil, err
			}
			c.Parts = append(c.Parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mime, Data: data}})
		}
		if len(c.Parts) > 0 {
			out = append(out, c)
		}
	}
	return out, system, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Code: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &APIError{Code: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return err
}
