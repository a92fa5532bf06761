// Package roastclient calls a running roastmycode API. It implements the
// workflow gateway and connectivity ports so a terminal session can drive
// the same controller the server uses.
package roastclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/platform/envutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/requestid"
)

const DefaultBaseURL = "http://localhost:8080"

type Options struct {
	BaseURL string
	// ClientID is sent as X-Client-Id so progress is kept per terminal user.
	ClientID string

	Timeout      time.Duration
	CheckTimeout time.Duration

	HTTPClient *http.Client
}

type Client struct {
	baseURL  string
	clientID string

	timeout      time.Duration
	checkTimeout time.Duration

	httpClient *http.Client
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	check := opts.CheckTimeout
	if check <= 0 {
		check = 3 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:      baseURL,
		clientID:     strings.TrimSpace(opts.ClientID),
		timeout:      timeout,
		checkTimeout: check,
		httpClient:   hc,
	}, nil
}

func NewFromEnv(clientID string) (*Client, error) {
	return New(Options{
		BaseURL:  envutil.String("ROAST_API_URL", DefaultBaseURL),
		ClientID: clientID,
		Timeout:  envutil.Duration("ROAST_API_TIMEOUT", 90*time.Second),
	})
}

func (c *Client) BaseURL() string { return c.baseURL }

// Online checks /healthz. Any transport failure or non-200 counts as offline.
func (c *Client) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) Roast(ctx context.Context, code string, lang roast.Language) (roast.Result, error) {
	var out roast.Result
	err := c.doJSON(ctx, http.MethodPost, "/roast-code", map[string]string{
		"code":     code,
		"language": string(lang),
	}, &out)
	return out, err
}

func (c *Client) ExplainBack(ctx context.Context, code string, lang roast.Language, corrected, explanation string) (roast.ExplainBackVerdict, error) {
	var out roast.ExplainBackVerdict
	err := c.doJSON(ctx, http.MethodPost, "/roast-code", map[string]string{
		"mode":            "explain-back",
		"code":            code,
		"language":        string(lang),
		"correctedCode":   corrected,
		"userExplanation": explanation,
	}, &out)
	return out, err
}

func (c *Client) ExtractCode(ctx context.Context, imageDataURL string) (roast.ExtractedCode, error) {
	var out roast.ExtractedCode
	err := c.doJSON(ctx, http.MethodPost, "/analyze-image", map[string]string{
		"image": imageDataURL,
		"mode":  string(roast.ImageModeExtractCode),
	}, &out)
	return out, err
}

func (c *Client) SolveQuestion(ctx context.Context, imageDataURL string) (roast.QuestionSolution, error) {
	var out roast.QuestionSolution
	err := c.doJSON(ctx, http.MethodPost, "/analyze-image", map[string]string{
		"image": imageDataURL,
		"mode":  string(roast.ImageModeSolveQuestion),
	}, &out)
	return out, err
}

// doJSON makes exactly one request. Failed requests are never retried; the
// user resubmits.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestid.New())
	if c.clientID != "" {
		req.Header.Set("X-Client-Id", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return roast.NewError(roast.KindUpstreamUnavailable, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		return roast.NewError(roast.KindUpstreamUnavailable, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseEdgeError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return roast.NewError(roast.KindMalformedJSON, err)
	}
	return nil
}

// parseEdgeError turns a {"error": "..."} response back into a roast.Error
// whose kind follows the status code.
func parseEdgeError(status int, raw []byte) error {
	var env struct {
		Error string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(raw, &env); err == nil {
		msg = strings.TrimSpace(env.Error)
	}
	kind := roast.KindUpstreamUnavailable
	switch status {
	case http.StatusBadRequest:
		kind = roast.KindInvalidRequest
	case http.StatusTooManyRequests:
		kind = roast.KindRateLimited
	case http.StatusPaymentRequired:
		kind = roast.KindQuotaExceeded
	case http.StatusConflict:
		kind = roast.KindBusy
	case http.StatusServiceUnavailable:
		kind = roast.KindOffline
	}
	return &roast.Error{Kind: kind, Message: msg, Err: fmt.Errorf("api status %d", status)}
}
