package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/inference/config"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine/oaihttp"
	"github.com/yungbote/roastmycode-backend/internal/inference/router"
	"github.com/yungbote/roastmycode-backend/internal/prompts"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

type engineFunc func(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error)

func (f engineFunc) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	return f(ctx, model, messages, opts)
}

type routes map[string]router.Route

func (r routes) RouteForMode(mode string) (router.Route, bool) {
	route, ok := r[mode]
	return route, ok
}

func routeTo(eng engine.Engine) routes {
	out := routes{}
	for _, p := range config.DefaultProfiles() {
		out[p.Mode] = router.Route{
			Mode:          p.Mode,
			EngineName:    "test",
			UpstreamModel: p.UpstreamModel,
			Temperature:   p.Temperature,
			MaxTokens:     p.MaxTokens,
			Engine:        eng,
		}
	}
	return out
}

func httpEngine(t *testing.T, calls *atomic.Int32, status int, body string) engine.Engine {
	t.Helper()
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		}, nil
	})}
	eng, err := oaihttp.NewWithHTTPClient(config.EngineConfig{
		Type:                "oai_http",
		BaseURL:             "http://gateway",
		APIKey:              "sk-test",
		ChatCompletionsPath: "/v1/chat/completions",
		Timeout:             config.Duration{Duration: time.Second},
	}, hc)
	require.NoError(t, err)
	return eng
}

func TestGatewayClassifiesUpstreamStatus(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   roast.Kind
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, roast.KindRateLimited},
		{"quota", http.StatusPaymentRequired, `{"error":"pay up"}`, roast.KindQuotaExceeded},
		{"server error", http.StatusBadGateway, `oops`, roast.KindUpstreamUnavailable},
		{"unauthorized", http.StatusUnauthorized, `{}`, roast.KindUpstreamUnavailable},
		{"empty completion", http.StatusOK, `{"choices":[{"message":{"content":""}}]}`, roast.KindEmptyResponse},
		{"no choices", http.StatusOK, `{"choices":[]}`, roast.KindEmptyResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			gw := NewGateway(nil, routeTo(httpEngine(t, &calls, tc.status, tc.body)), nil)
			_, err := gw.Complete(context.Background(), prompts.ComposeRoast("x = 1", roast.Python))
			require.Error(t, err)
			assert.Equal(t, tc.want, roast.KindOf(err))
			assert.Equal(t, int32(1), calls.Load(), "gateway must not retry")
		})
	}
}

func TestGatewayReturnsCompletion(t *testing.T) {
	var calls atomic.Int32
	gw := NewGateway(nil, routeTo(httpEngine(t, &calls, http.StatusOK, `{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`)), nil)
	got, err := gw.Complete(context.Background(), prompts.ComposeRoast("x = 1", roast.Python))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)
}

func TestGatewayNotConfigured(t *testing.T) {
	gw := NewGateway(nil, routeTo(nil), nil)
	_, err := gw.Complete(context.Background(), prompts.ComposeRoast("x", roast.JavaScript))
	assert.Equal(t, roast.KindNotConfigured, roast.KindOf(err))

	gw = NewGateway(nil, routes{}, nil)
	_, err = gw.Complete(context.Background(), prompts.Request{Mode: "unknown"})
	assert.Equal(t, roast.KindNotConfigured, roast.KindOf(err))
}

func TestGatewayPassesProfileOptions(t *testing.T) {
	var gotModel string
	var gotOpts engine.GenerateOptions
	eng := engineFunc(func(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
		gotModel, gotOpts = model, opts
		return "{}", nil
	})
	gw := NewGateway(nil, routeTo(eng), nil)
	_, err := gw.Complete(context.Background(), prompts.ComposeExtractCode("data:image/png;base64,AAAA"))
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", gotModel)
	assert.Equal(t, 0.3, gotOpts.Temperature)
	assert.Equal(t, 2000, gotOpts.MaxTokens)
}

func TestGatewayNetworkErrorIsUpstreamUnavailable(t *testing.T) {
	eng := engineFunc(func(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	})
	gw := NewGateway(nil, routeTo(eng), nil)
	_, err := gw.Complete(context.Background(), prompts.ComposeRoast("x", roast.Java))
	assert.Equal(t, roast.KindUpstreamUnavailable, roast.KindOf(err))
	assert.Equal(t, roast.KindUpstreamUnavailable.UserMessage(), roast.UserMessage(err))
}
