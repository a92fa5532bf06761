package roastclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func newClient(t *testing.T, rt roundTripperFunc) *Client {
	t.Helper()
	c, err := New(Options{BaseURL: "http://api.test/", ClientID: "cli-1", HTTPClient: &http.Client{Transport: rt}})
	require.NoError(t, err)
	return c
}

func TestRoastSendsContractBody(t *testing.T) {
	c := newClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "http://api.test/roast-code", req.URL.String())
		assert.Equal(t, "cli-1", req.Header.Get("X-Client-Id"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, map[string]string{"code": "x=1", "language": "python"}, body)
		return respond(200, `{"roast":"r","correctedCode":"c","goldenRule":"g","mcqs":[]}`), nil
	})
	res, err := c.Roast(context.Background(), "x=1", roast.Python)
	require.NoError(t, err)
	assert.Equal(t, "r", res.Roast)
	assert.Equal(t, "g", res.GoldenRule)
}

func TestErrorsMapByStatus(t *testing.T) {
	cases := map[int]roast.Kind{
		400: roast.KindInvalidRequest,
		402: roast.KindQuotaExceeded,
		429: roast.KindRateLimited,
		500: roast.KindUpstreamUnavailable,
	}
	for status, want := range cases {
		var calls atomic.Int32
		c := newClient(t, func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return respond(status, `{"error":"Ye language abhi supported nahi hai bhai"}`), nil
		})
		_, err := c.Roast(context.Background(), "x", roast.Python)
		assert.Equal(t, want, roast.KindOf(err), "status %d", status)
		assert.EqualValues(t, 1, calls.Load(), "no retries")
	}

	c := newClient(t, func(req *http.Request) (*http.Response, error) {
		return respond(400, `{"error":"Ye language abhi supported nahi hai bhai"}`), nil
	})
	_, err := c.Roast(context.Background(), "x", roast.Python)
	assert.Equal(t, "Ye language abhi supported nahi hai bhai", roast.UserMessage(err))
}

func TestTransportFailureIsUpstreamUnavailable(t *testing.T) {
	c := newClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	_, err := c.Roast(context.Background(), "x", roast.Python)
	assert.Equal(t, roast.KindUpstreamUnavailable, roast.KindOf(err))
	assert.False(t, c.Online(context.Background()))
}

func TestOnlineChecksHealthz(t *testing.T) {
	c := newClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/healthz", req.URL.Path)
		return respond(200, "ok"), nil
	})
	assert.True(t, c.Online(context.Background()))
}

func TestExtractCodeUsesImageMode(t *testing.T) {
	c := newClient(t, func(req *http.Request) (*http.Response, error) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "extract-code", body["mode"])
		return respond(200, `{"code":"print(1)","language":"python","confidence":"high"}`), nil
	})
	out, err := c.ExtractCode(context.Background(), "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "print(1)", out.Code)
}
