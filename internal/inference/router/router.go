package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/roastmycode-backend/internal/inference/config"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine/gemini"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine/mock"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine/oaihttp"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
)

// Route is everything needed for one upstream call in a given mode. Engine is
// nil when the engine it names has no credentials.
type Route struct {
	Mode          string
	EngineName    string
	UpstreamModel string
	Temperature   float64
	MaxTokens     int
	JSONObject    bool
	Engine        engine.Engine
}

type Router struct {
	routes map[string]Route
}

// New builds engines for cfg. Engines whose credentials are missing are left
// unconfigured rather than failing startup, so the API can still answer
// with a not-configured error.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Router, error) {
	if log == nil {
		log = logger.NewNop()
	}
	engines := map[string]engine.Engine{}
	for _, ec := range cfg.Engines {
		eng, err := build(ctx, ec)
		if err != nil {
			return nil, fmt.Errorf("engine %q: %w", ec.Name, err)
		}
		if eng == nil {
			log.Warn("inference engine not configured", "engine", ec.Name, "type", ec.Type)
		}
		engines[ec.Name] = eng
	}
	return NewWithEngines(cfg, engines)
}

// NewWithEngines routes cfg's profiles to prebuilt engines (tests, CLI).
func NewWithEngines(cfg *config.Config, engines map[string]engine.Engine) (*Router, error) {
	r := &Router{routes: map[string]Route{}}
	for _, p := range cfg.Profiles {
		mode := strings.TrimSpace(p.Mode)
		if _, exists := r.routes[mode]; exists {
			return nil, fmt.Errorf("duplicate mode: %s", mode)
		}
		eng, ok := engines[p.Engine]
		if !ok {
			return nil, fmt.Errorf("mode %q: unknown engine %q", mode, p.Engine)
		}
		r.routes[mode] = Route{
			Mode:          mode,
			EngineName:    p.Engine,
			UpstreamModel: p.UpstreamModel,
			Temperature:   p.Temperature,
			MaxTokens:     p.MaxTokens,
			JSONObject:    p.JSONObject,
			Engine:        eng,
		}
	}
	return r, nil
}

func build(ctx context.Context, ec config.EngineConfig) (engine.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(ec.Type)) {
	case "mock":
		return mock.New(), nil
	case "oai_http", "openai_http":
		if strings.TrimSpace(ec.APIKey) == "" && !ec.AllowAnonymous {
			return nil, nil
		}
		return oaihttp.New(ec)
	case "genai", "gemini":
		if strings.TrimSpace(ec.APIKey) == "" {
			return nil, nil
		}
		return gemini.New(ctx, ec)
	default:
		return nil, fmt.Errorf("unsupported engine type %q", ec.Type)
	}
}

func (r *Router) Modes() []string {
	out := make([]string, 0, len(r.routes))
	for m := range r.routes {
		out = append(out, m)
	}
	return out
}

func (r *Router) RouteForMode(mode string) (Route, bool) {
	route, ok := r.routes[strings.TrimSpace(mode)]
	return route, ok
}
