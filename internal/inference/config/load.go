package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/roastmycode-backend/internal/platform/envutil"
)

const (
	DefaultGatewayURL = "https://ai.gateway.lovable.dev"
	DefaultEngineName = "gateway"

	textModel   = "google/gemini-3-flash-preview"
	visionModel = "google/gemini-2.5-flash"
)

// UnmarshalYAML accepts "30s" style strings or integer seconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return err
		}
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or integer seconds: %w", err)
	}
	d.Duration = dd
	return nil
}

// DefaultProfiles are the fixed per-mode budgets of the hosted functions.
func DefaultProfiles() []ProfileConfig {
	return []ProfileConfig{
		{Mode: ModeRoast, Engine: DefaultEngineName, UpstreamModel: textModel, Temperature: 0.9, MaxTokens: 4000},
		{Mode: ModeExplainBack, Engine: DefaultEngineName, UpstreamModel: textModel, Temperature: 0.5, MaxTokens: 1000},
		{Mode: ModeExtractCode, Engine: DefaultEngineName, UpstreamModel: visionModel, Temperature: 0.3, MaxTokens: 2000},
		{Mode: ModeSolveQuestion, Engine: DefaultEngineName, UpstreamModel: visionModel, Temperature: 0.3, MaxTokens: 2000},
	}
}

func defaultConfig() *Config {
	return &Config{
		Engines: []EngineConfig{{
			Name:                DefaultEngineName,
			Type:                "oai_http",
			BaseURL:             DefaultGatewayURL,
			ChatCompletionsPath: "/v1/chat/completions",
			Timeout:             Duration{Duration: 90 * time.Second},
		}},
		Profiles: DefaultProfiles(),
	}
}

// Load reads ROAST_CONFIG_PATH (or ./config/config.yaml when present) and
// applies env overrides to the default engine.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("ROAST_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}

	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		loaded, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfgPath, err)
		}
		cfg = loaded
	}

	applyEnv(cfg)
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML config. Missing sections fall back to defaults.
func Parse(b []byte) (*Config, error) {
	var loaded Config
	if err := yaml.Unmarshal(b, &loaded); err != nil {
		return nil, err
	}
	def := defaultConfig()
	if len(loaded.Engines) == 0 {
		loaded.Engines = def.Engines
	}
	if len(loaded.Profiles) == 0 {
		loaded.Profiles = def.Profiles
	}
	return &loaded, nil
}

func applyEnv(cfg *Config) {
	eng := cfg.engine(DefaultEngineName)
	if eng == nil {
		return
	}
	if v := envutil.String("ROAST_ENGINE", ""); v != "" {
		eng.Type = v
	}
	if v := envutil.String("AI_GATEWAY_URL", ""); v != "" {
		eng.BaseURL = v
	}
	switch strings.ToLower(eng.Type) {
	case "genai", "gemini":
		if v := envutil.String("GEMINI_API_KEY", ""); v != "" {
			eng.APIKey = v
		}
	default:
		if v := envutil.First("", "AI_GATEWAY_API_KEY", "LOVABLE_API_KEY"); v != "" {
			eng.APIKey = v
		}
	}
	if d := envutil.Duration("AI_TIMEOUT", 0); d > 0 {
		eng.Timeout = Duration{Duration: d}
	}
}

func (c *Config) engine(name string) *EngineConfig {
	for i := range c.Engines {
		if c.Engines[i].Name == name {
			return &c.Engines[i]
		}
	}
	return nil
}

func (c *Config) normalize() error {
	if len(c.Engines) == 0 {
		return errors.New("config must define at least one engine")
	}
	names := map[string]bool{}
	for i := range c.Engines {
		e := &c.Engines[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return errors.New("engine name is required")
		}
		if names[e.Name] {
			return fmt.Errorf("duplicate engine name: %s", e.Name)
		}
		names[e.Name] = true

		switch strings.ToLower(strings.TrimSpace(e.Type)) {
		case "openai_http", "oai_http", "":
			e.Type = "oai_http"
			e.BaseURL = strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
			if e.BaseURL == "" {
				return fmt.Errorf("engine %q (oai_http) missing base_url", e.Name)
			}
			if strings.TrimSpace(e.ChatCompletionsPath) == "" {
				e.ChatCompletionsPath = "/v1/chat/completions"
			}
		case "genai", "gemini":
			e.Type = "genai"
		case "mock":
			e.Type = "mock"
		default:
			return fmt.Errorf("engine %q: unsupported type %q", e.Name, e.Type)
		}
		if e.Timeout.Duration <= 0 {
			e.Timeout = Duration{Duration: 90 * time.Second}
		}
	}

	modes := map[string]bool{}
	for i := range c.Profiles {
		p := &c.Profiles[i]
		p.Mode = strings.TrimSpace(p.Mode)
		if p.Mode == "" {
			return errors.New("profile mode is required")
		}
		if modes[p.Mode] {
			return fmt.Errorf("duplicate profile for mode %q", p.Mode)
		}
		modes[p.Mode] = true
		if strings.TrimSpace(p.Engine) == "" {
			p.Engine = DefaultEngineName
		}
		if !names[p.Engine] {
			return fmt.Errorf("profile %q references unknown engine %q", p.Mode, p.Engine)
		}
		if strings.TrimSpace(p.UpstreamModel) == "" {
			return fmt.Errorf("profile %q missing upstream_model", p.Mode)
		}
		if p.MaxTokens < 0 || p.Temperature < 0 {
			return fmt.Errorf("profile %q has a negative budget", p.Mode)
		}
	}
	for _, m := range []string{ModeRoast, ModeExplainBack, ModeExtractCode, ModeSolveQuestion} {
		if !modes[m] {
			for _, p := range DefaultProfiles() {
				if p.Mode == m {
					p.Engine = c.Engines[0].Name
					c.Profiles = append(c.Profiles, p)
				}
			}
		}
	}
	return nil
}
