package config

import "time"

type Duration struct {
	Duration time.Duration
}

// Mode names match the prompt templates that use them.
const (
	ModeRoast         = "roast"
	ModeExplainBack   = "explain-back"
	ModeExtractCode   = "extract-code"
	ModeSolveQuestion = "solve-question"
)

type EngineConfig struct {
	Name string `yaml:"name"`
	// Type is one of "oai_http", "genai" or "mock".
	Type string `yaml:"type"`

	// BaseURL is the upstream base URL for "oai_http" engines.
	BaseURL string `yaml:"base_url,omitempty"`

	// APIKey is sent as a bearer token (oai_http) or used as the Gemini key (genai).
	APIKey string `yaml:"api_key,omitempty"`

	// AllowAnonymous lets an oai_http engine run without an API key (local servers).
	AllowAnonymous bool `yaml:"allow_anonymous,omitempty"`

	ChatCompletionsPath string   `yaml:"chat_completions_path,omitempty"`
	Timeout             Duration `yaml:"timeout,omitempty"`
}

// ProfileConfig fixes the model and sampling budget for one prompt mode.
type ProfileConfig struct {
	Mode          string  `yaml:"mode"`
	Engine        string  `yaml:"engine"`
	UpstreamModel string  `yaml:"upstream_model"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	JSONObject    bool    `yaml:"json_object,omitempty"`
}

type Config struct {
	Engines  []EngineConfig  `yaml:"engines"`
	Profiles []ProfileConfig `yaml:"profiles"`
}
