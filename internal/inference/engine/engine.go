package engine

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn. ImageURLs carries data URLs for vision prompts;
// engines that cannot take images reject messages that set it.
type Message struct {
	Role      string
	Content   string
	ImageURLs []string
}

type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
	// JSONObject asks the upstream for a bare JSON object when it supports it.
	JSONObject bool
}

type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

// ErrEmptyCompletion is returned when the upstream answered 2xx without content.
var ErrEmptyCompletion = errors.New("empty upstream completion")

// StatusError is implemented by engine errors that carry an upstream HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
	// Snippet is a bounded prefix of the upstream body for logs.
	Snippet() string
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return 0
}
