package oaihttp

import (
	"fmt"
)

const snippetBytes = 500

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "upstream http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("upstream http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("upstream http error: status=%d body=%s", e.StatusCode, e.Snippet())
}

func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

func (e *HTTPError) Snippet() string {
	if len(e.Body) <= snippetBytes {
		return e.Body
	}
	return e.Body[:snippetBytes]
}
