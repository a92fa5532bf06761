package roast

import (
	"errors"
	"net/http"
)

// Kind classifies every failure a roast attempt can end in. All kinds are
// terminal for the attempt; the user resubmits manually.
type Kind string

const (
	KindInvalidRequest      Kind = "invalid_request"
	KindRateLimited         Kind = "rate_limited"
	KindQuotaExceeded       Kind = "quota_exceeded"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindEmptyResponse       Kind = "empty_response"
	KindMalformedJSON       Kind = "malformed_json"
	KindOffline             Kind = "offline"
	KindNotConfigured       Kind = "not_configured"
	KindBusy                Kind = "busy"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return string(e.Kind) + ": " + e.Message
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind alone: errors.Is(err, &Error{Kind: KindBusy}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func Errorf(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// KindOf reports the kind of err; unknown errors count as upstream failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUpstreamUnavailable
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindQuotaExceeded:
		return http.StatusPaymentRequired
	case KindOffline:
		return http.StatusServiceUnavailable
	case KindBusy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage is the fixed text shown to users for a kind. Upstream bodies and
// parser output never reach the user.
func (k Kind) UserMessage() string {
	switch k {
	case KindInvalidRequest:
		return "Code aur language dono chahiye bhai"
	case KindRateLimited:
		return "Bhai thoda ruk, bahut zyada request aa rahi hai. Thodi der baad try kar."
	case KindQuotaExceeded:
		return "AI service ka quota khatam ho gaya."
	case KindEmptyResponse:
		return "AI se response nahi aaya. Dobara try kar."
	case KindMalformedJSON:
		return "AI ka response samajh nahi aaya. Dobara try kar."
	case KindOffline:
		return "Offline hai bhai. Internet connect kar, AI roast ke liye network chahiye!"
	case KindNotConfigured:
		return "AI service configure nahi hai"
	case KindBusy:
		return "Ek roast already chal raha hai, thoda wait kar."
	default:
		return "Code analyze nahi ho paya. Dobara try kar bhai."
	}
}

// UserMessage is what a client sees for err. Validation errors may carry
// their own text; every other kind uses the fixed message.
func UserMessage(err error) string {
	var re *Error
	if errors.As(err, &re) && re.Kind == KindInvalidRequest && re.Message != "" {
		return re.Message
	}
	return KindOf(err).UserMessage()
}
