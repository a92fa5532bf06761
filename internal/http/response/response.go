package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// EdgeError is the flat {"error": "..."} body of the roast-code and
// analyze-image endpoints.
type EdgeError struct {
	Error string `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps domain and api errors onto the envelope. Internal
// error text is not exposed.
func RespondAPIError(c *gin.Context, err error) {
	_ = c.Error(err)
	var ae *apierr.Error
	if errors.As(err, &ae) {
		if ae.Status >= http.StatusInternalServerError {
			RespondError(c, ae.Status, ae.Code, errors.New("internal error"))
			return
		}
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	var re *roast.Error
	if errors.As(err, &re) {
		c.JSON(re.Kind.HTTPStatus(), ErrorEnvelope{Error: APIError{
			Message: roast.UserMessage(re),
			Code:    string(re.Kind),
		}})
		return
	}
	RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errors.New("internal error"))
}

// RespondEdgeError writes a roast failure in the edge-function shape.
func RespondEdgeError(c *gin.Context, err error) {
	RespondEdgeErrorMessage(c, err, roast.UserMessage(err))
}

// RespondEdgeErrorMessage is RespondEdgeError with endpoint-specific wording.
// The status still follows the error's kind.
func RespondEdgeErrorMessage(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	c.JSON(roast.KindOf(err).HTTPStatus(), EdgeError{Error: msg})
}

const tooLargeMessage = "Request bahut badi hai bhai, thoda chhota bhej."

// IsTooLarge reports whether err came from reading past a body limit.
func IsTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func RespondEdgeTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, EdgeError{Error: tooLargeMessage})
}

func RespondAPITooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorEnvelope{Error: APIError{
		Message: tooLargeMessage,
		Code:    apierr.CodeTooLarge,
	}})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
