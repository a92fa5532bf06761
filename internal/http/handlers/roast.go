package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/http/response"
	"github.com/yungbote/roastmycode-backend/internal/services"
)

// RoastHandler serves the two edge-function endpoints. Their request and
// response bodies are a public contract; errors are {"error": "..."}.
type RoastHandler struct {
	roast services.RoastService
}

func NewRoastHandler(roastService services.RoastService) *RoastHandler {
	return &RoastHandler{roast: roastService}
}

type roastCodeReq struct {
	Mode            string `json:"mode"`
	Code            string `json:"code"`
	Language        string `json:"language"`
	UserExplanation string `json:"userExplanation"`
	CorrectedCode   string `json:"correctedCode"`
}

// POST /roast-code
func (h *RoastHandler) RoastCode(c *gin.Context) {
	var req roastCodeReq
	if err := bindOptionalJSON(c, &req); err != nil {
		if response.IsTooLarge(err) {
			response.RespondEdgeTooLarge(c)
			return
		}
		response.RespondEdgeError(c, roast.NewError(roast.KindInvalidRequest, err))
		return
	}
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Language) == "" {
		response.RespondEdgeError(c, roast.Errorf(roast.KindInvalidRequest, roast.KindInvalidRequest.UserMessage()))
		return
	}
	lang, err := roast.ParseLanguage(req.Language)
	if err != nil {
		response.RespondEdgeError(c, roast.Errorf(roast.KindInvalidRequest, "Ye language abhi supported nahi hai bhai"))
		return
	}

	if strings.EqualFold(strings.TrimSpace(req.Mode), "explain-back") {
		verdict, err := h.roast.ExplainBack(c.Request.Context(), services.ExplainBackInput{
			Code:            req.Code,
			Language:        lang,
			CorrectedCode:   req.CorrectedCode,
			UserExplanation: req.UserExplanation,
		})
		if err != nil {
			response.RespondEdgeError(c, err)
			return
		}
		response.RespondOK(c, verdict)
		return
	}

	result, err := h.roast.Roast(c.Request.Context(), req.Code, lang)
	if err != nil {
		response.RespondEdgeError(c, err)
		return
	}
	response.RespondOK(c, result)
}

type analyzeImageReq struct {
	Image string `json:"image"`
	Mode  string `json:"mode"`
}

// POST /analyze-image
func (h *RoastHandler) AnalyzeImage(c *gin.Context) {
	var req analyzeImageReq
	if err := bindOptionalJSON(c, &req); err != nil {
		if response.IsTooLarge(err) {
			response.RespondEdgeTooLarge(c)
			return
		}
		response.RespondEdgeError(c, roast.NewError(roast.KindInvalidRequest, err))
		return
	}
	out, err := h.roast.AnalyzeImage(c.Request.Context(), req.Image, roast.ParseImageMode(req.Mode))
	if err != nil {
		response.RespondEdgeErrorMessage(c, err, imageErrorMessage(err))
		return
	}
	if out.Extracted != nil {
		response.RespondOK(c, out.Extracted)
		return
	}
	response.RespondOK(c, out.Solution)
}

// imageErrorMessage uses the image endpoint's own wording for the two kinds
// where it differs from roast-code.
func imageErrorMessage(err error) string {
	switch roast.KindOf(err) {
	case roast.KindRateLimited:
		return "Abe thoda ruk, bahut zyada request aa rahi hai."
	case roast.KindUpstreamUnavailable:
		return "Image analyze nahi ho payi. Dobara try kar."
	default:
		return roast.UserMessage(err)
	}
}

// bindOptionalJSON treats an empty body as an empty request so field
// validation produces the user-facing message.
func bindOptionalJSON(c *gin.Context, out any) error {
	if err := c.ShouldBindJSON(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
