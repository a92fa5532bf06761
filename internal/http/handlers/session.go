package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/http/response"
	"github.com/yungbote/roastmycode-backend/internal/platform/apierr"
	"github.com/yungbote/roastmycode-backend/internal/quiz"
	"github.com/yungbote/roastmycode-backend/internal/sessions"
	"github.com/yungbote/roastmycode-backend/internal/workflow"
)

// SessionHandler exposes a client's workflow controller over HTTP. Every
// response carries the resulting snapshot so the client can render the screen.
type SessionHandler struct {
	sessions *sessions.Manager
}

func NewSessionHandler(manager *sessions.Manager) *SessionHandler {
	return &SessionHandler{sessions: manager}
}

func (h *SessionHandler) controller(c *gin.Context) *workflow.Controller {
	return h.sessions.Get(sessions.ClientID(c)).Controller
}

// GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	response.RespondOK(c, gin.H{"session": h.controller(c).Snapshot()})
}

// POST /api/session/start
func (h *SessionHandler) Start(c *gin.Context) {
	snap := h.controller(c).Start(sessions.SplashSeen(c))
	sessions.MarkSplashSeen(c)
	response.RespondOK(c, gin.H{"session": snap})
}

// POST /api/session/splash/dismiss
func (h *SessionHandler) DismissSplash(c *gin.Context) {
	snap := h.controller(c).DismissSplash()
	sessions.MarkSplashSeen(c)
	response.RespondOK(c, gin.H{"session": snap})
}

// POST /api/session/get-started
func (h *SessionHandler) GetStarted(c *gin.Context) {
	snap, err := h.controller(c).GetStarted()
	if err != nil {
		respondSessionError(c, err, snap)
		return
	}
	response.RespondOK(c, gin.H{"session": snap})
}

type submitReq struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// POST /api/session/submit
func (h *SessionHandler) Submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		if response.IsTooLarge(err) {
			response.RespondAPITooLarge(c)
			return
		}
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	ctrl := h.controller(c)
	lang, err := roast.ParseLanguage(req.Language)
	if err != nil {
		err = roast.Errorf(roast.KindInvalidRequest, roast.KindInvalidRequest.UserMessage())
		respondSessionError(c, err, ctrl.Snapshot())
		return
	}
	snap, err := ctrl.Submit(c.Request.Context(), req.Code, lang)
	if err != nil {
		respondSessionError(c, err, snap)
		return
	}
	response.RespondOK(c, gin.H{"session": snap})
}

// POST /api/session/quiz
func (h *SessionHandler) StartQuiz(c *gin.Context) {
	snap, err := h.controller(c).StartQuiz()
	if err != nil {
		respondSessionError(c, err, snap)
		return
	}
	response.RespondOK(c, gin.H{"session": snap})
}

type answersReq struct {
	// Answers is aligned with the questions; null is unanswered.
	Answers []*int `json:"answers"`
}

// POST /api/session/answers
func (h *SessionHandler) SubmitAnswers(c *gin.Context) {
	var req answersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		if response.IsTooLarge(err) {
			response.RespondAPITooLarge(c)
			return
		}
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	ctrl := h.controller(c)
	report, err := ctrl.SubmitAnswers(c.Request.Context(), quiz.Answers(req.Answers))
	if err != nil {
		respondSessionError(c, err, ctrl.Snapshot())
		return
	}
	response.RespondOK(c, gin.H{"report": report, "session": ctrl.Snapshot()})
}

// POST /api/session/back
func (h *SessionHandler) Back(c *gin.Context) {
	response.RespondOK(c, gin.H{"session": h.controller(c).Back()})
}

// POST /api/session/retry
func (h *SessionHandler) Retry(c *gin.Context) {
	response.RespondOK(c, gin.H{"session": h.controller(c).Retry()})
}

// POST /api/session/home
func (h *SessionHandler) Home(c *gin.Context) {
	response.RespondOK(c, gin.H{"session": h.controller(c).Home()})
}

// POST /api/session/challenge
func (h *SessionHandler) StartChallenge(c *gin.Context) {
	snap, err := h.controller(c).StartChallenge(c.Request.Context())
	if err != nil {
		respondSessionError(c, err, snap)
		return
	}
	response.RespondOK(c, gin.H{"session": snap})
}

// respondSessionError writes the error envelope with the snapshot alongside,
// so a failed submit still tells the client which screen it is on.
func respondSessionError(c *gin.Context, err error, snap workflow.Snapshot) {
	_ = c.Error(err)
	status, body := sessionError(err)
	c.JSON(status, gin.H{"error": body, "session": snap})
}

func sessionError(err error) (int, response.APIError) {
	switch {
	case errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict, response.APIError{Message: "invalid transition", Code: apierr.CodeConflict}
	case errors.Is(err, workflow.ErrSuperseded):
		return http.StatusConflict, response.APIError{Message: "submission superseded", Code: "superseded"}
	case errors.Is(err, quiz.ErrNoQuestions):
		return http.StatusBadRequest, response.APIError{Message: err.Error(), Code: apierr.CodeInvalidRequest}
	}
	var re *roast.Error
	if errors.As(err, &re) {
		return re.Kind.HTTPStatus(), response.APIError{Message: roast.UserMessage(re), Code: string(re.Kind)}
	}
	return http.StatusInternalServerError, response.APIError{Message: "internal error", Code: apierr.CodeInternal}
}
