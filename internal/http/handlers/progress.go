package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/http/response"
	"github.com/yungbote/roastmycode-backend/internal/platform/apierr"
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/progress"
	"github.com/yungbote/roastmycode-backend/internal/sessions"
)

type ProgressHandler struct {
	sessions *sessions.Manager
	clock    clock.Clock
}

func NewProgressHandler(manager *sessions.Manager, clk clock.Clock) *ProgressHandler {
	if clk == nil {
		clk = clock.System(nil)
	}
	return &ProgressHandler{sessions: manager, clock: clk}
}

func (h *ProgressHandler) trackers(c *gin.Context) *progress.Trackers {
	return h.sessions.Progress(sessions.ClientID(c))
}

// GET /api/history
func (h *ProgressHandler) ListHistory(c *gin.Context) {
	list, err := h.trackers(c).History.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	response.RespondOK(c, gin.H{"history": list})
}

// GET /api/history/:id
func (h *ProgressHandler) GetHistory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	entry, err := h.trackers(c).History.Get(c.Request.Context(), id)
	if err != nil {
		respondHistoryError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entry": entry})
}

// DELETE /api/history/:id
func (h *ProgressHandler) DeleteHistory(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.trackers(c).History.Delete(c.Request.Context(), id); err != nil {
		respondHistoryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/history
func (h *ProgressHandler) ClearHistory(c *gin.Context) {
	if err := h.trackers(c).History.Clear(c.Request.Context()); err != nil {
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/challenge/today
func (h *ProgressHandler) TodaysChallenge(c *gin.Context) {
	now := h.clock.Now()
	state, err := h.trackers(c).Challenges.State(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	response.RespondOK(c, gin.H{
		"challenge":     progress.TodaysChallenge(now),
		"state":         state,
		"nextChallenge": progress.FormatCountdown(progress.TimeUntilNext(now)),
	})
}

// POST /api/challenge/complete
func (h *ProgressHandler) CompleteChallenge(c *gin.Context) {
	state, err := h.trackers(c).Challenges.MarkCompleted(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	response.RespondOK(c, gin.H{"state": state})
}

// GET /api/streak
func (h *ProgressHandler) Streak(c *gin.Context) {
	data, err := h.trackers(c).Streak.Get(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	response.RespondOK(c, gin.H{
		"streak":  data,
		"message": progress.StreakMessage(data.CurrentStreak),
	})
}

// GET /api/languages
func (h *ProgressHandler) Languages(c *gin.Context) {
	response.RespondOK(c, gin.H{"languages": roast.Languages()})
}

func respondHistoryError(c *gin.Context, err error) {
	if errors.Is(err, progress.ErrEntryNotFound) {
		response.RespondAPIError(c, apierr.NotFound(err))
		return
	}
	response.RespondAPIError(c, apierr.Internal(err))
}
