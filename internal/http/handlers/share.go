package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/http/response"
	"github.com/yungbote/roastmycode-backend/internal/imaging"
	"github.com/yungbote/roastmycode-backend/internal/platform/apierr"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/progress"
	"github.com/yungbote/roastmycode-backend/internal/quiz"
	"github.com/yungbote/roastmycode-backend/internal/sessions"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
	"github.com/yungbote/roastmycode-backend/internal/storage/objectstore"
)

// ShareHandler builds the share text and card for a history entry. With an
// object store configured the card is uploaded and linked; otherwise the
// link points back at the card endpoint.
type ShareHandler struct {
	log      *logger.Logger
	sessions *sessions.Manager
	objects  objectstore.Store
}

func NewShareHandler(log *logger.Logger, manager *sessions.Manager, objects objectstore.Store) *ShareHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ShareHandler{log: log.With("handler", "ShareHandler"), sessions: manager, objects: objects}
}

type shareReq struct {
	HistoryID string `json:"historyId" binding:"required"`
	Score     int    `json:"score"`
}

// POST /api/share
func (h *ShareHandler) Share(c *gin.Context) {
	var req shareReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	if req.Score < 0 || req.Score > quiz.MaxScore {
		response.RespondAPIError(c, apierr.BadRequest(errInvalidScore))
		return
	}
	clientID := sessions.ClientID(c)
	entry, err := h.sessions.Progress(clientID).History.Get(c.Request.Context(), strings.TrimSpace(req.HistoryID))
	if err != nil {
		respondHistoryError(c, err)
		return
	}
	text := imaging.ShareText(entry.Result.Roast, entry.Result.GoldenRule, req.Score)

	imageURL := "/api/share/" + entry.ID + "/card.png?score=" + strconv.Itoa(req.Score)
	if h.objects != nil {
		png, err := imaging.RenderShareCard(cardFor(entry, req.Score))
		if err != nil {
			response.RespondAPIError(c, apierr.Internal(err))
			return
		}
		key := objectstore.ShareCardKey(kv.ClientPrefix(clientID), entry.ID, req.Score)
		ctx := c.Request.Context()
		if err := h.objects.Put(ctx, key, png, "image/png"); err != nil {
			h.log.Warn("share card upload failed", "key", key, "error", err)
		} else if u, err := h.objects.URL(ctx, key); err != nil {
			h.log.Warn("share card url failed", "key", key, "error", err)
		} else {
			imageURL = u
		}
	}
	response.RespondOK(c, gin.H{"text": text, "imageUrl": imageURL})
}

// GET /api/share/:historyId/card.png?score=7
func (h *ShareHandler) Card(c *gin.Context) {
	score := 0
	if v := strings.TrimSpace(c.Query("score")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > quiz.MaxScore {
			response.RespondAPIError(c, apierr.BadRequest(errInvalidScore))
			return
		}
		score = n
	}
	entry, err := h.sessions.Progress(sessions.ClientID(c)).History.Get(c.Request.Context(), strings.TrimSpace(c.Param("historyId")))
	if err != nil {
		respondHistoryError(c, err)
		return
	}
	png, err := imaging.RenderShareCard(cardFor(entry, score))
	if err != nil {
		response.RespondAPIError(c, apierr.Internal(err))
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}

func cardFor(entry progress.HistoryEntry, score int) imaging.Card {
	return imaging.Card{
		Language:   entry.Language.Label(),
		Score:      score,
		MaxScore:   quiz.MaxScore,
		GoldenRule: entry.Result.GoldenRule,
		Roast:      entry.Result.Roast,
	}
}
