package progress

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

const (
	HistoryKey = "roast_history"
	MaxHistory = 20
)

var ErrEntryNotFound = errors.New("progress: history entry not found")

type HistoryEntry struct {
	ID string `json:"id"`
	// Timestamp is unix milliseconds.
	Timestamp    int64          `json:"timestamp"`
	OriginalCode string         `json:"originalCode"`
	Language     roast.Language `json:"language"`
	Result       roast.Result   `json:"result"`
}

// History is a newest-first list capped at MaxHistory. Entries are
// immutable once written.
type History struct {
	store kv.Store
	clock clock.Clock
	newID func() string
}

func NewHistory(store kv.Store, clk clock.Clock) *History {
	return &History{
		store: store,
		clock: clk,
		newID: func() string { return "roast_" + uuid.NewString() },
	}
}

func (h *History) Add(ctx context.Context, code string, lang roast.Language, result roast.Result) (HistoryEntry, error) {
	entry := HistoryEntry{
		ID:           h.newID(),
		Timestamp:    h.clock.Now().UnixMilli(),
		OriginalCode: code,
		Language:     lang,
		Result:       result,
	}
	_, err := kv.UpdateJSON(ctx, h.store, HistoryKey, func(list *[]HistoryEntry) error {
		next := make([]HistoryEntry, 0, min(len(*list)+1, MaxHistory))
		next = append(next, entry)
		for _, e := range *list {
			if len(next) == MaxHistory {
				break
			}
			next = append(next, e)
		}
		*list = next
		return nil
	})
	if err != nil {
		return HistoryEntry{}, err
	}
	return entry, nil
}

func (h *History) List(ctx context.Context) ([]HistoryEntry, error) {
	list, _, err := kv.GetJSON[[]HistoryEntry](ctx, h.store, HistoryKey)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []HistoryEntry{}
	}
	return list, nil
}

func (h *History) Get(ctx context.Context, id string) (HistoryEntry, error) {
	list, err := h.List(ctx)
	if err != nil {
		return HistoryEntry{}, err
	}
	for _, e := range list {
		if e.ID == id {
			return e, nil
		}
	}
	return HistoryEntry{}, ErrEntryNotFound
}

func (h *History) Delete(ctx context.Context, id string) error {
	found := false
	_, err := kv.UpdateJSON(ctx, h.store, HistoryKey, func(list *[]HistoryEntry) error {
		found = false
		next := make([]HistoryEntry, 0, len(*list))
		for _, e := range *list {
			if e.ID == id {
				found = true
				continue
			}
			next = append(next, e)
		}
		*list = next
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrEntryNotFound
	}
	return nil
}

func (h *History) Clear(ctx context.Context) error {
	return h.store.Delete(ctx, HistoryKey)
}
