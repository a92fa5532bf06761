// Package sessions maps clients to their workflow controllers and carries
// client identity in a signed cookie.
package sessions

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/progress"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
	"github.com/yungbote/roastmycode-backend/internal/workflow"
)

const DefaultCacheSize = 4096

// Session is one client's live state: its controller and its progress
// trackers over the client's namespace in the shared store.
type Session struct {
	ClientID   string
	Controller *workflow.Controller
	Progress   *progress.Trackers
}

type Manager struct {
	log     *logger.Logger
	store   kv.Store
	clock   clock.Clock
	gateway workflow.Gateway
	metrics *observability.Metrics

	mu    sync.Mutex
	cache *lru.Cache[string, *Session]
}

func NewManager(log *logger.Logger, store kv.Store, clk clock.Clock, gateway workflow.Gateway, metrics *observability.Metrics, size int) (*Manager, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	m := &Manager{
		log:     log.With("service", "SessionManager"),
		store:   store,
		clock:   clk,
		gateway: gateway,
		metrics: metrics,
	}
	cache, err := lru.NewWithEvict[string, *Session](size, func(id string, _ *Session) {
		m.log.Debug("session evicted", "client_id", id)
	})
	if err != nil {
		return nil, err
	}
	m.cache = cache
	return m, nil
}

// Get returns the client's session, creating it on first use. Evicted
// sessions lose only their in-memory screen state; progress lives in the store.
func (m *Manager) Get(clientID string) *Session {
	clientID = strings.TrimSpace(clientID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.cache.Get(clientID); ok {
		return s
	}
	s := m.newSession(clientID)
	m.cache.Add(clientID, s)
	m.metrics.SetSessionsCached(m.cache.Len())
	return s
}

// Progress returns the client's trackers without creating a controller.
func (m *Manager) Progress(clientID string) *progress.Trackers {
	m.mu.Lock()
	s, ok := m.cache.Peek(strings.TrimSpace(clientID))
	m.mu.Unlock()
	if ok {
		return s.Progress
	}
	return progress.ForClient(m.store, strings.TrimSpace(clientID), m.clock)
}

func (m *Manager) Len() int {
	return m.cache.Len()
}

func (m *Manager) newSession(clientID string) *Session {
	tr := progress.ForClient(m.store, clientID, m.clock)
	ctrl := workflow.NewController(workflow.Deps{
		Gateway:    m.gateway,
		Notifier:   logNotifier{log: m.log},
		History:    tr.History,
		Streak:     tr.Streak,
		Challenges: tr.Challenges,
		Clock:      m.clock,
		Log:        m.log.With("client_id", clientID),
		Metrics:    m.metrics,
	})
	return &Session{ClientID: clientID, Controller: ctrl, Progress: tr}
}
