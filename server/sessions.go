package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/metrics"
)

// sessionManager holds interactive runs by ID and drops the ones that have
// not been touched for ttl.
type sessionManager struct {
	sessions map[string]*serverSession
	mu       sync.RWMutex
	ttl      time.Duration

	logger  *zap.Logger
	metrics *metrics.Collector

	stop     chan struct{}
	stopOnce sync.Once
}

type serverSession struct {
	session  *executor.Session
	lastUsed time.Time
}

func newSessionManager(ttl time.Duration, logger *zap.Logger, m *metrics.Collector) *sessionManager {
	return &sessionManager{
		sessions: make(map[string]*serverSession),
		ttl:      ttl,
		logger:   logger,
		metrics:  m,
		stop:     make(chan struct{}),
	}
}

func (sm *sessionManager) create(exec *executor.Executor, lang executor.Language, code string, opts ...executor.SessionOption) (string, *executor.Session, error) {
	session, err := exec.NewSession(lang, code, opts...)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	sm.mu.Lock()
	sm.sessions[id] = &serverSession{
		session:  session,
		lastUsed: time.Now(),
	}
	sm.updateGaugeLocked()
	sm.mu.Unlock()

	sm.logger.Debug("run created", zap.String("run_id", id), zap.String("language", lang.Name()))
	return id, session, nil
}

func (sm *sessionManager) get(id string) (*executor.Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	ss, ok := sm.sessions[id]
	if !ok {
		return nil, false
	}
	ss.lastUsed = time.Now()
	return ss.session, true
}

func (sm *sessionManager) close(id string) bool {
	sm.mu.Lock()
	ss, ok := sm.sessions[id]
	if ok {
		ss.session.Close()
		delete(sm.sessions, id)
		sm.updateGaugeLocked()
	}
	sm.mu.Unlock()
	return ok
}

func (sm *sessionManager) len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// sweep closes sessions idle for longer than the TTL and returns how many
// were removed.
func (sm *sessionManager) sweep(now time.Time) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id, ss := range sm.sessions {
		if now.Sub(ss.lastUsed) > sm.ttl {
			ss.session.Close()
			delete(sm.sessions, id)
			removed++
			sm.logger.Info("run expired", zap.String("run_id", id))
		}
	}
	if removed > 0 {
		sm.updateGaugeLocked()
	}
	return removed
}

func (sm *sessionManager) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			sm.sweep(now)
		case <-sm.stop:
			return
		}
	}
}

func (sm *sessionManager) closeAll() {
	sm.stopOnce.Do(func() { close(sm.stop) })

	sm.mu.Lock()
	for id, ss := range sm.sessions {
		ss.session.Close()
		delete(sm.sessions, id)
	}
	sm.updateGaugeLocked()
	sm.mu.Unlock()
}

func (sm *sessionManager) updateGaugeLocked() {
	if sm.metrics != nil {
		sm.metrics.ActiveRuns.Set(float64(len(sm.sessions)))
	}
}
