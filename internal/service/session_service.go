package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/configurator"
	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/storage"
)

const (
	// saveTimeout bounds a background debounced save.
	saveTimeout = 5 * time.Second

	// DefaultSessionIdleTTL is how long a saved session stays in memory
	// without being accessed.
	DefaultSessionIdleTTL = 30 * time.Minute
)

// SessionService holds the live configuration of each configurator session.
// A session is loaded from the repository on first access (or starts from
// the defaults), every action runs through configurator.Transition, and the
// result is written back after a quiet period so a burst of edits costs a
// single write. Sessions with nothing left to write are dropped from memory
// once idle for longer than the idle TTL; the next access reloads them.
type SessionService struct {
	repo     storage.SessionRepository
	debounce time.Duration
	idleTTL  time.Duration
	now      func() time.Time
	logger   *zap.Logger

	// mu guards sessions and lastSweep. Repository I/O never happens while
	// it is held.
	mu        sync.Mutex
	sessions  map[string]*liveSession
	lastSweep time.Time
}

type liveSession struct {
	cfg      model.Configuration
	dirty    bool
	timer    *time.Timer
	lastSeen time.Time
}

// NewSessionService creates a SessionService. A zero debounce saves
// synchronously on every action.
func NewSessionService(repo storage.SessionRepository, debounce time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		repo:     repo,
		debounce: debounce,
		idleTTL:  DefaultSessionIdleTTL,
		now:      time.Now,
		logger:   logger,
		sessions: make(map[string]*liveSession),
	}
}

// SetIdleTTL changes how long a clean session may sit unused before it is
// evicted. Zero or less keeps sessions until shutdown.
func (s *SessionService) SetIdleTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idleTTL = ttl
}

// SetClock overrides the time source used for idle eviction.
func (s *SessionService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns the current configuration of session id.
func (s *SessionService) Get(ctx context.Context, id string) (model.Configuration, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return model.Configuration{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.cfg, nil
}

// Apply runs action against session id and returns the new configuration.
// The action payload is checked first; a malformed payload leaves the
// session untouched.
func (s *SessionService) Apply(ctx context.Context, id string, action configurator.Action) (model.Configuration, error) {
	if err := action.Check(); err != nil {
		return model.Configuration{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	sess, err := s.load(ctx, id)
	if err != nil {
		return model.Configuration{}, err
	}

	s.mu.Lock()
	sess = s.attachLocked(id, sess)
	sess.cfg = configurator.Transition(sess.cfg, action)
	sess.dirty = true
	next := sess.cfg
	if s.debounce > 0 {
		s.scheduleLocked(id, sess)
	}
	s.mu.Unlock()

	s.logger.Debug("session action applied",
		zap.String("session_id", id),
		zap.String("action", string(action.Type)),
	)

	if s.debounce <= 0 {
		if err := s.save(ctx, id); err != nil {
			return next, err
		}
	}
	return next, nil
}

// Flush writes every session with unsaved changes. Call it on shutdown.
func (s *SessionService) Flush(ctx context.Context) error {
	s.mu.Lock()
	var pending []string
	for id, sess := range s.sessions {
		if sess.timer != nil {
			sess.timer.Stop()
			sess.timer = nil
		}
		if sess.dirty {
			pending = append(pending, id)
		}
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range pending {
		if err := s.save(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(pending) > 0 {
		s.logger.Info("flushed sessions", zap.Int("count", len(pending)))
	}
	return errors.Join(errs...)
}

// Delete forgets session id, both in memory and in the repository. Deleting
// an unknown session is not an error.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		if sess.timer != nil {
			sess.timer.Stop()
		}
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	s.logger.Debug("session deleted", zap.String("session_id", id))
	return nil
}

// LiveCount is the number of sessions held in memory.
func (s *SessionService) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// load returns the in-memory session, reading it from the repository the
// first time. Two concurrent first accesses may both read; the first to
// register wins and the other read is discarded.
func (s *SessionService) load(ctx context.Context, id string) (*liveSession, error) {
	s.mu.Lock()
	now := s.now()
	s.sweepLocked(now)
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = now
	}
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	cfg, err := s.repo.Get(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		cfg = model.DefaultConfiguration()
	case err != nil:
		return nil, fmt.Errorf("loading session %s: %w", id, err)
	case !configurator.Consistent(cfg):
		s.logger.Warn("stored session breaks configuration invariants, normalizing",
			zap.String("session_id", id),
		)
		cfg = configurator.Normalize(cfg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	sess = &liveSession{cfg: cfg, lastSeen: s.now()}
	s.sessions[id] = sess
	return sess, nil
}

// attachLocked returns the registered session for id. A session evicted
// between load and use is registered again, unless another load already
// replaced it. Caller holds s.mu.
func (s *SessionService) attachLocked(id string, sess *liveSession) *liveSession {
	if cur, ok := s.sessions[id]; ok {
		return cur
	}
	sess.lastSeen = s.now()
	s.sessions[id] = sess
	return sess
}

// sweepLocked evicts clean sessions idle for longer than the TTL. It runs at
// most once per TTL. Caller holds s.mu.
func (s *SessionService) sweepLocked(now time.Time) {
	if s.idleTTL <= 0 || now.Sub(s.lastSweep) < s.idleTTL {
		return
	}
	s.lastSweep = now

	evicted := 0
	for id, sess := range s.sessions {
		if sess.dirty || now.Sub(sess.lastSeen) <= s.idleTTL {
			continue
		}
		if sess.timer != nil {
			sess.timer.Stop()
		}
		delete(s.sessions, id)
		evicted++
	}
	if evicted > 0 {
		s.logger.Debug("evicted idle sessions",
			zap.Int("count", evicted),
			zap.Int("live", len(s.sessions)),
		)
	}
}

// scheduleLocked (re)starts the debounce timer. Caller holds s.mu.
func (s *SessionService) scheduleLocked(id string, sess *liveSession) {
	if sess.timer != nil {
		sess.timer.Reset(s.debounce)
		return
	}
	sess.timer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.save(ctx, id); err != nil {
			s.logger.Error("debounced session save failed",
				zap.String("session_id", id),
				zap.Error(err),
			)
		}
	})
}

// save writes the latest snapshot of session id if it has unsaved changes.
func (s *SessionService) save(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok || !sess.dirty {
		s.mu.Unlock()
		return nil
	}
	cfg := sess.cfg
	sess.dirty = false
	s.mu.Unlock()

	if err := s.repo.Save(ctx, id, cfg); err != nil {
		s.mu.Lock()
		sess.dirty = true
		s.mu.Unlock()
		return fmt.Errorf("saving session %s: %w", id, err)
	}
	return nil
}
