// Package memory provides the in-process session cache.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
	"github.com/Ankush70788/vidqa-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SessionCache = (*SessionCache)(nil)

// SessionCache implements driven.SessionCache with a bounded LRU over
// resident sessions. The cache exclusively owns the canonical sessions;
// Get hands out snapshots whose index reference stays valid after eviction
// because indexes are immutable and GC-retained.
type SessionCache struct {
	mu      sync.Mutex
	lru     *lru.Cache[string, *domain.Session]
	logger  *slog.Logger
	idleTTL time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// Config holds configuration for the session cache.
type Config struct {
	// MaxSessions bounds the number of concurrently resident sessions.
	MaxSessions int

	// IdleTTL evicts sessions not accessed for this long. Zero disables
	// the janitor.
	IdleTTL time.Duration

	Logger *slog.Logger
}

// NewSessionCache creates a bounded LRU session cache.
func NewSessionCache(cfg Config) (*SessionCache, error) {
	if cfg.MaxSessions <= 0 {
		return nil, fmt.Errorf("%w: max sessions must be positive, got %d", domain.ErrInvalidConfig, cfg.MaxSessions)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &SessionCache{
		logger:  logger,
		idleTTL: cfg.IdleTTL,
	}

	cache, err := lru.NewWithEvict[string, *domain.Session](cfg.MaxSessions, func(videoID string, _ *domain.Session) {
		logger.Info("session evicted", "video_id", videoID)
	})
	if err != nil {
		return nil, err
	}
	c.lru = cache

	return c, nil
}

// Put stores a session, atomically replacing any prior session for the same
// video. The prior session's conversation history goes with it.
func (c *SessionCache) Put(_ context.Context, session *domain.Session) error {
	if session == nil || session.VideoID == "" {
		return fmt.Errorf("%w: nil or unkeyed session", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(session.VideoID, session)
	return nil
}

// Get returns a snapshot of a resident session and marks it recently used.
func (c *SessionCache) Get(_ context.Context, videoID string) (*domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.lru.Get(videoID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()
	return session.Snapshot(), nil
}

// AppendTurns appends turns to a resident session in call order and marks it
// recently used.
func (c *SessionCache) AppendTurns(_ context.Context, videoID string, turns ...domain.ConversationTurn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.lru.Get(videoID)
	if !ok {
		return domain.ErrSessionNotFound
	}

	session.History = append(session.History, turns...)
	session.LastAccessedAt = time.Now()
	return nil
}

// Evict removes a session. Absent video IDs are a no-op.
func (c *SessionCache) Evict(_ context.Context, videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Remove(videoID)
	return nil
}

// Len returns the number of resident sessions.
func (c *SessionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}

// StartJanitor begins the idle-session sweeper. It runs until StopJanitor is
// called or the context is cancelled. No-op when IdleTTL is zero.
func (c *SessionCache) StartJanitor(ctx context.Context) {
	if c.idleTTL <= 0 {
		return
	}

	c.mu.Lock()
	if c.stopCh != nil {
		c.mu.Unlock()
		return
	}
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	stopCh, doneCh := c.stopCh, c.doneCh
	c.mu.Unlock()

	interval := c.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}

	c.logger.Info("session janitor starting", "idle_ttl", c.idleTTL, "interval", interval)

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// StopJanitor stops the idle-session sweeper and waits for it to exit.
func (c *SessionCache) StopJanitor() {
	c.mu.Lock()
	if c.stopCh == nil {
		c.mu.Unlock()
		return
	}
	stopCh, doneCh := c.stopCh, c.doneCh
	c.stopCh = nil
	c.doneCh = nil
	c.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// sweep evicts sessions idle for longer than IdleTTL. Peek is used so the
// sweep itself does not refresh recency.
func (c *SessionCache) sweep() {
	cutoff := time.Now().Add(-c.idleTTL)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, videoID := range c.lru.Keys() {
		session, ok := c.lru.Peek(videoID)
		if !ok {
			continue
		}
		if session.LastAccessedAt.Before(cutoff) {
			c.lru.Remove(videoID)
		}
	}
}
