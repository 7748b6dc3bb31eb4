package service

import (
	"context"
	"log"
	"time"
)

// SessionReaperConfig holds settings for the idle session reaper.
type SessionReaperConfig struct {
	SweepInterval time.Duration
	IdleTimeout   time.Duration
}

// SessionReaper periodically closes sessions that have been idle for too long,
// releasing their previews.
type SessionReaper struct {
	sessions SessionService
	cfg      SessionReaperConfig
}

// NewSessionReaper creates a new SessionReaper.
func NewSessionReaper(sessions SessionService, cfg SessionReaperConfig) *SessionReaper {
	return &SessionReaper{sessions: sessions, cfg: cfg}
}

// Start runs the sweep loop until ctx is canceled. A non-positive idle timeout disables it.
func (r *SessionReaper) Start(ctx context.Context) {
	if r.cfg.IdleTimeout <= 0 || r.cfg.SweepInterval <= 0 {
		log.Printf("sessionReaper: disabled")
		return
	}

	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	log.Printf("sessionReaper: started (sweep=%s, idle=%s)", r.cfg.SweepInterval, r.cfg.IdleTimeout)

	for {
		select {
		case <-ctx.Done():
			log.Printf("sessionReaper: shutdown complete")
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Sweep closes idle sessions once and returns how many were closed.
func (r *SessionReaper) Sweep() int {
	n := r.sessions.CloseIdle(r.cfg.IdleTimeout)
	if n > 0 {
		log.Printf("sessionReaper: closed %d idle session(s), %d open", n, r.sessions.Count())
	}
	return n
}
