package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartJanitor evicts sessions idle longer than ttl. A ttl of zero
// disables eviction entirely, which is the default: the original
// deployment never expired sessions.
func (m *Manager) StartJanitor(ctx context.Context, interval, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.evictIdle(time.Now().Add(-ttl)); n > 0 {
					log.Info().Int("evicted", n).Msg("expired idle wizard sessions")
				}
			}
		}
	}()
}
