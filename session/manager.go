package session

import (
	"context"
	"time"

	"github.com/hairizuanbinnoorazman/job-board/logger"
)

// cleaner is implemented by stores that need periodic pruning.
type cleaner interface {
	Cleanup() int
}

// Manager wraps a RevocationStore with logging and background cleanup.
type Manager struct {
	store  RevocationStore
	logger logger.Logger
	stopCh chan struct{}
}

// NewManager creates a manager around store.
func NewManager(store RevocationStore, log logger.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: log,
		stopCh: make(chan struct{}),
	}
}

// Revoke records tokenID as revoked until expiresAt.
func (m *Manager) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if err := m.store.Revoke(ctx, tokenID, expiresAt); err != nil {
		m.logger.Error(ctx, "failed to revoke token", map[string]interface{}{
			"error":    err.Error(),
			"token_id": tokenID,
		})
		return err
	}

	m.logger.Info(ctx, "token revoked", map[string]interface{}{
		"token_id":   tokenID,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (m *Manager) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return m.store.IsRevoked(ctx, tokenID)
}

// StartCleanup periodically prunes expired entries when the store supports it.
// Stores with native expiry (Redis) need no cleanup and this is a no-op.
func (m *Manager) StartCleanup(interval time.Duration) {
	c, ok := m.store.(cleaner)
	if !ok {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				if removed := c.Cleanup(); removed > 0 {
					m.logger.Info(context.Background(), "cleaned up expired revocations", map[string]interface{}{
						"removed_count": removed,
					})
				}
			case <-m.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// StopCleanup stops the cleanup goroutine.
func (m *Manager) StopCleanup() {
	close(m.stopCh)
}
