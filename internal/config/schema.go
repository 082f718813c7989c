package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shoe-catalog-service/internal/models"
)

// SchemaMigrator runs Migrate until it has succeeded once. Startup, the
// readiness endpoint and the background retry loop share one instance.
type SchemaMigrator struct {
	db     *gorm.DB
	logger *logrus.Logger

	mu   sync.Mutex
	done bool
}

func NewSchemaMigrator(db *gorm.DB, logger *logrus.Logger) *SchemaMigrator {
	return &SchemaMigrator{db: db, logger: logger}
}

// Ensure migrates the schema unless an earlier call already succeeded.
// Failures wrap models.ErrStoreUnavailable.
func (m *SchemaMigrator) Ensure(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return nil
	}
	if err := Migrate(m.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	m.done = true
	return nil
}

// Ready reports whether the schema has been migrated
func (m *SchemaMigrator) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Run retries Ensure every interval until it succeeds or ctx is done
func (m *SchemaMigrator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := m.Ensure(ctx)
		if err == nil {
			m.logger.Info("✓ Catalog schema ready")
			return
		}
		m.logger.WithError(err).Warn("Catalog schema not ready, retrying")

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
