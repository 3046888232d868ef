package app

import (
	"context"
	"time"

	pkgcron "github.com/blogicum/blogicum/internal/pkg/cron"
	sessionpkg "github.com/blogicum/blogicum/internal/pkg/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// JobCleanupSessions purges dead login sessions.
	JobCleanupSessions = "cleanup_sessions"

	// sessionRetention is how long dead sessions stay around before purging.
	sessionRetention = 7 * 24 * time.Hour
)

// NewScheduler returns a scheduler with every maintenance job registered.
// The server starts it; the CLI runs jobs from it on demand.
func NewScheduler(db *gorm.DB, logger *zap.Logger) *pkgcron.Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLogger := logger.Named("cron")
	sched := pkgcron.New()

	sched.Register(pkgcron.Job{
		Name:        JobCleanupSessions,
		Description: "Delete sessions that expired or were revoked over a week ago",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := sessionpkg.Purge(db.WithContext(ctx), time.Now().Add(-sessionRetention))
			if err != nil {
				cronLogger.Warn("session cleanup failed", zap.Error(err))
				return err
			}
			cronLogger.Info("session cleanup done", zap.Int64("deleted", n))
			return nil
		},
	})
	return sched
}
