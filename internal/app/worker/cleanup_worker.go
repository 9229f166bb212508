package worker

import (
	"context"
	"log"
	"time"

	"quiz_week/internal/app/rotation"
	"quiz_week/internal/domain/repository"
	"quiz_week/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CleanupWorker purges prior-week answer rows once the ISO week rolls
// over. It runs independently of the submission path; quiz results and
// their totals are kept.
type CleanupWorker struct {
	rdb        *redis.Client
	resultRepo repository.ResultRepository
	now        func() time.Time

	lastPurgedWeek int
}

func NewCleanupWorker(rdb *redis.Client, resultRepo repository.ResultRepository) *CleanupWorker {
	return &CleanupWorker{
		rdb:        rdb,
		resultRepo: resultRepo,
		now:        time.Now,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	interval := time.Duration(config.AppConfig.CleanupIntervalMinutes) * time.Minute
	log.Printf("Cleanup worker started, checking every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cleanup worker stopping...")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CleanupWorker) runOnce(ctx context.Context) {
	now := w.now()
	week := rotation.Week(now)
	if week == w.lastPurgedWeek {
		return
	}

	// Distributed lock so only one instance runs the purge. A stale
	// lock expires via TTL.
	lockValue := uuid.NewString()
	lockTTL := time.Duration(config.AppConfig.CleanupLockTTLSeconds) * time.Second

	ok, err := w.rdb.SetNX(ctx, config.AppConfig.CleanupLockKey, lockValue, lockTTL).Result()
	if err != nil {
		log.Printf("ERROR: Failed to attempt cleanup lock acquisition: %v", err)
		return
	}
	if !ok {
		log.Println("INFO: Cleanup lock held elsewhere, skipping this round.")
		return
	}
	defer w.releaseLock(ctx, lockValue)

	cutoff := rotation.WeekStart(now)
	deleted, err := w.resultRepo.DeleteAnswersBefore(ctx, cutoff)
	if err != nil {
		log.Printf("ERROR: Weekly answer purge failed: %v", err)
		return
	}

	w.lastPurgedWeek = week
	log.Printf("Weekly answer purge done for week %d: %d answer rows deleted (cutoff %s)", week, deleted, cutoff.Format(time.RFC3339))
}

// releaseLock deletes the lock only if this instance still owns it.
func (w *CleanupWorker) releaseLock(ctx context.Context, lockValue string) {
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end`)
	if err := script.Run(ctx, w.rdb, []string{config.AppConfig.CleanupLockKey}, lockValue).Err(); err != nil && err != redis.Nil {
		log.Printf("WARN: Failed to release cleanup lock: %v", err)
	}
}
