// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// expires_atを過ぎたlogin_sessionの行を定期的に削除する。
// 期限切れセッションは認証時にも無効として扱われるため、このジョブは容量の回収のみを担う。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/metrics"
)

const deleteExpiredSessionsQuery = `DELETE FROM login_session WHERE expires_at <= now()`

// CleanupJob は期限切れセッションの削除ジョブ。
// 冪等な削除処理で、複数のワーカーから同時に実行しても問題ない。
type CleanupJob struct {
	exec    *database.Executor
	logger  *slog.Logger
	metrics metrics.MetricsCollector
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(exec *database.Executor, logger *slog.Logger, collector metrics.MetricsCollector) *CleanupJob {
	return &CleanupJob{
		exec:    exec,
		logger:  logger,
		metrics: collector,
	}
}

// Run は期限切れセッションを削除し、削除件数を返す。
// 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) (int64, error) {
	start := time.Now()

	var deletedCount int64
	err := j.exec.Run(ctx, "CleanupExpiredSessions", func(ctx context.Context, q database.Querier) error {
		result, err := q.ExecContext(ctx, deleteExpiredSessionsQuery)
		if err != nil {
			return err
		}
		deletedCount, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		j.logger.Error("session cleanup failed",
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("failed to clean up expired sessions: %w", err)
	}

	j.metrics.RecordSessionsCleaned(int(deletedCount))
	j.logger.Info("session cleanup completed",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return deletedCount, nil
}

// Start は起動直後に1回実行し、以降はintervalごとにRunを実行する。
// ctxがキャンセルされるまでブロックする。
// intervalが正でない場合は何も実行せずに戻る。
func (j *CleanupJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		j.logger.Error("session cleanup not started: interval must be positive",
			slog.Duration("interval", interval),
		)
		return
	}

	j.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

// runOnce はエラーをログに残してRunを1回実行する。
// エラーはRun内で記録済みのため、ここでは捨てる。
func (j *CleanupJob) runOnce(ctx context.Context) {
	_, _ = j.Run(ctx)
}
