// Package cleanup は期限切れ求人の自動削除ジョブを提供する。
// 掲載期限（expires_at）を超過してから保持期間が経過した求人を
// 日次バッチで削除する。応募・コメント・いいねはCASCADE削除で自動的に処理される。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CleanupJob は期限切れから保持期間を超過した求人の自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	db        Executor
	logger    *slog.Logger
	Retention time.Duration // 期限切れ後の保持期間（デフォルト: 30日）
}

// NewCleanupJob は新しいCleanupJobを生成する。
// デフォルトの保持期間は30日。
func NewCleanupJob(db Executor, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		db:        db,
		logger:    logger,
		Retention: 30 * 24 * time.Hour,
	}
}

// Run は期限切れから保持期間を超過した求人を削除する。
// expires_atがRetention前より古い求人をDELETEする。
// 応募・コメント・いいねはCASCADE削除により自動的に削除される。
// expires_atがNULLの求人（無期限掲載）は削除しない。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d seconds", int64(j.Retention.Seconds()))

	query := `DELETE FROM jobs WHERE expires_at IS NOT NULL AND expires_at < now() - $1::interval`
	result, err := j.db.ExecContext(ctx, query, interval)
	if err != nil {
		j.logger.Error("求人クリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Duration("retention", j.Retention),
		)
		return fmt.Errorf("求人クリーンアップの実行に失敗: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	duration := time.Since(start)
	j.logger.Info("求人クリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Duration("retention", j.Retention),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
