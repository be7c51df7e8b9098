// Package like は求人への「いいね」トグルのビジネスロジックを提供する。
package like

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jobhub/jobhub/internal/model"
	"github.com/jobhub/jobhub/internal/repository"
)

// Notifier は「いいね」イベントの通知インターフェース。
// realtimeパッケージのハブが実装する。
type Notifier interface {
	// LikeUpdated は求人の最新「いいね」数をルームへ配信する。
	LikeUpdated(jobID string, count int)
}

// MetricsRecorder はトグル操作のメトリクス記録に必要なインターフェース。
type MetricsRecorder interface {
	RecordLikeToggled(jobID string, liked bool)
}

// Service は「いいね」に関するビジネスロジックを提供する。
type Service struct {
	likeRepo repository.LikeRepository
	jobRepo  repository.JobRepository
	notifier Notifier
	metrics  MetricsRecorder
}

// NewService はServiceを生成する。
// notifierとmetricsはnilを許容する（リアルタイム配信・メトリクスなしで動作する）。
func NewService(likeRepo repository.LikeRepository, jobRepo repository.JobRepository, notifier Notifier, metrics MetricsRecorder) *Service {
	return &Service{
		likeRepo: likeRepo,
		jobRepo:  jobRepo,
		notifier: notifier,
		metrics:  metrics,
	}
}

// ToggleResult はトグル操作の結果を表す。
type ToggleResult struct {
	Liked bool
	Count int
}

// Toggle はユーザーの「いいね」状態を反転する。
// 求人の存在チェックを先に行い、存在しない場合はJOB_NOT_FOUNDを返す。
//
// 原子性は(user_id, job_id)のストレージ一意制約に依存する。
// 同一ユーザーの同時トグルで作成が競合した場合（一意制約違反）は
// 「既にいいね済み」と同じ結果として liked=true を返す。
// 制約違反は想定内の競合であり、サーバーエラーにはしない。
func (s *Service) Toggle(ctx context.Context, jobID string, userID string) (*ToggleResult, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}

	existing, err := s.likeRepo.FindByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find like: %w", err)
	}

	var liked bool
	if existing != nil {
		if err := s.likeRepo.Delete(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete like: %w", err)
		}
		liked = false
	} else {
		newLike := &model.Like{
			ID:        uuid.New().String(),
			JobID:     jobID,
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		if err := s.likeRepo.Create(ctx, newLike); err != nil {
			if repository.IsUniqueViolation(err) {
				// 同時トグルに競り負けた。相手の作成が残っているので結果は同じ。
				slog.Info("like toggle lost creation race",
					slog.String("job_id", jobID),
					slog.String("user_id", userID),
				)
			} else {
				return nil, fmt.Errorf("failed to create like: %w", err)
			}
		}
		liked = true
	}

	count, err := s.likeRepo.CountByJobID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	if s.notifier != nil {
		s.notifier.LikeUpdated(jobID, count)
	}
	if s.metrics != nil {
		s.metrics.RecordLikeToggled(jobID, liked)
	}

	return &ToggleResult{Liked: liked, Count: count}, nil
}

// CountByJob は求人の「いいね」数を返す。
// 求人が存在しない場合はJOB_NOT_FOUNDを返す。
func (s *Service) CountByJob(ctx context.Context, jobID string) (int, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return 0, model.NewJobNotFoundError(jobID)
	}

	count, err := s.likeRepo.CountByJobID(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// CheckMine はユーザーが求人に「いいね」済みかを返す。
func (s *Service) CheckMine(ctx context.Context, jobID string, userID string) (bool, error) {
	existing, err := s.likeRepo.FindByUserAndJob(ctx, userID, jobID)
	if err != nil {
		return false, fmt.Errorf("failed to find like: %w", err)
	}
	return existing != nil, nil
}
