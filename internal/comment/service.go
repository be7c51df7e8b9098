// Package comment は求人コメントのビジネスロジックを提供する。
package comment

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jobhub/jobhub/internal/model"
	"github.com/jobhub/jobhub/internal/repository"
	"github.com/jobhub/jobhub/internal/security"
)

// Notifier はコメントイベントの通知インターフェース。
// realtimeパッケージのハブが実装する。
type Notifier interface {
	// CommentAdded は新規コメントを求人のルームへ配信する。
	CommentAdded(jobID string, comment *model.Comment)
}

// MetricsRecorder はコメント投稿のメトリクス記録に必要なインターフェース。
type MetricsRecorder interface {
	RecordCommentCreated(jobID string)
}

// Service はコメントに関するビジネスロジックを提供する。
type Service struct {
	commentRepo repository.CommentRepository
	jobRepo     repository.JobRepository
	sanitizer   security.ContentSanitizerService
	notifier    Notifier
	metrics     MetricsRecorder
}

// NewService はServiceを生成する。
// notifierとmetricsはnilを許容する（リアルタイム配信・メトリクスなしで動作する）。
func NewService(
	commentRepo repository.CommentRepository,
	jobRepo repository.JobRepository,
	sanitizer security.ContentSanitizerService,
	notifier Notifier,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		commentRepo: commentRepo,
		jobRepo:     jobRepo,
		sanitizer:   sanitizer,
		notifier:    notifier,
		metrics:     metrics,
	}
}

// Create は求人にコメントを投稿する。
// 求人の存在チェックを先に行い、存在しない場合はJOB_NOT_FOUNDを返す。
// 本文はサニタイズ後に1〜500文字であることを検証する。
// 投稿者の表示名とアバターはコメントにスナップショットとして保存され、
// 以後のプロフィール変更の影響を受けない。
func (s *Service) Create(ctx context.Context, jobID string, author *model.User, content string) (*model.Comment, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}

	sanitized := strings.TrimSpace(s.sanitizer.Sanitize(content))
	if sanitized == "" {
		return nil, model.NewInvalidContentError("本文が空です")
	}
	if utf8.RuneCountInString(sanitized) > model.CommentContentMaxLength {
		return nil, model.NewInvalidContentError(
			fmt.Sprintf("本文が%d文字を超えています", model.CommentContentMaxLength))
	}

	comment := &model.Comment{
		ID:           uuid.New().String(),
		JobID:        jobID,
		UserID:       author.ID,
		Content:      sanitized,
		AuthorName:   author.Name,
		AuthorAvatar: author.ProfileImage,
		CreatedAt:    time.Now(),
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if s.notifier != nil {
		s.notifier.CommentAdded(jobID, comment)
	}
	if s.metrics != nil {
		s.metrics.RecordCommentCreated(jobID)
	}

	return comment, nil
}

// ListByJob は求人のコメント一覧を投稿順で返す。
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]*model.Comment, error) {
	comments, err := s.commentRepo.ListByJobID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Delete はコメントを削除する。
// 存在チェックを所有権チェックより先に行う。
// 存在しないコメントはCOMMENT_NOT_FOUND、
// 投稿者本人でも管理者でもない場合はFORBIDDENを返す。
func (s *Service) Delete(ctx context.Context, commentID string, actor *model.User) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to find comment: %w", err)
	}
	if comment == nil {
		return model.NewCommentNotFoundError(commentID)
	}

	if comment.UserID != actor.ID && !actor.IsAdmin() {
		return model.NewForbiddenError(actor.Role, actor.ID)
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}
