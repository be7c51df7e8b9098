// Package application は求人応募のビジネスロジックを提供する。
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobhub/jobhub/internal/model"
	"github.com/jobhub/jobhub/internal/repository"
)

// MetricsRecorder は応募送信のメトリクス記録に必要なインターフェース。
type MetricsRecorder interface {
	RecordApplicationSubmitted(jobID string)
}

// Service は応募に関するビジネスロジックを提供する。
type Service struct {
	applicationRepo repository.ApplicationRepository
	jobRepo         repository.JobRepository
	metrics         MetricsRecorder
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(applicationRepo repository.ApplicationRepository, jobRepo repository.JobRepository, metrics MetricsRecorder) *Service {
	return &Service{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		metrics:         metrics,
	}
}

// Input は応募作成の入力を表す。
type Input struct {
	JobID       string
	Name        string
	Email       string
	Resume      string
	CoverLetter string
}

// Create は求人に応募する。
// 求人の存在チェックを先に行い、存在しない場合はJOB_NOT_FOUNDを返す。
// 応募者の名前とメールが空の場合はユーザープロフィールの値を使用する。
func (s *Service) Create(ctx context.Context, applicant *model.User, input Input) (*model.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, input.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(input.JobID)
	}

	name := input.Name
	if name == "" {
		name = applicant.Name
	}
	email := input.Email
	if email == "" {
		email = applicant.Email
	}

	application := &model.Application{
		ID:          uuid.New().String(),
		JobID:       input.JobID,
		UserID:      applicant.ID,
		Name:        name,
		Email:       email,
		Resume:      input.Resume,
		CoverLetter: input.CoverLetter,
		Status:      model.ApplicationStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.applicationRepo.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordApplicationSubmitted(input.JobID)
	}

	return application, nil
}

// ListByJob は求人への応募一覧を返す。管理者向け。
// 求人が存在しない場合はJOB_NOT_FOUNDを返す。
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}

	applications, err := s.applicationRepo.ListByJobID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// ListMine はユーザー自身の応募一覧を返す。
func (s *Service) ListMine(ctx context.Context, userID string) ([]*model.Application, error) {
	applications, err := s.applicationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}
