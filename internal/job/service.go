// Package job は求人管理のビジネスロジックを提供する。
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jobhub/jobhub/internal/model"
	"github.com/jobhub/jobhub/internal/repository"
)

// Service は求人に関するビジネスロジックを提供する。
type Service struct {
	jobRepo      repository.JobRepository
	categoryRepo repository.CategoryRepository
}

// NewService はServiceを生成する。
func NewService(jobRepo repository.JobRepository, categoryRepo repository.CategoryRepository) *Service {
	return &Service{
		jobRepo:      jobRepo,
		categoryRepo: categoryRepo,
	}
}

// Input は求人の作成・更新の入力を表す。
type Input struct {
	Title        string
	Company      string
	Location     string
	Salary       string
	Type         model.JobType
	Description  string
	Requirements string
	CategoryID   string
	Urgent       bool
	ExpiresAt    *time.Time
}

// validate は入力の必須フィールドとカテゴリの存在を検証する。
func (s *Service) validate(ctx context.Context, input Input) error {
	if input.Title == "" || input.Company == "" {
		return &model.APIError{
			Code:     model.ErrCodeInvalidRequest,
			Message:  "タイトルと会社名は必須です。",
			Category: "validation",
			Action:   "タイトルと会社名を入力してください。",
		}
	}

	if input.CategoryID != "" {
		category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to find category: %w", err)
		}
		if category == nil {
			return model.NewCategoryNotFoundError(input.CategoryID)
		}
	}

	return nil
}

// List は掲載中の求人を新着順で返す。
// categoryIDが空でない場合はカテゴリで絞り込む。
// urgentOnlyがtrueの場合は急募の求人のみを返す。
func (s *Service) List(ctx context.Context, categoryID string, urgentOnly bool) ([]*model.Job, error) {
	jobs, err := s.jobRepo.List(ctx, repository.JobFilter{
		CategoryID: categoryID,
		UrgentOnly: urgentOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// Get は求人を取得する。期限切れの求人もIDでの取得は可能。
// 存在しない場合はJOB_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}
	return job, nil
}

// Create は求人を作成する。
func (s *Service) Create(ctx context.Context, input Input) (*model.Job, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now()
	job := &model.Job{
		ID:           uuid.New().String(),
		Title:        input.Title,
		Company:      input.Company,
		Location:     input.Location,
		Salary:       input.Salary,
		Type:         input.Type,
		Description:  input.Description,
		Requirements: input.Requirements,
		CategoryID:   input.CategoryID,
		Urgent:       input.Urgent,
		ExpiresAt:    input.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

// Update は求人を更新する。存在しない場合はJOB_NOT_FOUNDを返す。
func (s *Service) Update(ctx context.Context, jobID string, input Input) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return nil, model.NewJobNotFoundError(jobID)
	}

	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	job.Title = input.Title
	job.Company = input.Company
	job.Location = input.Location
	job.Salary = input.Salary
	job.Type = input.Type
	job.Description = input.Description
	job.Requirements = input.Requirements
	job.CategoryID = input.CategoryID
	job.Urgent = input.Urgent
	job.ExpiresAt = input.ExpiresAt
	job.UpdatedAt = time.Now()

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return job, nil
}

// Delete は求人を削除する。存在しない場合はJOB_NOT_FOUNDを返す。
// 関連する応募・コメント・いいねはストレージ側でCASCADE削除される。
func (s *Service) Delete(ctx context.Context, jobID string) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to find job: %w", err)
	}
	if job == nil {
		return model.NewJobNotFoundError(jobID)
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	return nil
}
