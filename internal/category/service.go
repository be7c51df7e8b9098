// Package category は求人カテゴリ管理のビジネスロジックを提供する。
package category

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobhub/jobhub/internal/model"
	"github.com/jobhub/jobhub/internal/repository"
)

// slugPattern はスラッグとして許可する文字列パターン。
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Service はカテゴリに関するビジネスロジックを提供する。
type Service struct {
	categoryRepo repository.CategoryRepository
}

// NewService はServiceを生成する。
func NewService(categoryRepo repository.CategoryRepository) *Service {
	return &Service{categoryRepo: categoryRepo}
}

// List は全カテゴリを名前順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create はカテゴリを作成する。
// slugが空の場合は名前から導出する。スラッグの重複はDUPLICATE_SLUGを返す。
func (s *Service) Create(ctx context.Context, name, slug string) (*model.Category, error) {
	if name == "" {
		return nil, &model.APIError{
			Code:     model.ErrCodeInvalidRequest,
			Message:  "カテゴリ名は必須です。",
			Category: "validation",
			Action:   "カテゴリ名を入力してください。",
		}
	}

	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, &model.APIError{
			Code:     model.ErrCodeInvalidRequest,
			Message:  fmt.Sprintf("不正なスラッグです: %s", slug),
			Category: "validation",
			Action:   "スラッグは英小文字・数字・ハイフンのみ使用できます。",
		}
	}

	now := time.Now()
	category := &model.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewDuplicateSlugError(slug)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// Update はカテゴリを更新する。存在しない場合はCATEGORY_NOT_FOUNDを返す。
func (s *Service) Update(ctx context.Context, categoryID, name, slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return nil, model.NewCategoryNotFoundError(categoryID)
	}

	if name != "" {
		category.Name = name
	}
	if slug != "" {
		if !slugPattern.MatchString(slug) {
			return nil, &model.APIError{
				Code:     model.ErrCodeInvalidRequest,
				Message:  fmt.Sprintf("不正なスラッグです: %s", slug),
				Category: "validation",
				Action:   "スラッグは英小文字・数字・ハイフンのみ使用できます。",
			}
		}
		category.Slug = slug
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewDuplicateSlugError(category.Slug)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete はカテゴリを削除する。存在しない場合はCATEGORY_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, categoryID string) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return model.NewCategoryNotFoundError(categoryID)
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

// Slugify は名前からURLセーフなスラッグを導出する。
// 英数字以外はハイフンに置換し、連続するハイフンはまとめる。
func Slugify(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	prevHyphen := false
	for _, r := range lower {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
