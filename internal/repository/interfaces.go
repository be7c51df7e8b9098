// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/jobhub/jobhub/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByClerkID は外部IdPのユーザーIDでユーザーを検索する。見つからない場合はnilを返す。
	FindByClerkID(ctx context.Context, clerkID string) (*model.User, error)

	// Create はユーザーを作成する。
	// clerk_idの一意制約に衝突した場合はユニーク制約違反エラーを返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateRole はユーザーのロールを更新する。
	UpdateRole(ctx context.Context, id string, role model.Role) error
}

// CategoryRepository は求人カテゴリの永続化インターフェース。
type CategoryRepository interface {
	// FindByID は指定IDのカテゴリを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Category, error)

	// List は全カテゴリを名前昇順で返す。
	List(ctx context.Context) ([]*model.Category, error)

	// Create はカテゴリを作成する。
	// slugの一意制約に衝突した場合はユニーク制約違反エラーを返す。
	Create(ctx context.Context, category *model.Category) error

	// Update はカテゴリを更新する。
	Update(ctx context.Context, category *model.Category) error

	// Delete は指定IDのカテゴリを削除する。
	Delete(ctx context.Context, id string) error
}

// JobFilter は求人一覧の絞り込み条件。
type JobFilter struct {
	CategoryID string // 空の場合は全カテゴリ
	UrgentOnly bool
}

// JobRepository は求人データの永続化インターフェース。
type JobRepository interface {
	// FindByID は指定IDの求人を取得する。見つからない場合はnilを返す。
	// 期限切れの求人もIDでの取得は可能。
	FindByID(ctx context.Context, id string) (*model.Job, error)

	// List は掲載中（期限切れでない）の求人をcreated_at降順で返す。
	List(ctx context.Context, filter JobFilter) ([]*model.Job, error)

	// Create は求人を作成する。
	Create(ctx context.Context, job *model.Job) error

	// Update は求人を更新する。
	Update(ctx context.Context, job *model.Job) error

	// Delete は指定IDの求人を削除する。
	// 関連するapplications、comments、likesはCASCADE削除される。
	Delete(ctx context.Context, id string) error
}

// ApplicationRepository は応募データの永続化インターフェース。
type ApplicationRepository interface {
	// Create は応募を作成する。
	Create(ctx context.Context, application *model.Application) error

	// ListByJobID は求人への応募一覧をcreated_at降順で返す。
	ListByJobID(ctx context.Context, jobID string) ([]*model.Application, error)

	// ListByUserID はユーザーの応募一覧をcreated_at降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Application, error)
}

// CommentRepository はコメントデータの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Comment, error)

	// ListByJobID は求人のコメント一覧をcreated_at昇順で返す。
	ListByJobID(ctx context.Context, jobID string) ([]*model.Comment, error)

	// Create はコメントを作成する。
	Create(ctx context.Context, comment *model.Comment) error

	// Delete は指定IDのコメントを削除する。
	Delete(ctx context.Context, id string) error
}

// LikeRepository は「いいね」データの永続化インターフェース。
type LikeRepository interface {
	// FindByUserAndJob はユーザーIDと求人IDで「いいね」を検索する。見つからない場合はnilを返す。
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*model.Like, error)

	// Create は「いいね」を作成する。
	// (user_id, job_id)の一意制約に衝突した場合はユニーク制約違反エラーを返す。
	Create(ctx context.Context, like *model.Like) error

	// Delete は指定IDの「いいね」を削除する。
	Delete(ctx context.Context, id string) error

	// CountByJobID は求人の「いいね」数を返す。
	CountByJobID(ctx context.Context, jobID string) (int, error)
}

// TxBeginner はトランザクション開始用のインターフェース。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
