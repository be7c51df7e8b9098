package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jobhub/jobhub/internal/model"
)

// PostgresLikeRepo はPostgreSQLを使用した「いいね」リポジトリ。
type PostgresLikeRepo struct {
	db *sql.DB
}

// NewPostgresLikeRepo はPostgresLikeRepoを生成する。
func NewPostgresLikeRepo(db *sql.DB) *PostgresLikeRepo {
	return &PostgresLikeRepo{db: db}
}

// FindByUserAndJob はユーザーIDと求人IDで「いいね」を検索する。見つからない場合はnilを返す。
func (r *PostgresLikeRepo) FindByUserAndJob(ctx context.Context, userID, jobID string) (*model.Like, error) {
	like := &model.Like{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, job_id, user_id, created_at FROM likes WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	).Scan(&like.ID, &like.JobID, &like.UserID, &like.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find like: %w", err)
	}

	return like, nil
}

// Create は「いいね」を作成する。
// (user_id, job_id)の一意制約に衝突した場合はエラーをそのまま返す。
// 呼び出し元はIsUniqueViolationでトグルの競合を判定できる。
func (r *PostgresLikeRepo) Create(ctx context.Context, like *model.Like) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO likes (id, job_id, user_id, created_at) VALUES ($1, $2, $3, $4)`,
		like.ID, like.JobID, like.UserID, like.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

// Delete は指定IDの「いいね」を削除する。
func (r *PostgresLikeRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

// CountByJobID は求人の「いいね」数を返す。
func (r *PostgresLikeRepo) CountByJobID(ctx context.Context, jobID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE job_id = $1`,
		jobID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ LikeRepository = (*PostgresLikeRepo)(nil)
