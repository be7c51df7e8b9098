package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jobhub/jobhub/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

const applicationColumns = `id, job_id, user_id, name, email, resume, cover_letter, status, created_at`

// Create は応募を作成する。
func (r *PostgresApplicationRepo) Create(ctx context.Context, application *model.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, job_id, user_id, name, email, resume, cover_letter, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		application.ID, application.JobID, application.UserID, application.Name,
		application.Email, application.Resume, application.CoverLetter,
		application.Status, application.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// ListByJobID は求人への応募一覧をcreated_at降順で返す。
func (r *PostgresApplicationRepo) ListByJobID(ctx context.Context, jobID string) ([]*model.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY created_at DESC`,
		jobID,
	)
}

// ListByUserID はユーザーの応募一覧をcreated_at降順で返す。
func (r *PostgresApplicationRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
}

func (r *PostgresApplicationRepo) list(ctx context.Context, query string, args ...any) ([]*model.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var applications []*model.Application
	for rows.Next() {
		app := &model.Application{}
		if err := rows.Scan(
			&app.ID, &app.JobID, &app.UserID, &app.Name,
			&app.Email, &app.Resume, &app.CoverLetter, &app.Status, &app.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return applications, nil
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
