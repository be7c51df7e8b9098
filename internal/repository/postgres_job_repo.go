package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jobhub/jobhub/internal/model"
)

// PostgresJobRepo はPostgreSQLを使用した求人リポジトリ。
type PostgresJobRepo struct {
	db *sql.DB
}

// NewPostgresJobRepo はPostgresJobRepoを生成する。
func NewPostgresJobRepo(db *sql.DB) *PostgresJobRepo {
	return &PostgresJobRepo{db: db}
}

const jobColumns = `id, title, company, location, salary, type, description, requirements,
	category_id, urgent, expires_at, created_at, updated_at`

// scanJob はrows/rowからJobをスキャンする。
func scanJob(scan func(dest ...any) error) (*model.Job, error) {
	job := &model.Job{}
	var expiresAt sql.NullTime
	err := scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Salary,
		&job.Type, &job.Description, &job.Requirements,
		&job.CategoryID, &job.Urgent, &expiresAt, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		job.ExpiresAt = &expiresAt.Time
	}
	return job, nil
}

// FindByID は指定IDの求人を取得する。見つからない場合はnilを返す。
// 期限切れの求人もIDでの取得は可能。
func (r *PostgresJobRepo) FindByID(ctx context.Context, id string) (*model.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`,
		id,
	)
	job, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job by ID: %w", err)
	}
	return job, nil
}

// List は掲載中（期限切れでない）の求人をcreated_at降順で返す。
func (r *PostgresJobRepo) List(ctx context.Context, filter JobFilter) ([]*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
		WHERE (expires_at IS NULL OR expires_at > now())`
	args := []any{}

	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.UrgentOnly {
		query += " AND urgent = true"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

// Create は求人を作成する。
func (r *PostgresJobRepo) Create(ctx context.Context, job *model.Job) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, company, location, salary, type, description, requirements,
			category_id, urgent, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		job.ID, job.Title, job.Company, job.Location, job.Salary,
		job.Type, job.Description, job.Requirements,
		job.CategoryID, job.Urgent, job.ExpiresAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// Update は求人を更新する。
func (r *PostgresJobRepo) Update(ctx context.Context, job *model.Job) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET title = $1, company = $2, location = $3, salary = $4, type = $5,
			description = $6, requirements = $7, category_id = $8, urgent = $9,
			expires_at = $10, updated_at = now()
		 WHERE id = $11`,
		job.Title, job.Company, job.Location, job.Salary, job.Type,
		job.Description, job.Requirements, job.CategoryID, job.Urgent,
		job.ExpiresAt, job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job not found: %s", job.ID)
	}
	return nil
}

// Delete は指定IDの求人を削除する。
// 関連するapplications、comments、likesはCASCADE削除される。
func (r *PostgresJobRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return nil
}

// compile-time interface check
var _ JobRepository = (*PostgresJobRepo)(nil)
