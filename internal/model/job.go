// Package model はドメインモデルを定義する。
package model

import "time"

// Category は求人カテゴリを表す。
type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Job は求人情報を表す。
type Job struct {
	ID           string
	Title        string
	Company      string
	Location     string
	Salary       string
	Type         JobType
	Description  string
	Requirements string
	CategoryID   string
	Urgent       bool
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobType は雇用形態を表す。
type JobType string

const (
	// JobTypeFullTime は正社員。
	JobTypeFullTime JobType = "full-time"
	// JobTypePartTime はパートタイム。
	JobTypePartTime JobType = "part-time"
	// JobTypeContract は契約社員。
	JobTypeContract JobType = "contract"
	// JobTypeInternship はインターンシップ。
	JobTypeInternship JobType = "internship"
)

// IsExpired は求人が掲載期限切れかどうかを返す。
func (j *Job) IsExpired(now time.Time) bool {
	return j.ExpiresAt != nil && j.ExpiresAt.Before(now)
}

// Application は求人への応募を表す。
type Application struct {
	ID          string
	JobID       string
	UserID      string
	Name        string
	Email       string
	Resume      string
	CoverLetter string
	Status      ApplicationStatus
	CreatedAt   time.Time
}

// ApplicationStatus は応募の選考状態を表す。
type ApplicationStatus string

const (
	// ApplicationStatusPending は選考待ち。
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusReviewed は選考済み。
	ApplicationStatusReviewed ApplicationStatus = "reviewed"
	// ApplicationStatusRejected は不採用。
	ApplicationStatusRejected ApplicationStatus = "rejected"
)
