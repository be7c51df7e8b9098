// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーのロールを表す。
type Role string

const (
	// RoleUser は一般ユーザー。
	RoleUser Role = "user"
	// RoleAdmin は管理者。一度昇格したら降格しない。
	RoleAdmin Role = "admin"
)

// User はサービス利用ユーザーを表す。
// 外部IdP（Clerk）のユーザーIDと1対1で紐付く。
type User struct {
	ID           string
	ClerkID      string
	Role         Role
	Name         string
	Email        string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin はユーザーが管理者ロールを持つかを返す。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
