// Package model はドメインモデルを定義する。
package model

import "time"

// CommentContentMaxLength はコメント本文の最大文字数。
const CommentContentMaxLength = 500

// Comment は求人へのコメントを表す。
// AuthorNameとAuthorAvatarは投稿時点のユーザー情報のスナップショット。
// ユーザーが後からプロフィールを変更しても過去のコメント表示は変わらない。
type Comment struct {
	ID           string
	JobID        string
	UserID       string
	Content      string
	AuthorName   string
	AuthorAvatar string
	CreatedAt    time.Time
}

// Like は求人への「いいね」を表す。
// (UserID, JobID) の組はストレージの一意制約で高々1件に保たれる。
type Like struct {
	ID        string
	JobID     string
	UserID    string
	CreatedAt time.Time
}
