package realtime

import (
	"time"

	"github.com/jobhub/jobhub/internal/model"
)

// Notifier はドメインサービスのイベントをハブの配信に変換するアダプタ。
// comment.Notifierとlike.Notifierを実装する。
type Notifier struct {
	hub *Hub
}

// NewNotifier はNotifierを生成する。
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// commentPayload はcomment-addedイベントのペイロード。
type commentPayload struct {
	ID           string `json:"id"`
	JobID        string `json:"jobId"`
	Content      string `json:"content"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	CreatedAt    string `json:"createdAt"`
}

// likePayload はlike-updatedイベントのペイロード。
type likePayload struct {
	JobID string `json:"jobId"`
	Count int    `json:"count"`
}

// CommentAdded は新規コメントを求人のルームへ配信する。
func (n *Notifier) CommentAdded(jobID string, comment *model.Comment) {
	n.hub.Publish(jobID, EventCommentAdded, commentPayload{
		ID:           comment.ID,
		JobID:        comment.JobID,
		Content:      comment.Content,
		AuthorName:   comment.AuthorName,
		AuthorAvatar: comment.AuthorAvatar,
		CreatedAt:    comment.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// LikeUpdated は求人の最新「いいね」数をルームへ配信する。
func (n *Notifier) LikeUpdated(jobID string, count int) {
	n.hub.Publish(jobID, EventLikeUpdated, likePayload{
		JobID: jobID,
		Count: count,
	})
}
