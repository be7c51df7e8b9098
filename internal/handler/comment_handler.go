package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jobhub/jobhub/internal/middleware"
	"github.com/jobhub/jobhub/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	// Create は求人にコメントを投稿する。
	Create(ctx context.Context, jobID string, author *model.User, content string) (*model.Comment, error)
	// ListByJob は求人のコメント一覧を投稿順で返す。
	ListByJob(ctx context.Context, jobID string) ([]*model.Comment, error)
	// Delete はコメントを削除する。存在チェックが所有権チェックより先。
	Delete(ctx context.Context, commentID string, actor *model.User) error
}

// CommentHandler はコメント管理のHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// createCommentRequest はコメント投稿リクエストのボディ。
type createCommentRequest struct {
	Content string `json:"content"`
}

// commentResponse はコメント情報のAPIレスポンス。
type commentResponse struct {
	ID           string    `json:"id"`
	JobID        string    `json:"jobId"`
	UserID       string    `json:"userId"`
	Content      string    `json:"content"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar"`
	CreatedAt    time.Time `json:"createdAt"`
}

// toCommentResponse はmodel.CommentからAPIレスポンスに変換する。
func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:           c.ID,
		JobID:        c.JobID,
		UserID:       c.UserID,
		Content:      c.Content,
		AuthorName:   c.AuthorName,
		AuthorAvatar: c.AuthorAvatar,
		CreatedAt:    c.CreatedAt,
	}
}

// ListByJob は求人のコメント一覧を返す。認証不要。
// GET /api/jobs/:id/comments
func (h *CommentHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	comments, err := h.service.ListByJob(r.Context(), jobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]commentResponse, len(comments))
	for i, c := range comments {
		results[i] = toCommentResponse(c)
	}

	writeJSON(w, http.StatusOK, results)
}

// Create は求人にコメントを投稿する。認証必須。
// POST /api/jobs/:id/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	jobID := chi.URLParam(r, "id")

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	comment, err := h.service.Create(r.Context(), jobID, user, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// Delete はコメントを削除する。投稿者本人または管理者のみ。
// DELETE /api/comments/:id
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	commentID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), commentID, user); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetupCommentRoutes はコメント管理関連のルーティングを設定したchi.Routerを返す。
func SetupCommentRoutes(service CommentServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewCommentHandler(service)

	r.Route("/api/jobs/{id}/comments", func(r chi.Router) {
		r.Get("/", h.ListByJob)
		r.Post("/", h.Create)
	})
	r.Delete("/api/comments/{id}", h.Delete)

	return r
}
