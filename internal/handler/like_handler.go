package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jobhub/jobhub/internal/like"
	"github.com/jobhub/jobhub/internal/middleware"
	"github.com/jobhub/jobhub/internal/model"
)

// LikeServiceInterface は「いいね」ハンドラーが必要とするサービスインターフェース。
type LikeServiceInterface interface {
	// Toggle はユーザーの「いいね」状態を反転する。
	Toggle(ctx context.Context, jobID string, userID string) (*like.ToggleResult, error)
	// CountByJob は求人の「いいね」数を返す。
	CountByJob(ctx context.Context, jobID string) (int, error)
	// CheckMine はユーザーが求人に「いいね」済みかを返す。
	CheckMine(ctx context.Context, jobID string, userID string) (bool, error)
}

// LikeHandler は「いいね」管理のHTTPハンドラー。
type LikeHandler struct {
	service LikeServiceInterface
}

// NewLikeHandler はLikeHandlerを生成する。
func NewLikeHandler(service LikeServiceInterface) *LikeHandler {
	return &LikeHandler{service: service}
}

// toggleResponse はトグル結果のAPIレスポンス。
type toggleResponse struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

// countResponse は「いいね」数のAPIレスポンス。
type countResponse struct {
	Count int `json:"count"`
}

// likedResponse は「いいね」済み判定のAPIレスポンス。
type likedResponse struct {
	Liked bool `json:"liked"`
}

// Count は求人の「いいね」数を返す。認証不要。
// GET /api/jobs/:id/likes
func (h *LikeHandler) Count(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	count, err := h.service.CountByJob(r.Context(), jobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

// Toggle はユーザーの「いいね」状態を反転する。認証必須。
// POST /api/jobs/:id/likes/toggle
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	jobID := chi.URLParam(r, "id")

	result, err := h.service.Toggle(r.Context(), jobID, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{Liked: result.Liked, Count: result.Count})
}

// CheckMine はユーザーが求人に「いいね」済みかを返す。認証必須。
// GET /api/jobs/:id/likes/me
func (h *LikeHandler) CheckMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	jobID := chi.URLParam(r, "id")

	liked, err := h.service.CheckMine(r.Context(), jobID, user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likedResponse{Liked: liked})
}

// SetupLikeRoutes は「いいね」管理関連のルーティングを設定したchi.Routerを返す。
func SetupLikeRoutes(service LikeServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewLikeHandler(service)

	r.Route("/api/jobs/{id}/likes", func(r chi.Router) {
		r.Get("/", h.Count)
		r.Post("/toggle", h.Toggle)
		r.Get("/me", h.CheckMine)
	})

	return r
}
