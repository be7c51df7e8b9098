package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jobhub/jobhub/internal/middleware"
	"github.com/jobhub/jobhub/internal/model"
)

// AuthHandler は認証関連のHTTPハンドラー。
// トークンの解決自体はIdentityMiddlewareが行うため、
// ここではコンテキストに注入されたユーザーを返すだけでよい。
type AuthHandler struct{}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID           string `json:"id"`
	ClerkID      string `json:"clerkId"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:           user.ID,
		ClerkID:      user.ClerkID,
		Role:         string(user.Role),
		Name:         user.Name,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
	}
}

// Me は現在のログインユーザー情報を返す。
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Sync はトークンからローカルユーザーを解決（未登録なら作成）して返す。
// 解決はIdentityMiddlewareで完了しているため、結果を返すだけ。
// POST /api/auth/sync
func (h *AuthHandler) Sync(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// SetupAuthRoutes は認証関連のルーティングを設定したchi.Routerを返す。
func SetupAuthRoutes() http.Handler {
	r := chi.NewRouter()
	h := NewAuthHandler()

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/me", h.Me)
		r.Post("/sync", h.Sync)
	})

	return r
}
