package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jobhub/jobhub/internal/middleware"
	"github.com/jobhub/jobhub/internal/model"
)

// CategoryServiceInterface はカテゴリハンドラーが必要とするサービスインターフェース。
type CategoryServiceInterface interface {
	List(ctx context.Context) ([]*model.Category, error)
	Create(ctx context.Context, name, slug string) (*model.Category, error)
	Update(ctx context.Context, categoryID, name, slug string) (*model.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

// CategoryHandler はカテゴリ管理のHTTPハンドラー。
type CategoryHandler struct {
	service CategoryServiceInterface
	gate    AdminGate
}

// NewCategoryHandler はCategoryHandlerを生成する。
func NewCategoryHandler(service CategoryServiceInterface, gate AdminGate) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		gate:    gate,
	}
}

// categoryRequest はカテゴリ作成・更新リクエストのボディ。
type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// categoryResponse はカテゴリ情報のAPIレスポンス。
type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// toCategoryResponse はmodel.CategoryからAPIレスポンスに変換する。
func toCategoryResponse(c *model.Category) categoryResponse {
	return categoryResponse{
		ID:   c.ID,
		Name: c.Name,
		Slug: c.Slug,
	}
}

// List は全カテゴリを返す。
// GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]categoryResponse, len(categories))
	for i, c := range categories {
		results[i] = toCategoryResponse(c)
	}

	writeJSON(w, http.StatusOK, results)
}

// Create はカテゴリを作成する。管理者のみ。
// POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.gate.EnsureAdmin(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	category, err := h.service.Create(r.Context(), req.Name, req.Slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// Update はカテゴリを更新する。管理者のみ。
// PUT /api/categories/:id
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.gate.EnsureAdmin(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	categoryID := chi.URLParam(r, "id")

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	category, err := h.service.Update(r.Context(), categoryID, req.Name, req.Slug)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

// Delete はカテゴリを削除する。管理者のみ。
// DELETE /api/categories/:id
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.gate.EnsureAdmin(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	categoryID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), categoryID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetupCategoryRoutes はカテゴリ管理関連のルーティングを設定したchi.Routerを返す。
func SetupCategoryRoutes(service CategoryServiceInterface, gate AdminGate) http.Handler {
	r := chi.NewRouter()
	h := NewCategoryHandler(service, gate)

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})

	return r
}
