package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jobhub/jobhub/internal/application"
	"github.com/jobhub/jobhub/internal/middleware"
	"github.com/jobhub/jobhub/internal/model"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	Create(ctx context.Context, applicant *model.User, input application.Input) (*model.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	ListMine(ctx context.Context, userID string) ([]*model.Application, error)
}

// ApplicationHandler は応募管理のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
	gate    AdminGate
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(service ApplicationServiceInterface, gate AdminGate) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
		gate:    gate,
	}
}

// createApplicationRequest は応募リクエストのボディ。
type createApplicationRequest struct {
	JobID       string `json:"jobId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Resume      string `json:"resume"`
	CoverLetter string `json:"coverLetter"`
}

// applicationResponse は応募情報のAPIレスポンス。
type applicationResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"jobId"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Resume      string    `json:"resume"`
	CoverLetter string    `json:"coverLetter"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// toApplicationResponse はmodel.ApplicationからAPIレスポンスに変換する。
func toApplicationResponse(a *model.Application) applicationResponse {
	return applicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		UserID:      a.UserID,
		Name:        a.Name,
		Email:       a.Email,
		Resume:      a.Resume,
		CoverLetter: a.CoverLetter,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
	}
}

// Create は求人に応募する。認証必須。
// POST /api/applications
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	app, err := h.service.Create(r.Context(), user, application.Input{
		JobID:       req.JobID,
		Name:        req.Name,
		Email:       req.Email,
		Resume:      req.Resume,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

// ListMine はユーザー自身の応募一覧を返す。認証必須。
// GET /api/applications
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	apps, err := h.service.ListMine(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]applicationResponse, len(apps))
	for i, a := range apps {
		results[i] = toApplicationResponse(a)
	}

	writeJSON(w, http.StatusOK, results)
}

// ListByJob は求人への応募一覧を返す。管理者のみ。
// GET /api/jobs/:id/applications
func (h *ApplicationHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.gate.EnsureAdmin(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	jobID := chi.URLParam(r, "id")

	apps, err := h.service.ListByJob(r.Context(), jobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]applicationResponse, len(apps))
	for i, a := range apps {
		results[i] = toApplicationResponse(a)
	}

	writeJSON(w, http.StatusOK, results)
}

// SetupApplicationRoutes は応募管理関連のルーティングを設定したchi.Routerを返す。
func SetupApplicationRoutes(service ApplicationServiceInterface, gate AdminGate) http.Handler {
	r := chi.NewRouter()
	h := NewApplicationHandler(service, gate)

	r.Route("/api/applications", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.ListMine)
	})
	r.Get("/api/jobs/{id}/applications", h.ListByJob)

	return r
}
