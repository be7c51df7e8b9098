package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jobhub/jobhub/internal/job"
	"github.com/jobhub/jobhub/internal/middleware"
	"github.com/jobhub/jobhub/internal/model"
)

// JobServiceInterface は求人ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	List(ctx context.Context, categoryID string, urgentOnly bool) ([]*model.Job, error)
	Get(ctx context.Context, jobID string) (*model.Job, error)
	Create(ctx context.Context, input job.Input) (*model.Job, error)
	Update(ctx context.Context, jobID string, input job.Input) (*model.Job, error)
	Delete(ctx context.Context, jobID string) error
}

// AdminGate は管理者権限の判定インターフェース。
// auth.Serviceが実装する。
type AdminGate interface {
	// EnsureAdmin は管理者権限を要求する。
	// 未認証はUNAUTHORIZED、権限不足はFORBIDDENを返す。
	EnsureAdmin(ctx context.Context, user *model.User) error
}

// JobHandler は求人管理のHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
	gate    AdminGate
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface, gate AdminGate) *JobHandler {
	return &JobHandler{
		service: service,
		gate:    gate,
	}
}

// jobRequest は求人作成・更新リクエストのボディ。
type jobRequest struct {
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Salary       string     `json:"salary"`
	Type         string     `json:"type"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	CategoryID   string     `json:"categoryId"`
	Urgent       bool       `json:"urgent"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

// jobResponse は求人情報のAPIレスポンス。
type jobResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Salary       string     `json:"salary"`
	Type         string     `json:"type"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	CategoryID   string     `json:"categoryId"`
	Urgent       bool       `json:"urgent"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// toJobResponse はmodel.JobからAPIレスポンスに変換する。
func toJobResponse(j *model.Job) jobResponse {
	return jobResponse{
		ID:           j.ID,
		Title:        j.Title,
		Company:      j.Company,
		Location:     j.Location,
		Salary:       j.Salary,
		Type:         string(j.Type),
		Description:  j.Description,
		Requirements: j.Requirements,
		CategoryID:   j.CategoryID,
		Urgent:       j.Urgent,
		ExpiresAt:    j.ExpiresAt,
		CreatedAt:    j.CreatedAt,
	}
}

// toJobInput はリクエストボディからサービス入力に変換する。
func toJobInput(req jobRequest) job.Input {
	return job.Input{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Salary:       req.Salary,
		Type:         model.JobType(req.Type),
		Description:  req.Description,
		Requirements: req.Requirements,
		CategoryID:   req.CategoryID,
		Urgent:       req.Urgent,
		ExpiresAt:    req.ExpiresAt,
	}
}

// List は掲載中の求人一覧を返す。
// GET /api/jobs?category=xxx&urgent=true
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category")
	urgentOnly := r.URL.Query().Get("urgent") == "true"

	jobs, err := h.service.List(r.Context(), categoryID, urgentOnly)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		results[i] = toJobResponse(j)
	}

	writeJSON(w, http.StatusOK, results)
}

// Get は求人詳細を返す。
// GET /api/jobs/:id
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	j, err := h.service.Get(r.Context(), jobID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// Create は求人を作成する。管理者のみ。
// POST /api/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.gate.EnsureAdmin(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	j, err := h.service.Create(r.Context(), toJobInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toJobResponse(j))
}

// Update は求人を更新する。管理者のみ。
// PUT /api/jobs/:id
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.gate.EnsureAdmin(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	jobID := chi.URLParam(r, "id")

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	j, err := h.service.Update(r.Context(), jobID, toJobInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// Delete は求人を削除する。管理者のみ。
// DELETE /api/jobs/:id
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if err := h.gate.EnsureAdmin(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	jobID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), jobID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetupJobRoutes は求人管理関連のルーティングを設定したchi.Routerを返す。
func SetupJobRoutes(service JobServiceInterface, gate AdminGate) http.Handler {
	r := chi.NewRouter()
	h := NewJobHandler(service, gate)

	r.Route("/api/jobs", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})

	return r
}
