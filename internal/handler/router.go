package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jobhub/jobhub/internal/middleware"
	"github.com/jobhub/jobhub/internal/realtime"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jobhub/jobhub/internal/metrics"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker      HealthChecker
	TokenResolver      middleware.TokenResolver
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter

	// リアルタイム配信
	Hub *realtime.Hub

	// メトリクス
	Metrics         middleware.HTTPMetricsRecorder
	MetricsGatherer prometheus.Gatherer

	// 管理者認可ゲート
	AdminGate AdminGate

	// ドメインサービス
	JobService         JobServiceInterface
	CategoryService    CategoryServiceInterface
	ApplicationService ApplicationServiceInterface
	CommentService     CommentServiceInterface
	LikeService        LikeServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Identity → RateLimit(General)
//
// Identityミドルウェアはトークンの解決に失敗してもリクエストを拒否しない。
// 認証が必要なエンドポイントは各ハンドラーでユーザーの有無を確認する。
// 更新系エンドポイントには追加でMutationレート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))
	r.Use(middleware.NewLoggingMiddleware(nil))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	healthHandler := NewHealthHandler(deps.HealthChecker)
	authHandler := NewAuthHandler()
	jobHandler := NewJobHandler(deps.JobService, deps.AdminGate)
	categoryHandler := NewCategoryHandler(deps.CategoryService, deps.AdminGate)
	applicationHandler := NewApplicationHandler(deps.ApplicationService, deps.AdminGate)
	commentHandler := NewCommentHandler(deps.CommentService)
	likeHandler := NewLikeHandler(deps.LikeService)
	wsHandler := NewWSHandler(deps.Hub, deps.CORSAllowedOrigins)

	// --- 運用系ルート（認証・レート制限の外） ---

	r.Get("/health", healthHandler.Check)

	if deps.MetricsGatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.MetricsGatherer).ServeHTTP)
	}

	// --- APIルート ---
	// ミドルウェアスタック: Identity → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentityMiddleware(deps.TokenResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		mutation := deps.RateLimiter.MutationMiddleware()

		// WebSocket接続（求人ルームへの参加）
		r.Get("/api/ws", wsHandler.Serve)

		// 認証
		r.Route("/api/auth", func(r chi.Router) {
			r.Get("/me", authHandler.Me)
			r.With(mutation).Post("/sync", authHandler.Sync)
		})

		// 求人
		r.Route("/api/jobs", func(r chi.Router) {
			r.Get("/", jobHandler.List)
			r.With(mutation).Post("/", jobHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", jobHandler.Get)
				r.With(mutation).Put("/", jobHandler.Update)
				r.With(mutation).Delete("/", jobHandler.Delete)

				// コメント
				r.Get("/comments", commentHandler.ListByJob)
				r.With(mutation).Post("/comments", commentHandler.Create)

				// いいね
				r.Get("/likes", likeHandler.Count)
				r.Get("/likes/me", likeHandler.CheckMine)
				r.With(mutation).Post("/likes/toggle", likeHandler.Toggle)

				// 応募一覧（管理者のみ）
				r.Get("/applications", applicationHandler.ListByJob)
			})
		})

		// カテゴリ
		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.With(mutation).Post("/", categoryHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.With(mutation).Put("/", categoryHandler.Update)
				r.With(mutation).Delete("/", categoryHandler.Delete)
			})
		})

		// 応募
		r.Route("/api/applications", func(r chi.Router) {
			r.Get("/", applicationHandler.ListMine)
			r.With(mutation).Post("/", applicationHandler.Create)
		})

		// コメント削除
		r.With(mutation).Delete("/api/comments/{id}", commentHandler.Delete)
	})

	return r
}
