// Package auth は外部IdPトークンの解決とローカルユーザーの同期、権限判定を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jobhub/jobhub/internal/clerk"
	"github.com/jobhub/jobhub/internal/model"
	"github.com/jobhub/jobhub/internal/repository"
)

// IdentityProvider は外部IdPへの問い合わせインターフェース。
// clerk.Clientが実装する。テストではモックに差し替える。
type IdentityProvider interface {
	// VerifyToken はセッショントークンを検証し、IdP側のユーザーIDを返す。
	VerifyToken(ctx context.Context, token string) (string, error)
	// GetProfile はIdP側のユーザーIDでプロフィールを取得する。
	GetProfile(ctx context.Context, externalID string) (*clerk.Profile, error)
}

// MetricsRecorder はトークン解決失敗のメトリクス記録に必要なインターフェース。
type MetricsRecorder interface {
	RecordIdentityResolveFailure(reason string)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	// AdminClerkIDs は管理者として扱うIdPユーザーIDの静的リスト。
	// リストに含まれるユーザーは初回作成時にadminロールで作成され、
	// 既存ユーザーは管理者操作時にadminへ昇格される。
	AdminClerkIDs []string
}

// Service はトークン解決とユーザー同期のビジネスロジックを提供する。
type Service struct {
	idp      IdentityProvider
	userRepo repository.UserRepository
	metrics  MetricsRecorder
	adminIDs map[string]struct{}
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(idp IdentityProvider, userRepo repository.UserRepository, metrics MetricsRecorder, config ServiceConfig) *Service {
	adminIDs := make(map[string]struct{}, len(config.AdminClerkIDs))
	for _, id := range config.AdminClerkIDs {
		adminIDs[id] = struct{}{}
	}
	return &Service{
		idp:      idp,
		userRepo: userRepo,
		metrics:  metrics,
		adminIDs: adminIDs,
	}
}

// recordResolveFailure は解決失敗を理由別にメトリクスへ記録する。
func (s *Service) recordResolveFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordIdentityResolveFailure(reason)
	}
}

// IsAllowlistedAdmin はIdPユーザーIDが管理者リストに含まれるかを返す。
func (s *Service) IsAllowlistedAdmin(clerkID string) bool {
	_, ok := s.adminIDs[clerkID]
	return ok
}

// Resolve はセッショントークンからローカルユーザーを解決する。
// 失敗はすべて匿名（nil）への縮退として扱い、エラーを返さない。
// リクエスト自体を失敗させるのは後段の権限チェックの役割。
//
// トークンが空・無効な場合はnilを返す。
// ローカルに既存ユーザーがいればそれを返す。
// 初見のユーザーはIdPからプロフィールを取得してローカルに作成する。
// プロフィール取得や作成に失敗した場合もnilを返し、ログに記録する。
func (s *Service) Resolve(ctx context.Context, token string) *model.User {
	if token == "" {
		return nil
	}

	clerkID, err := s.idp.VerifyToken(ctx, token)
	if err != nil {
		slog.Warn("token verification failed", slog.String("error", err.Error()))
		s.recordResolveFailure("verify_token")
		return nil
	}

	user, err := s.userRepo.FindByClerkID(ctx, clerkID)
	if err != nil {
		slog.Error("failed to find user by clerk ID",
			slog.String("clerk_id", clerkID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if user != nil {
		return user
	}

	// 初見のユーザー: IdPからプロフィールを取得してローカルに作成する
	return s.createFromProfile(ctx, clerkID)
}

// createFromProfile はIdPのプロフィールからローカルユーザーを作成する。
// 同時リクエストとの作成競合（clerk_idの一意制約違反）は、
// 競り勝った側のレコードを読み直して返すことで解決する。
func (s *Service) createFromProfile(ctx context.Context, clerkID string) *model.User {
	profile, err := s.idp.GetProfile(ctx, clerkID)
	if err != nil {
		slog.Warn("failed to fetch profile from identity provider",
			slog.String("clerk_id", clerkID),
			slog.String("error", err.Error()),
		)
		s.recordResolveFailure("get_profile")
		return nil
	}

	role := model.RoleUser
	if s.IsAllowlistedAdmin(clerkID) {
		role = model.RoleAdmin
	}

	now := time.Now()
	newUser := &model.User{
		ID:           uuid.New().String(),
		ClerkID:      clerkID,
		Role:         role,
		Name:         profile.DisplayName(),
		Email:        profile.PrimaryEmail(),
		ProfileImage: profile.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if repository.IsUniqueViolation(err) {
			// 同時リクエストが先に作成した。既存レコードを返す。
			existing, findErr := s.userRepo.FindByClerkID(ctx, clerkID)
			if findErr != nil {
				slog.Error("failed to re-read user after create race",
					slog.String("clerk_id", clerkID),
					slog.String("error", findErr.Error()),
				)
				return nil
			}
			return existing
		}
		slog.Error("failed to create user",
			slog.String("clerk_id", clerkID),
			slog.String("error", err.Error()),
		)
		s.recordResolveFailure("create_user")
		return nil
	}

	slog.Info("new user created",
		slog.String("user_id", newUser.ID),
		slog.String("clerk_id", clerkID),
		slog.String("role", string(role)),
	)

	return newUser
}

// EnsureAdmin は管理者権限を要求するゲート。
// 未認証（nil）の場合はUNAUTHORIZED、権限不足の場合はFORBIDDENを返す。
// ロールはadminでないが管理者リストに含まれるユーザーは、
// 処理を通す前にロールをadminへ同期的に昇格して永続化する。
// 昇格は一方向で、リストから外れても降格はしない。
func (s *Service) EnsureAdmin(ctx context.Context, user *model.User) error {
	if user == nil {
		return model.NewUnauthorizedError()
	}

	if user.IsAdmin() {
		return nil
	}

	if !s.IsAllowlistedAdmin(user.ClerkID) {
		return model.NewForbiddenError(user.Role, user.ID)
	}

	// リスト掲載による昇格。永続化に失敗した場合は処理を通さない。
	if err := s.userRepo.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return fmt.Errorf("failed to promote user to admin: %w", err)
	}
	user.Role = model.RoleAdmin

	slog.Info("user promoted to admin",
		slog.String("user_id", user.ID),
		slog.String("clerk_id", user.ClerkID),
	)

	return nil
}
