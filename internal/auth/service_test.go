package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/jobhub/jobhub/internal/clerk"
	"github.com/jobhub/jobhub/internal/model"
	"github.com/lib/pq"
)

// mockIdentityProvider はIdentityProviderのモック実装。
type mockIdentityProvider struct {
	verifyTokenFunc func(ctx context.Context, token string) (string, error)
	getProfileFunc  func(ctx context.Context, externalID string) (*clerk.Profile, error)
}

func (m *mockIdentityProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	return m.verifyTokenFunc(ctx, token)
}

func (m *mockIdentityProvider) GetProfile(ctx context.Context, externalID string) (*clerk.Profile, error) {
	return m.getProfileFunc(ctx, externalID)
}

// mockUserRepo はrepository.UserRepositoryのモック実装。
type mockUserRepo struct {
	findByIDFunc      func(ctx context.Context, id string) (*model.User, error)
	findByClerkIDFunc func(ctx context.Context, clerkID string) (*model.User, error)
	createFunc        func(ctx context.Context, user *model.User) error
	updateRoleFunc    func(ctx context.Context, id string, role model.Role) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByClerkID(ctx context.Context, clerkID string) (*model.User, error) {
	return m.findByClerkIDFunc(ctx, clerkID)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	if m.updateRoleFunc != nil {
		return m.updateRoleFunc(ctx, id, role)
	}
	return nil
}

// recordingMetrics は解決失敗メトリクスの記録を捕捉する。
type recordingMetrics struct {
	reasons []string
}

func (r *recordingMetrics) RecordIdentityResolveFailure(reason string) {
	r.reasons = append(r.reasons, reason)
}

func TestResolve_EmptyToken(t *testing.T) {
	svc := NewService(&mockIdentityProvider{}, &mockUserRepo{}, nil, ServiceConfig{})

	user := svc.Resolve(context.Background(), "")
	if user != nil {
		t.Errorf("Resolve with empty token = %v, want nil", user)
	}
}

func TestResolve_InvalidToken(t *testing.T) {
	idp := &mockIdentityProvider{
		verifyTokenFunc: func(ctx context.Context, token string) (string, error) {
			return "", errors.New("token verification failed with status 401")
		},
	}
	metrics := &recordingMetrics{}
	svc := NewService(idp, &mockUserRepo{}, metrics, ServiceConfig{})

	user := svc.Resolve(context.Background(), "invalid_token")
	if user != nil {
		t.Errorf("Resolve with invalid token = %v, want nil", user)
	}
	if len(metrics.reasons) != 1 || metrics.reasons[0] != "verify_token" {
		t.Errorf("recorded reasons = %v, want [verify_token]", metrics.reasons)
	}
}

func TestResolve_ExistingUser(t *testing.T) {
	existing := &model.User{ID: "u-1", ClerkID: "user_abc", Role: model.RoleUser, Name: "Taro"}

	idp := &mockIdentityProvider{
		verifyTokenFunc: func(ctx context.Context, token string) (string, error) {
			return "user_abc", nil
		},
	}
	repo := &mockUserRepo{
		findByClerkIDFunc: func(ctx context.Context, clerkID string) (*model.User, error) {
			if clerkID != "user_abc" {
				t.Errorf("FindByClerkID called with %q, want %q", clerkID, "user_abc")
			}
			return existing, nil
		},
	}
	svc := NewService(idp, repo, nil, ServiceConfig{})

	user := svc.Resolve(context.Background(), "valid_token")
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != "u-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "u-1")
	}
}

func TestResolve_FirstLogin_CreatesUser(t *testing.T) {
	var created *model.User

	idp := &mockIdentityProvider{
		verifyTokenFunc: func(ctx context.Context, token string) (string, error) {
			return "user_new", nil
		},
		getProfileFunc: func(ctx context.Context, externalID string) (*clerk.Profile, error) {
			return &clerk.Profile{
				ID:             "user_new",
				FirstName:      "Hanako",
				LastName:       "Suzuki",
				EmailAddresses: []string{"hanako@example.com"},
				ImageURL:       "https://img.clerk.com/hanako.png",
			}, nil
		},
	}
	repo := &mockUserRepo{
		findByClerkIDFunc: func(ctx context.Context, clerkID string) (*model.User, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := NewService(idp, repo, nil, ServiceConfig{})

	user := svc.Resolve(context.Background(), "valid_token")
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if created == nil {
		t.Fatal("Create was not called")
	}
	if user.ClerkID != "user_new" {
		t.Errorf("ClerkID = %q, want %q", user.ClerkID, "user_new")
	}
	if user.Name != "Hanako Suzuki" {
		t.Errorf("Name = %q, want %q", user.Name, "Hanako Suzuki")
	}
	if user.Email != "hanako@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "hanako@example.com")
	}
	if user.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleUser)
	}
	if user.ID == "" {
		t.Error("ID should be generated")
	}
}

func TestResolve_FirstLogin_AllowlistedAdmin(t *testing.T) {
	idp := &mockIdentityProvider{
		verifyTokenFunc: func(ctx context.Context, token string) (string, error) {
			return "user_admin", nil
		},
		getProfileFunc: func(ctx context.Context, externalID string) (*clerk.Profile, error) {
			return &clerk.Profile{ID: "user_admin", Username: "admin"}, nil
		},
	}
	repo := &mockUserRepo{
		findByClerkIDFunc: func(ctx context.Context, clerkID string) (*model.User, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, user *model.User) error {
			return nil
		},
	}
	svc := NewService(idp, repo, nil, ServiceConfig{AdminClerkIDs: []string{"user_admin"}})

	user := svc.Resolve(context.Background(), "valid_token")
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleAdmin)
	}
}

func TestResolve_ProfileFetchFailure(t *testing.T) {
	idp := &mockIdentityProvider{
		verifyTokenFunc: func(ctx context.Context, token string) (string, error) {
			return "user_new", nil
		},
		getProfileFunc: func(ctx context.Context, externalID string) (*clerk.Profile, error) {
			return nil, errors.New("profile fetch failed with status 500")
		},
	}
	repo := &mockUserRepo{
		findByClerkIDFunc: func(ctx context.Context, clerkID string) (*model.User, error) {
			return nil, nil
		},
	}
	metrics := &recordingMetrics{}
	svc := NewService(idp, repo, metrics, ServiceConfig{})

	user := svc.Resolve(context.Background(), "valid_token")
	if user != nil {
		t.Errorf("expected nil on profile fetch failure, got %v", user)
	}
	if len(metrics.reasons) != 1 || metrics.reasons[0] != "get_profile" {
		t.Errorf("recorded reasons = %v, want [get_profile]", metrics.reasons)
	}
}

func TestResolve_CreateRace_ReturnsExisting(t *testing.T) {
	winner := &model.User{ID: "u-winner", ClerkID: "user_race", Role: model.RoleUser}
	findCalls := 0

	idp := &mockIdentityProvider{
		verifyTokenFunc: func(ctx context.Context, token string) (string, error) {
			return "user_race", nil
		},
		getProfileFunc: func(ctx context.Context, externalID string) (*clerk.Profile, error) {
			return &clerk.Profile{ID: "user_race"}, nil
		},
	}
	repo := &mockUserRepo{
		findByClerkIDFunc: func(ctx context.Context, clerkID string) (*model.User, error) {
			findCalls++
			if findCalls == 1 {
				// 初回検索時点では未作成
				return nil, nil
			}
			// 競合後の再読み込みでは競り勝った側のレコードが見える
			return winner, nil
		},
		createFunc: func(ctx context.Context, user *model.User) error {
			return &pq.Error{Code: "23505"}
		},
	}
	svc := NewService(idp, repo, nil, ServiceConfig{})

	user := svc.Resolve(context.Background(), "valid_token")
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != "u-winner" {
		t.Errorf("user.ID = %q, want %q", user.ID, "u-winner")
	}
}

func TestResolve_CreateFailure(t *testing.T) {
	idp := &mockIdentityProvider{
		verifyTokenFunc: func(ctx context.Context, token string) (string, error) {
			return "user_new", nil
		},
		getProfileFunc: func(ctx context.Context, externalID string) (*clerk.Profile, error) {
			return &clerk.Profile{ID: "user_new"}, nil
		},
	}
	repo := &mockUserRepo{
		findByClerkIDFunc: func(ctx context.Context, clerkID string) (*model.User, error) {
			return nil, nil
		},
		createFunc: func(ctx context.Context, user *model.User) error {
			return errors.New("connection refused")
		},
	}
	metrics := &recordingMetrics{}
	svc := NewService(idp, repo, metrics, ServiceConfig{})

	user := svc.Resolve(context.Background(), "valid_token")
	if user != nil {
		t.Errorf("expected nil on create failure, got %v", user)
	}
	if len(metrics.reasons) != 1 || metrics.reasons[0] != "create_user" {
		t.Errorf("recorded reasons = %v, want [create_user]", metrics.reasons)
	}
}

func TestEnsureAdmin_NilUser(t *testing.T) {
	svc := NewService(&mockIdentityProvider{}, &mockUserRepo{}, nil, ServiceConfig{})

	err := svc.EnsureAdmin(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for nil user, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeUnauthorized {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUnauthorized)
	}
}

func TestEnsureAdmin_AdminRole(t *testing.T) {
	svc := NewService(&mockIdentityProvider{}, &mockUserRepo{}, nil, ServiceConfig{})

	admin := &model.User{ID: "u-1", Role: model.RoleAdmin}
	if err := svc.EnsureAdmin(context.Background(), admin); err != nil {
		t.Errorf("EnsureAdmin for admin = %v, want nil", err)
	}
}

func TestEnsureAdmin_NonAdminNotAllowlisted(t *testing.T) {
	svc := NewService(&mockIdentityProvider{}, &mockUserRepo{}, nil, ServiceConfig{})

	user := &model.User{ID: "u-1", ClerkID: "user_plain", Role: model.RoleUser}
	err := svc.EnsureAdmin(context.Background(), user)
	if err == nil {
		t.Fatal("expected error for non-admin, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeForbidden {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeForbidden)
	}
}

func TestEnsureAdmin_AllowlistedPromotion(t *testing.T) {
	var promotedID string
	var promotedRole model.Role

	repo := &mockUserRepo{
		updateRoleFunc: func(ctx context.Context, id string, role model.Role) error {
			promotedID = id
			promotedRole = role
			return nil
		},
	}
	svc := NewService(&mockIdentityProvider{}, repo, nil, ServiceConfig{AdminClerkIDs: []string{"user_listed"}})

	user := &model.User{ID: "u-1", ClerkID: "user_listed", Role: model.RoleUser}
	if err := svc.EnsureAdmin(context.Background(), user); err != nil {
		t.Fatalf("EnsureAdmin = %v, want nil", err)
	}

	if promotedID != "u-1" {
		t.Errorf("UpdateRole id = %q, want %q", promotedID, "u-1")
	}
	if promotedRole != model.RoleAdmin {
		t.Errorf("UpdateRole role = %q, want %q", promotedRole, model.RoleAdmin)
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("user.Role after promotion = %q, want %q", user.Role, model.RoleAdmin)
	}
}

func TestEnsureAdmin_PromotionPersistFailure(t *testing.T) {
	repo := &mockUserRepo{
		updateRoleFunc: func(ctx context.Context, id string, role model.Role) error {
			return errors.New("connection refused")
		},
	}
	svc := NewService(&mockIdentityProvider{}, repo, nil, ServiceConfig{AdminClerkIDs: []string{"user_listed"}})

	user := &model.User{ID: "u-1", ClerkID: "user_listed", Role: model.RoleUser}
	err := svc.EnsureAdmin(context.Background(), user)
	if err == nil {
		t.Fatal("expected error when promotion persistence fails, got nil")
	}
	if user.Role == model.RoleAdmin {
		t.Error("user.Role should not be admin when persistence failed")
	}
}

func TestIsAllowlistedAdmin(t *testing.T) {
	svc := NewService(&mockIdentityProvider{}, &mockUserRepo{}, nil, ServiceConfig{
		AdminClerkIDs: []string{"user_a", "user_b"},
	})

	if !svc.IsAllowlistedAdmin("user_a") {
		t.Error("IsAllowlistedAdmin(user_a) = false, want true")
	}
	if svc.IsAllowlistedAdmin("user_c") {
		t.Error("IsAllowlistedAdmin(user_c) = true, want false")
	}
}
