package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobhub/jobhub/internal/middleware"
	"github.com/jobhub/jobhub/internal/model"
)

// mockAdminGate はAdminGateのモック実装。
// EnsureAdminFuncが未設定の場合は、nilユーザーを401、adminロールを許可、
// それ以外を403にする標準的な挙動をとる。
type mockAdminGate struct {
	ensureAdminFunc func(ctx context.Context, user *model.User) error
}

func (m *mockAdminGate) EnsureAdmin(ctx context.Context, user *model.User) error {
	if m.ensureAdminFunc != nil {
		return m.ensureAdminFunc(ctx, user)
	}
	if user == nil {
		return model.NewUnauthorizedError()
	}
	if !user.IsAdmin() {
		return model.NewForbiddenError(user.Role, user.ID)
	}
	return nil
}

// testUser は一般ユーザーを返す。
func testUser() *model.User {
	return &model.User{
		ID:           "u-1",
		ClerkID:      "user_abc",
		Role:         model.RoleUser,
		Name:         "Taro Yamada",
		Email:        "taro@example.com",
		ProfileImage: "https://img.clerk.com/taro.png",
	}
}

// adminUser は管理者ユーザーを返す。
func adminUser() *model.User {
	return &model.User{
		ID:      "u-admin",
		ClerkID: "user_admin",
		Role:    model.RoleAdmin,
		Name:    "Admin",
	}
}

// withUser はリクエストのコンテキストにユーザーを注入する。
func withUser(req *http.Request, user *model.User) *http.Request {
	if user == nil {
		return req
	}
	return req.WithContext(middleware.ContextWithUser(req.Context(), user))
}

// decodeErrorResponse はエラーレスポンスのボディをデコードする。
func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) apiErrorResponse {
	t.Helper()
	var body apiErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error response: %v\nraw: %s", err, w.Body.String())
	}
	return body
}
