// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jobhub/jobhub/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに解決済みユーザーを格納するためのキー。
var userContextKey = contextKey("user")

// TokenResolver はセッショントークンをローカルユーザーに解決するインターフェース。
// auth.Serviceが実装する。
type TokenResolver interface {
	// Resolve はトークンからユーザーを解決する。
	// 解決できない場合はnilを返す（エラーにはしない）。
	Resolve(ctx context.Context, token string) *model.User
}

// NewIdentityMiddleware はAuthorizationヘッダーのBearerトークンを解決し、
// ユーザーをリクエストコンテキストに注入するミドルウェアを返す。
//
// このミドルウェアはリクエストを拒否しない。トークンがない・無効・
// IdPに到達できない等の場合はユーザーなし（匿名）として後段へ進める。
// 認証の要求は各ハンドラーと権限ゲートの責務。
func NewIdentityMiddleware(resolver TokenResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)

			user := resolver.Resolve(r.Context(), token)
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
// ヘッダーがない、またはBearer形式でない場合は空文字列を返す。
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// UserFromContext はリクエストコンテキストから解決済みユーザーを取得する。
// 匿名リクエストの場合はnilを返す。
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 匿名リクエストの場合はエラーを返す。
func UserIDFromContext(ctx context.Context) (string, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return "", fmt.Errorf("user not found in context")
	}
	return user.ID, nil
}

// ContextWithUser はコンテキストにユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
