// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/mugclub/internal/auth"
	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/model"
)

const bearerScheme = "Bearer"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// personContextKey はリクエストコンテキストに認証済みPersonを格納するためのキー。
var personContextKey = contextKey("person")

// PersonResolver はセッショントークンから呼び出し元のPersonを解決する。
// auth.Serviceが満たす。
type PersonResolver interface {
	ResolvePerson(ctx context.Context, token string) (*model.Person, error)
}

// BearerToken はAuthorizationヘッダーからセッショントークンを取り出す。
// "Bearer "プレフィックスは任意。
func BearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	n := len(bearerScheme)
	if len(token) >= n && strings.EqualFold(token[:n], bearerScheme) && (len(token) == n || token[n] == ' ') {
		token = strings.TrimSpace(token[n:])
	}
	return token
}

// NewSessionMiddleware はAuthorizationヘッダーのトークンからPersonを解決し、
// リクエストコンテキストに注入するミドルウェアを返す。
// トークンが無い・無効な場合は401、接続プールの枯渇は503、その他は500を返す。
func NewSessionMiddleware(resolver PersonResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				WriteAPIError(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			person, err := resolver.ResolvePerson(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrSessionNotFound):
				WriteAPIError(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			case database.IsPoolError(err):
				slog.Error("no database connection available for session lookup",
					slog.String("error", err.Error()),
				)
				WriteAPIError(w, http.StatusServiceUnavailable, model.NewServiceUnavailableError())
				return
			default:
				slog.Error("failed to resolve session",
					slog.String("error", err.Error()),
				)
				WriteInternalServerError(w)
				return
			}

			setLogPersonID(r.Context(), person.ID)
			next.ServeHTTP(w, r.WithContext(ContextWithPerson(r.Context(), person)))
		})
	}
}

// PersonFromContext はリクエストコンテキストから認証済みPersonを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func PersonFromContext(ctx context.Context) (*model.Person, error) {
	person, ok := ctx.Value(personContextKey).(*model.Person)
	if !ok || person == nil {
		return nil, fmt.Errorf("person not found in context")
	}
	return person, nil
}

// ContextWithPerson はコンテキストにPersonを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPerson(ctx context.Context, person *model.Person) context.Context {
	return context.WithValue(ctx, personContextKey, person)
}
