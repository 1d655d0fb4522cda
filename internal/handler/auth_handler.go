// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/mugclub/internal/auth"
	"github.com/hitoshi/mugclub/internal/middleware"
	"github.com/hitoshi/mugclub/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	BeginVerification(ctx context.Context, countryCode, phoneNumber string) (string, error)
	CompleteVerification(ctx context.Context, countryCode, phoneNumber, code string) (*model.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler はSMS認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// Begin は電話番号宛てに検証コードのSMS送信を開始する。
// POST /auth
func (h *AuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	message, err := h.service.BeginVerification(r.Context(),
		r.PostForm.Get("country_code"),
		r.PostForm.Get("phone_number"),
	)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteSuccess(w, nil, message)
}

// Verify は検証コードを照合し、成功した場合はセッションを返す。
// POST /auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	session, err := h.service.CompleteVerification(r.Context(),
		r.PostForm.Get("country_code"),
		r.PostForm.Get("phone_number"),
		r.PostForm.Get("code"),
	)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	middleware.WriteSuccess(w, session)
}

// Test は認証済みPersonのIDを返す。
// GET /auth/test
func (h *AuthHandler) Test(w http.ResponseWriter, r *http.Request) {
	person := requirePerson(w, r)
	if person == nil {
		return
	}

	middleware.WriteSuccess(w, messageResponse{
		Message: fmt.Sprintf("Hello person %s", person.ID),
	})
}

// Logout は呼び出し元のセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if requirePerson(w, r) == nil {
		return
	}

	err := h.service.Logout(r.Context(), middleware.BearerToken(r))
	switch {
	case err == nil:
		middleware.WriteSuccess(w, nil)
	case errors.Is(err, auth.ErrSessionNotFound):
		middleware.WriteAPIError(w, http.StatusUnauthorized, model.NewUnauthorizedError())
	default:
		slog.Error("failed to logout", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
	}
}
