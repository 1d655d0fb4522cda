package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/mugclub/internal/middleware"
	"github.com/hitoshi/mugclub/internal/model"
)

// maxFormBytes はフォームボディの上限サイズ。
const maxFormBytes = 64 << 10

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
// APIError以外のエラーは内容をログにのみ記録し、500を返す。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if apiErr.Code == model.ErrCodeVerificationNotStarted {
			// SMS送信失敗は400だがstatusはerrorで返す
			middleware.WriteJSON(w, statusCode, middleware.Envelope{
				Status:   middleware.StatusError,
				Messages: []string{apiErr.Message},
			})
			return
		}
		middleware.WriteAPIError(w, statusCode, apiErr)
		return
	}

	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidRequest,
		model.ErrCodeInvalidPhoneNumber,
		model.ErrCodeInvalidCountryCode,
		model.ErrCodeMissingVerificationCode,
		model.ErrCodeVerificationNotStarted,
		model.ErrCodeInvalidDrink,
		model.ErrCodeEmptySearchQuery:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidVerificationCode, model.ErrCodeVerificationFailed:
		return http.StatusForbidden
	case model.ErrCodeDrinkNotFound:
		return http.StatusNotFound
	case model.ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseForm はフォームボディを解析する。失敗時は400を書き込みfalseを返す。
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		slog.Info("failed to parse form", slog.String("error", err.Error()))
		middleware.WriteAPIError(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return false
	}
	return true
}

// requirePerson はコンテキストから認証済みPersonを取り出す。
// 存在しない場合は401を書き込みnilを返す。
func requirePerson(w http.ResponseWriter, r *http.Request) *model.Person {
	person, err := middleware.PersonFromContext(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return nil
	}
	return person
}
