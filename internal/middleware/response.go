package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/mugclub/internal/model"
)

// ResponseStatus はレスポンスエンベロープのstatus値。
type ResponseStatus string

const (
	// StatusSuccess はリクエストが成功したことを示す。
	StatusSuccess ResponseStatus = "success"
	// StatusFail はクライアント側の問題（4xx）を示す。
	StatusFail ResponseStatus = "fail"
	// StatusError はサーバー側の問題（5xx）を示す。
	StatusError ResponseStatus = "error"
)

// Envelope は全APIレスポンスの統一フォーマット。
type Envelope struct {
	Status   ResponseStatus `json:"status"`
	Data     any            `json:"data,omitempty"`
	Messages []string       `json:"messages,omitempty"`
}

// WriteJSON はエンベロープをJSONで書き込む。
func WriteJSON(w http.ResponseWriter, statusCode int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// WriteSuccess は200のsuccessレスポンスを書き込む。
func WriteSuccess(w http.ResponseWriter, data any, messages ...string) {
	WriteJSON(w, http.StatusOK, Envelope{
		Status:   StatusSuccess,
		Data:     data,
		Messages: messages,
	})
}

// WriteAPIError はドメインエラーをエンベロープで書き込む。
// 5xxはerror、それ以外はfailになる。
func WriteAPIError(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	WriteJSON(w, statusCode, Envelope{
		Status:   statusFor(statusCode),
		Messages: []string{apiErr.Message},
	})
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteAPIError(w, http.StatusInternalServerError, model.NewInternalError())
}

func statusFor(statusCode int) ResponseStatus {
	switch {
	case statusCode >= 500:
		return StatusError
	case statusCode >= 400:
		return StatusFail
	default:
		return StatusSuccess
	}
}
