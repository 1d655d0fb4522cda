package handler

import (
	"net/http"

	"github.com/hitoshi/mugclub/internal/middleware"
)

// messageResponse はメッセージのみを返すレスポンスのdata。
type messageResponse struct {
	Message string `json:"message"`
}

// Index は疎通確認用の挨拶を返す。
// GET /
func Index(w http.ResponseWriter, r *http.Request) {
	middleware.WriteSuccess(w, messageResponse{Message: "Hello world!"})
}

// Wakeup はコールドスタートしたプロセスを起こすためのエンドポイント。副作用は無い。
// GET /wakeup
func Wakeup(w http.ResponseWriter, r *http.Request) {
	middleware.WriteSuccess(w, nil)
}
