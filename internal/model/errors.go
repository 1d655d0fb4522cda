// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError はクライアントに返すドメインエラーを表す。
// Messageはレスポンスのmessagesにそのまま載るため、内部情報を含めないこと。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアント向けメッセージ
	Category string // カテゴリ: auth, validation, drink, system
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidRequest          = "INVALID_REQUEST"
	ErrCodeInvalidPhoneNumber      = "INVALID_PHONE_NUMBER"
	ErrCodeInvalidCountryCode      = "INVALID_COUNTRY_CODE"
	ErrCodeMissingVerificationCode = "MISSING_VERIFICATION_CODE"
	ErrCodeInvalidVerificationCode = "INVALID_VERIFICATION_CODE"
	ErrCodeVerificationFailed      = "VERIFICATION_FAILED"
	ErrCodeVerificationNotStarted  = "VERIFICATION_NOT_STARTED"
	ErrCodeUnauthorized            = "UNAUTHORIZED"
	ErrCodeDrinkNotFound           = "DRINK_NOT_FOUND"
	ErrCodeInvalidDrink            = "INVALID_DRINK"
	ErrCodeEmptySearchQuery        = "EMPTY_SEARCH_QUERY"
	ErrCodeServiceUnavailable      = "SERVICE_UNAVAILABLE"
	ErrCodeInternal                = "INTERNAL_ERROR"
)

// NewInvalidRequestError はリクエストの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Unable to parse the request",
		Category: "validation",
	}
}

// NewInvalidPhoneNumberError は電話番号の形式エラーを生成する。
func NewInvalidPhoneNumberError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPhoneNumber,
		Message:  "Invalid phone number",
		Category: "validation",
	}
}

// NewInvalidCountryCodeError は国番号の形式エラーを生成する。
func NewInvalidCountryCodeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCountryCode,
		Message:  "Invalid country code",
		Category: "validation",
	}
}

// NewMissingVerificationCodeError は検証コード未入力エラーを生成する。
func NewMissingVerificationCodeError() *APIError {
	return &APIError{
		Code:     ErrCodeMissingVerificationCode,
		Message:  "Missing verification code!",
		Category: "validation",
	}
}

// NewInvalidVerificationCodeError は検証コード不一致エラーを生成する。
func NewInvalidVerificationCodeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidVerificationCode,
		Message:  "Invalid verification code",
		Category: "auth",
	}
}

// NewVerificationFailedError はプロバイダーが検証を拒否した場合のエラーを生成する。
func NewVerificationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeVerificationFailed,
		Message:  "Unable to verify the code",
		Category: "auth",
	}
}

// NewVerificationNotStartedError はSMS送信開始に失敗した場合のエラーを生成する。
func NewVerificationNotStartedError() *APIError {
	return &APIError{
		Code:     ErrCodeVerificationNotStarted,
		Message:  "That phone number didn't work :(",
		Category: "auth",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Authentication required",
		Category: "auth",
	}
}

// NewDrinkNotFoundError は飲酒記録が見つからない場合のエラーを生成する。
// 他人の記録であっても存在を明かさないため同じエラーを返す。
func NewDrinkNotFoundError(drinkID string) *APIError {
	return &APIError{
		Code:     ErrCodeDrinkNotFound,
		Message:  fmt.Sprintf("Drink not found: %s", drinkID),
		Category: "drink",
	}
}

// NewInvalidDrinkError は飲酒記録の入力値エラーを生成する。
func NewInvalidDrinkError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDrink,
		Message:  reason,
		Category: "validation",
	}
}

// NewEmptySearchQueryError は空の検索クエリエラーを生成する。
func NewEmptySearchQueryError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptySearchQuery,
		Message:  "Empty search query",
		Category: "validation",
	}
}

// NewServiceUnavailableError はDB接続プール枯渇などの一時的な障害エラーを生成する。
func NewServiceUnavailableError() *APIError {
	return &APIError{
		Code:     ErrCodeServiceUnavailable,
		Message:  "Service temporarily unavailable",
		Category: "system",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログにのみ記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "Internal server error",
		Category: "system",
	}
}
