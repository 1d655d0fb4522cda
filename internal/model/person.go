// Package model はドメインモデルを定義する。
package model

import "time"

// Person はサービス利用者を表す。
// 個人情報は保持せず、不透明なIDのみで識別する。
type Person struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity は検証済み電話番号とPersonの紐付けを表す。
// Identifierは国番号と電話番号の数字のみを連結したもの。
type Identity struct {
	Identifier string    `json:"identifier"`
	PersonID   string    `json:"person_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Session はPersonのログインセッションを表す。
// IDはAuthorizationヘッダーで送られるBearerトークンそのもの。
type Session struct {
	ID        string    `json:"id"`
	PersonID  string    `json:"person_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired はセッションが指定時刻の時点で期限切れかどうかを返す。
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
