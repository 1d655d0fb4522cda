// Package security はアプリケーションのセキュリティ機能を提供する。
//
// CommentSanitizer は飲酒記録のコメントからHTMLマークアップを取り除き、
// プレーンテキストとして保存できる形にする。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// CommentSanitizerService はコメントのサニタイズ機能のインターフェース。
type CommentSanitizerService interface {
	// Sanitize は全てのタグを除去したプレーンテキストを返す。
	// script, styleタグは中身ごと除去される。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// CommentSanitizer はCommentSanitizerServiceの実装。
// bluemondayのポリシーはスレッドセーフなので共有して使う。
type CommentSanitizer struct {
	policy *bluemonday.Policy
}

// NewCommentSanitizer はCommentSanitizerを生成する。
// 許可タグを持たないStrictPolicyを使う。
func NewCommentSanitizer() *CommentSanitizer {
	return &CommentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// maxSanitizePasses は除去と復元を繰り返す上限回数。
const maxSanitizePasses = 8

// Sanitize はコメントからマークアップを除去する。
// エンティティを元の文字に戻すとタグが現れる場合があるため、
// 除去と復元を出力が変わらなくなるまで繰り返す。
// 上限までに収束しない場合はエスケープされたままのテキストを返す。
func (s *CommentSanitizer) Sanitize(raw string) string {
	current := raw
	for i := 0; i < maxSanitizePasses; i++ {
		next := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(current)))
		if next == current {
			return next
		}
		current = next
	}
	return strings.TrimSpace(s.policy.Sanitize(current))
}

// compile-time interface check
var _ CommentSanitizerService = (*CommentSanitizer)(nil)
