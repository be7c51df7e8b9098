// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザー投稿のコメント本文をサニタイズし、
// XSS攻撃などのセキュリティリスクから閲覧者を保護する。
// コメントはプレーンテキストとして扱うため、bluemondayの
// StrictPolicyで全てのHTMLタグと属性を除去する。
package security

import "github.com/microcosm-cc/bluemonday"

// ContentSanitizerService はコメント本文のサニタイズ機能のインターフェースを定義する。
// コメント保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力から全てのHTMLタグと属性を除去したテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// コメントにHTMLを許可しないため、StrictPolicy（全タグ除去）を使用する。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力から全てのHTMLタグと属性を除去したテキストを返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
