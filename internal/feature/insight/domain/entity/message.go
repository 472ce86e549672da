// Package entity はinsightフィーチャーのドメインモデルを定義します。
package entity

// Role はチャットメッセージの送信者種別です。
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// ChatMessage はテキスト生成バックエンドへ送るメッセージ1件を表します。
type ChatMessage struct {
	Role    Role
	Content string
}

// AnalysisRequest は1回の分析呼び出しの入力です。永続化されません。
// LatestNewsURLs はカンマ区切りまたは自由記述のニュース参照です。
type AnalysisRequest struct {
	CompanyName    string
	LatestNewsURLs string
}
