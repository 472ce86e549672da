// Package adapters はinsightフィーチャーのテキスト生成バックエンド共通の定義を提供します。
package adapters

import (
	"errors"
	"fmt"

	"stock_insight/internal/feature/insight/domain/entity"
)

// FallbackMessage はバックエンド障害時に生成結果の代わりに返す固定文言です。
const FallbackMessage = "Answer generation is temporarily unavailable. Please try again later."

var (
	// ErrNoMessages は空のメッセージ列で呼び出されたことを示します。
	ErrNoMessages = errors.New("no messages to send")
	// ErrUnknownRole は未対応のロールを持つメッセージが含まれていたことを示します。
	ErrUnknownRole = errors.New("unknown message role")
)

// ValidateMessages は送信前のメッセージ列を検査します。
// ここで返るエラーは呼び出し側の誤用であり、フォールバックには変換されません。
func ValidateMessages(messages []entity.ChatMessage) error {
	if len(messages) == 0 {
		return ErrNoMessages
	}
	for i, m := range messages {
		switch m.Role {
		case entity.RoleSystem, entity.RoleUser:
		default:
			return fmt.Errorf("message %d: %w: %q", i, ErrUnknownRole, m.Role)
		}
	}
	return nil
}
