package usecase

import "errors"

// ErrAnalysisFailed はプロンプト構築または生成の委譲に失敗したことを示します。
// 元のエラーは呼び出し元へ返さずログにのみ出力します。
var ErrAnalysisFailed = errors.New("failed to analyze stock data")
