// Package http はテキスト生成バックエンド呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient はLLM APIの呼び出しに使うHTTPクライアントを作成します。
// SDKの既定クライアントの代わりに渡し、リクエスト全体の上限をtimeoutで固定します。
// timeoutが0以下の場合は60秒です。
//
// 生成には数十秒かかることがあるため、応答ヘッダー待ちはtimeoutに任せ、
// 接続確立とTLSハンドシェイクだけを短く制限します。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
