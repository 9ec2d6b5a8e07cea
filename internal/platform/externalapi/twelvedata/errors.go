package twelvedata

import "errors"

var (
	// ErrNoAPIKey はAPIキーが設定されていないことを示します。この場合ネットワークには出ません。
	ErrNoAPIKey = errors.New("twelvedata: api key is not set")
	// ErrEmptyResult は有効な値が1件も得られなかったことを示します。
	ErrEmptyResult = errors.New("twelvedata: empty result")
	// ErrProviderStatus はHTTPステータスまたはレスポンス本文がエラーを示したことを表します。
	ErrProviderStatus = errors.New("twelvedata: provider error")
)
