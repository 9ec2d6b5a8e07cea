package yahoo

import "errors"

var (
	// ErrEmptyResult は有効な値が1件も得られなかったことを示します。
	ErrEmptyResult = errors.New("yahoo: empty result")
	// ErrProviderStatus はHTTPステータスまたはchart.errorがエラーを示したことを表します。
	ErrProviderStatus = errors.New("yahoo: provider error")
)
