// Package entity defines the domain models for the fairvalue feature.
package entity

import (
	"encoding/json"
	"math"
)

// Optional は存在しない可能性のある値を表します。ゼロ値は「値なし」です。
// 欠損を 0 などの番兵値で表さないために、すべてのレイヤーでこの型を使います。
type Optional[T any] struct {
	value T
	ok    bool
}

// Some は値ありのOptionalを返します。
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None は値なしのOptionalを返します。
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get は値と、値が存在するかどうかを返します。
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent は値が存在する場合にtrueを返します。
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// MarshalJSON は値なしをnullとして出力します。
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// Finite は有限の値のみをSomeとして返します。NaN/±InfはNoneになります。
func Finite(v float64) Optional[float64] {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None[float64]()
	}
	return Some(v)
}
