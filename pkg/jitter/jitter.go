// Package jitter предоставляет утилиты для расчёта интервалов отступления (backoff)
// со случайной добавкой, чтобы избежать синхронных повторов к внешним сервисам.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает продолжительность с применённым джиттером.
// Результат находится в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	if d <= 0 || jitterFactor <= 0 {
		return d
	}

	return d + time.Duration(rand.Float64()*jitterFactor*float64(d))
}

// ExponentialBackoff вычисляет экспоненциальное отступление с джиттером.
// base — начальная длительность, max — потолок, attempt — номер попытки с нуля.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			backoff = max
			break
		}
	}

	return Duration(backoff, jitterFactor)
}
