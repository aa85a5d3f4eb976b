// Package jitter добавляет случайность в задержки между повторами,
// чтобы переподключения и повторные удаления не шли синхронной волной.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает d, увеличенную на случайную долю в пределах [0, jitterFactor).
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return withRand(d, jitterFactor, rand.Float64)
}

// ExponentialBackoff удваивает base на каждую попытку (нумерация с нуля), добавляет джиттер
// и никогда не возвращает больше max.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return backoff(base, max, attempt, jitterFactor, rand.Float64)
}

func backoff(base, max time.Duration, attempt int, jitterFactor float64, random func() float64) time.Duration {
	d := base
	for i := 0; i < attempt && d < max; i++ {
		d *= 2
	}
	if d > max {
		d = max
	}

	d = withRand(d, jitterFactor, random)
	if d > max {
		return max
	}
	return d
}

func withRand(d time.Duration, jitterFactor float64, random func() float64) time.Duration {
	if jitterFactor <= 0 || d <= 0 {
		return d
	}
	return d + time.Duration(random()*jitterFactor*float64(d))
}
