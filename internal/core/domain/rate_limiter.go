// Package domain concentra entidades e estruturas centrais da API de análise.
package domain

import (
	"math"
	"time"
)

// DefaultRateLimitRule é aplicada às rotas /api quando nenhuma regra é configurada.
var DefaultRateLimitRule = RateLimitRule{Requests: 10, Window: time.Minute}

type RateLimitRule struct {
	Requests int
	Window   time.Duration
}

func (r RateLimitRule) Valid() bool {
	return r.Requests > 0 && r.Window > 0
}

// RateLimitEntry é o contador de janela fixa mantido por identificador.
type RateLimitEntry struct {
	Count   int
	ResetAt time.Time
}

// Expired indica se a janela terminou estritamente antes de now.
func (e RateLimitEntry) Expired(now time.Time) bool {
	return e.ResetAt.Before(now)
}

type RateLimitResult struct {
	Success   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter retorna os segundos (arredondados para cima) até o reset da janela.
func (r RateLimitResult) RetryAfter(now time.Time) int {
	wait := r.ResetAt.Sub(now)
	if wait <= 0 {
		return 0
	}
	return int(math.Ceil(wait.Seconds()))
}
