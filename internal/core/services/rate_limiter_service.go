package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

const (
	defaultSweepInterval = 5 * time.Minute
	unknownIdentifier    = "unknown"
)

// Config agrega os parâmetros utilizados pelo serviço de rate limiting.
type Config struct {
	DefaultRule   domain.RateLimitRule
	SweepInterval time.Duration
	Clock         ports.Clock
	Logger        zerolog.Logger
}

// RateLimiterService implementa o rate limiting de janela fixa por identificador.
type RateLimiterService struct {
	storage ports.Storage
	config  Config

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

var _ ports.RateLimiter = (*RateLimiterService)(nil)

// NewRateLimiterService cria uma nova instância do serviço. Se o storage suportar
// limpeza, a varredura periódica começa imediatamente e para em Close.
func NewRateLimiterService(storage ports.Storage, cfg Config) (*RateLimiterService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if !cfg.DefaultRule.Valid() {
		return nil, fmt.Errorf("default rule: %w", domain.ErrInvalidRule)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}

	s := &RateLimiterService{
		storage: storage,
		config:  cfg,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if _, ok := storage.(ports.Sweeper); ok {
		go s.sweepLoop()
	} else {
		close(s.done)
	}

	return s, nil
}

// CheckAndConsume decide se o identificador pode prosseguir e consome uma
// requisição da janela atual. Nunca retorna erro: falhas de storage liberam a
// requisição.
func (s *RateLimiterService) CheckAndConsume(ctx context.Context, identifier string, rule domain.RateLimitRule) domain.RateLimitResult {
	if !rule.Valid() {
		rule = s.config.DefaultRule
	}
	key := normalizeIdentifier(identifier)
	now := s.config.Clock.Now()

	var result domain.RateLimitResult
	_, err := s.storage.Update(ctx, key, func(entry domain.RateLimitEntry, found bool) (domain.RateLimitEntry, bool) {
		if !found || entry.Expired(now) {
			next := domain.RateLimitEntry{Count: 1, ResetAt: now.Add(rule.Window)}
			result = domain.RateLimitResult{Success: true, Limit: rule.Requests, Remaining: rule.Requests - 1, ResetAt: next.ResetAt}
			return next, true
		}

		if entry.Count >= rule.Requests {
			result = domain.RateLimitResult{Success: false, Limit: rule.Requests, Remaining: 0, ResetAt: entry.ResetAt}
			return entry, false
		}

		entry.Count++
		result = domain.RateLimitResult{Success: true, Limit: rule.Requests, Remaining: rule.Requests - entry.Count, ResetAt: entry.ResetAt}
		return entry, true
	})
	if err != nil {
		s.config.Logger.Warn().Err(err).Str("identifier", key).Msg("rate limit storage failed, allowing request")
		return domain.RateLimitResult{Success: true, Limit: rule.Requests, Remaining: rule.Requests - 1, ResetAt: now.Add(rule.Window)}
	}

	return result
}

// Sweep remove as entradas cuja janela já expirou. Sem efeito para stores sem limpeza.
func (s *RateLimiterService) Sweep(ctx context.Context) int {
	sweeper, ok := s.storage.(ports.Sweeper)
	if !ok {
		return 0
	}
	removed, err := sweeper.Sweep(ctx, s.config.Clock.Now())
	if err != nil {
		s.config.Logger.Warn().Err(err).Msg("rate limit sweep failed")
		return removed
	}
	if removed > 0 {
		s.config.Logger.Debug().Int("removed", removed).Msg("rate limit entries swept")
	}
	return removed
}

// Close interrompe a varredura periódica. Pode ser chamado mais de uma vez.
func (s *RateLimiterService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
}

func (s *RateLimiterService) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep(context.Background())
		}
	}
}

// normalizeIdentifier só remove espaços: identificadores que diferem em
// maiúsculas são clientes distintos.
func normalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return unknownIdentifier
	}
	return identifier
}

// SystemClock usa o relógio do sistema.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
