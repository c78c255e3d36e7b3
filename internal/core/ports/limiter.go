// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"
	"time"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
)

type RateLimiter interface {
	CheckAndConsume(ctx context.Context, identifier string, rule domain.RateLimitRule) domain.RateLimitResult
}

type Clock interface {
	Now() time.Time
}

// TextGenerator é o provedor de geração de texto por IA.
type TextGenerator interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, clientID, rawURL string) (domain.Analysis, error)
	History(ctx context.Context, clientID string) ([]domain.AnalysisRecord, error)
	DeleteHistory(ctx context.Context, clientID, id string) error
}
