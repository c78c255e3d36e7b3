package ports

import (
	"context"
	"time"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
)

// UpdateFunc recebe a entrada atual (found=false quando não existe) e decide a
// próxima. write=false mantém a entrada intacta.
type UpdateFunc func(entry domain.RateLimitEntry, found bool) (next domain.RateLimitEntry, write bool)

// Storage guarda os contadores de janela fixa. Update deve executar a leitura,
// a decisão e a escrita como uma única transação por chave.
type Storage interface {
	Update(ctx context.Context, key string, fn UpdateFunc) (domain.RateLimitEntry, error)
}

// Sweeper é implementado por stores que precisam de limpeza periódica.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

type HistoryRepository interface {
	Save(ctx context.Context, record domain.AnalysisRecord) error
	List(ctx context.Context, clientID string, limit int) ([]domain.AnalysisRecord, error)
	Delete(ctx context.Context, clientID, id string) error
}
