package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

const historyLimit = 50

type AnalysisConfig struct {
	Clock  ports.Clock
	Logger zerolog.Logger
}

// AnalysisService orquestra extração do id, geração de insights e histórico.
type AnalysisService struct {
	insights *InsightsService
	history  ports.HistoryRepository
	config   AnalysisConfig
}

var _ ports.Analyzer = (*AnalysisService)(nil)

// NewAnalysisService aceita history nil, caso em que o histórico fica desativado.
func NewAnalysisService(insights *InsightsService, history ports.HistoryRepository, cfg AnalysisConfig) (*AnalysisService, error) {
	if insights == nil {
		return nil, fmt.Errorf("insights service is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &AnalysisService{insights: insights, history: history, config: cfg}, nil
}

func (s *AnalysisService) Analyze(ctx context.Context, clientID, rawURL string) (domain.Analysis, error) {
	id, err := domain.VideoIDFromInput(rawURL)
	if err != nil {
		return domain.Analysis{}, err
	}

	insights, err := s.insights.Generate(ctx, id)
	if err != nil {
		return domain.Analysis{}, err
	}

	analysis := domain.Analysis{
		Video: domain.Video{
			ID:        id,
			URL:       id.WatchURL(),
			Thumbnail: id.ThumbnailURL(),
		},
		Insights: insights,
	}

	s.record(ctx, clientID, analysis)
	return analysis, nil
}

func (s *AnalysisService) History(ctx context.Context, clientID string) ([]domain.AnalysisRecord, error) {
	if s.history == nil {
		return []domain.AnalysisRecord{}, nil
	}
	records, err := s.history.List(ctx, normalizeIdentifier(clientID), historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

func (s *AnalysisService) DeleteHistory(ctx context.Context, clientID, id string) error {
	if s.history == nil {
		return domain.ErrAnalysisNotFound
	}
	return s.history.Delete(ctx, normalizeIdentifier(clientID), id)
}

func (s *AnalysisService) record(ctx context.Context, clientID string, analysis domain.Analysis) {
	if s.history == nil {
		return
	}

	record := domain.AnalysisRecord{
		ID:         uuid.NewString(),
		ClientID:   normalizeIdentifier(clientID),
		URL:        analysis.Video.URL,
		VideoID:    analysis.Video.ID,
		Thumbnail:  analysis.Video.Thumbnail,
		Insights:   analysis.Insights,
		AnalyzedAt: s.config.Clock.Now().UTC(),
	}
	if err := s.history.Save(ctx, record); err != nil {
		s.config.Logger.Warn().Err(err).Str("video_id", analysis.Video.ID.String()).Msg("failed to save analysis history")
	}
}
