package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

const defaultAITimeout = 30 * time.Second

const insightsSystemPrompt = "You are an expert YouTube video analyst."

const insightsPrompt = `Generate a comprehensive, realistic analysis for the YouTube video %s.

Generate a detailed JSON analysis with the following structure. Make it realistic and insightful:

{
  "summary": "A 2-3 sentence summary of what this video is likely about based on typical YouTube content",
  "sentiment": {
    "overall": "positive" or "neutral" or "negative",
    "score": number between 60-95,
    "emotions": ["array of 3-4 detected emotions like excited, informative, engaging, thoughtful"]
  },
  "topics": ["5-6 main topics covered"],
  "keyPoints": ["4-5 key takeaways from the video"],
  "recommendations": [
    {
      "title": "Recommendation title",
      "description": "Detailed recommendation description"
    }
  ]
}

Return ONLY valid JSON, no markdown or explanation.`

type InsightsConfig struct {
	// Timeout limita cada chamada ao provedor; o padrão é 30s.
	Timeout time.Duration
	// Throttle limita as chamadas de saída ao provedor. nil desativa.
	Throttle *rate.Limiter
	Logger   zerolog.Logger
}

// InsightsService gera os insights de IA com fallback para valores padrão.
type InsightsService struct {
	generator ports.TextGenerator
	config    InsightsConfig
}

// NewInsightsService aceita generator nil: nesse caso todos os insights são os padrão.
func NewInsightsService(generator ports.TextGenerator, cfg InsightsConfig) *InsightsService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultAITimeout
	}
	return &InsightsService{generator: generator, config: cfg}
}

// Generate retorna domain.ErrAITimeout quando o provedor não responde dentro do
// timeout. Qualquer outra falha resulta nos insights padrão.
func (s *InsightsService) Generate(ctx context.Context, id domain.VideoID) (domain.Insights, error) {
	if s.generator == nil {
		return domain.DefaultInsights(), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	raw, err := s.complete(callCtx, id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.Insights{}, fmt.Errorf("generate insights for %s: %w", id, domain.ErrAITimeout)
		}
		s.config.Logger.Error().Err(err).Str("video_id", id.String()).Msg("ai generation failed, using default insights")
		return domain.DefaultInsights(), nil
	}

	insights, err := parseInsights(raw)
	if err != nil {
		s.config.Logger.Warn().Err(err).Str("video_id", id.String()).Msg("failed to parse ai insights, using defaults")
		return domain.DefaultInsights(), nil
	}
	return insights, nil
}

func (s *InsightsService) complete(ctx context.Context, id domain.VideoID) (string, error) {
	if s.config.Throttle != nil {
		if err := s.config.Throttle.Wait(ctx); err != nil {
			// rate.Limiter recusa a espera que ultrapassaria o deadline antes
			// de o deadline de fato passar.
			if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
				return "", fmt.Errorf("throttle: %w", context.DeadlineExceeded)
			}
			return "", fmt.Errorf("throttle: %w", err)
		}
	}
	return s.generator.Complete(ctx, insightsSystemPrompt, fmt.Sprintf(insightsPrompt, id))
}

func parseInsights(raw string) (domain.Insights, error) {
	var insights domain.Insights
	if err := json.Unmarshal([]byte(stripFences(raw)), &insights); err != nil {
		return domain.Insights{}, fmt.Errorf("decode insights: %w", err)
	}
	if err := insights.Validate(); err != nil {
		return domain.Insights{}, err
	}
	return insights, nil
}

// stripFences remove as cercas de código markdown em volta da resposta do modelo.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
