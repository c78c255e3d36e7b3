package domain

import (
	"errors"
	"strings"
	"time"
)

type Sentiment struct {
	Overall  string   `json:"overall"`
	Score    float64  `json:"score"`
	Emotions []string `json:"emotions"`
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Insights é o bloco gerado pelo provedor de IA.
type Insights struct {
	Summary         string           `json:"summary"`
	Sentiment       *Sentiment       `json:"sentiment"`
	Topics          []string         `json:"topics"`
	KeyPoints       []string         `json:"keyPoints"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Validate confere o formato usado pelo dashboard. Slices nil indicam que o
// campo não veio na resposta do provedor.
func (i Insights) Validate() error {
	switch {
	case strings.TrimSpace(i.Summary) == "":
		return errors.New("invalid insights: missing or invalid summary")
	case i.Sentiment == nil:
		return errors.New("invalid insights: missing or invalid sentiment")
	case i.Topics == nil:
		return errors.New("invalid insights: topics must be an array")
	case i.KeyPoints == nil:
		return errors.New("invalid insights: keyPoints must be an array")
	case i.Recommendations == nil:
		return errors.New("invalid insights: recommendations must be an array")
	}
	return nil
}

// DefaultInsights é usado quando o provedor falha ou devolve JSON inválido.
func DefaultInsights() Insights {
	return Insights{
		Summary: "This video appears to cover engaging content with good production quality. " +
			"The creator demonstrates expertise in their subject matter and maintains viewer interest throughout.",
		Sentiment: &Sentiment{
			Overall:  "positive",
			Score:    78,
			Emotions: []string{"Engaging", "Informative", "Enthusiastic", "Professional"},
		},
		Topics: []string{"Content Creation", "Digital Media", "Audience Engagement", "Video Production", "Online Growth"},
		KeyPoints: []string{
			"Strong opening hook that captures attention in the first 5 seconds",
			"Clear value proposition delivered early in the video",
			"Consistent pacing that maintains viewer engagement",
			"Effective use of visual elements and B-roll footage",
			"Clear call-to-action that encourages interaction",
		},
		Recommendations: []Recommendation{
			{
				Title:       "Optimize Thumbnail Design",
				Description: "Consider A/B testing thumbnails with different facial expressions and text overlays to improve click-through rates.",
			},
			{
				Title:       "Enhance SEO Strategy",
				Description: "Include more long-tail keywords in the description and add timestamps for better search visibility.",
			},
			{
				Title:       "Improve Retention",
				Description: "Add more pattern interrupts in the middle section to maintain viewer attention throughout the video.",
			},
		},
	}
}

type Video struct {
	ID        VideoID `json:"id"`
	URL       string  `json:"url"`
	Thumbnail string  `json:"thumbnail"`
}

// Analysis é a resposta de POST /api/analyze.
type Analysis struct {
	Video    Video    `json:"video"`
	Insights Insights `json:"insights"`
}

// AnalysisRecord é uma análise persistida no histórico de um cliente.
type AnalysisRecord struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"-"`
	URL        string    `json:"url"`
	VideoID    VideoID   `json:"videoId"`
	Thumbnail  string    `json:"thumbnail"`
	Insights   Insights  `json:"insights"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}
