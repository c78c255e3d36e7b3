package domain

import "errors"

// Mensagens devolvidas ao cliente pela camada HTTP.
const (
	InvalidVideoURLMessage = "Invalid YouTube URL or video ID. Please provide a valid YouTube video URL."
	AITimeoutMessage       = "AI analysis request timed out. Please try again."
)

var (
	ErrInvalidVideoURL  = errors.New("invalid youtube url or video id")
	ErrAITimeout        = errors.New("ai analysis request timed out")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrInvalidRule      = errors.New("rate limit rule must have positive values")
)

func IsInvalidVideoURLError(err error) bool {
	return errors.Is(err, ErrInvalidVideoURL)
}

func IsAITimeoutError(err error) bool {
	return errors.Is(err, ErrAITimeout)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrAnalysisNotFound)
}
