package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const videoIDLength = 11

// VideoID é o identificador de 11 caracteres de um vídeo do YouTube.
type VideoID string

var videoIDFormat = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Ordem importa: o primeiro padrão cuja captura passa no formato estrito vence.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
	// Ids de playlist raramente têm 11 caracteres: só casa quando o valor de
	// list também tem o formato de id de vídeo.
	regexp.MustCompile(`youtube\.com/playlist\?list=([^&\n?#]+)`),
}

// ExtractVideoID extrai e valida o id de vídeo a partir de uma URL ou de um id puro.
func ExtractVideoID(input string) (VideoID, bool) {
	trimmed := strings.TrimSpace(input)
	if utf8.RuneCountInString(trimmed) < videoIDLength {
		return "", false
	}

	for _, pattern := range videoURLPatterns {
		match := pattern.FindStringSubmatch(trimmed)
		if len(match) < 2 || match[1] == "" {
			continue
		}
		if videoIDFormat.MatchString(match[1]) {
			return VideoID(match[1]), true
		}
	}

	return "", false
}

func IsValidYouTubeURL(input string) bool {
	_, ok := ExtractVideoID(input)
	return ok
}

// SanitizeYouTubeURL devolve a URL canônica do vídeo. Nunca entra em pânico.
func SanitizeYouTubeURL(input string) (sanitized string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			sanitized, ok = "", false
		}
	}()

	id, found := ExtractVideoID(input)
	if !found {
		return "", false
	}
	return id.WatchURL(), true
}

// VideoIDFromInput é a variante com erro, usada na borda que responde ao usuário.
func VideoIDFromInput(input string) (VideoID, error) {
	id, ok := ExtractVideoID(input)
	if !ok {
		return "", fmt.Errorf("extract video id from %q: %w", truncate(input, 64), ErrInvalidVideoURL)
	}
	return id, nil
}

func (id VideoID) String() string {
	return string(id)
}

func (id VideoID) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + string(id)
}

func (id VideoID) ThumbnailURL() string {
	return "https://img.youtube.com/vi/" + string(id) + "/maxresdefault.jpg"
}

// truncate corta em max runas, sem quebrar caracteres multibyte.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
