package repository

import (
	"context"

	"github.com/laundromat-finder/internal/domain"
)

// GeocodingRepository определяет прямое геокодирование текстового запроса
type GeocodingRepository interface {
	// Geocode возвращает лучшее совпадение для запроса.
	// domain.ErrLocationNotFound - совпадений нет, domain.ErrUpstreamUnavailable - сервис недоступен.
	Geocode(ctx context.Context, query string) (*domain.Center, error)
}
