package repository

import (
	"context"

	"github.com/laundromat-finder/internal/domain"
)

// LaundromatRepository определяет пространственный поиск прачечных во внешней базе OSM
type LaundromatRepository interface {
	// FindAround возвращает сырые объекты в радиусе от центра.
	// Ошибки оборачивают domain.ErrUpstreamUnavailable.
	FindAround(ctx context.Context, query domain.SpatialQuery) ([]domain.RawElement, error)
}
