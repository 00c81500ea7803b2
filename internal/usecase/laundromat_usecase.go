package usecase

import (
	"context"
	stderrors "errors"
	"slices"

	"go.uber.org/zap"

	"github.com/laundromat-finder/internal/domain"
	"github.com/laundromat-finder/internal/domain/repository"
	"github.com/laundromat-finder/internal/pkg/errors"
	"github.com/laundromat-finder/internal/pkg/validator"
	"github.com/laundromat-finder/internal/usecase/dto"
)

// LaundromatUseCase - поиск прачечных: геокодирование, запрос в Overpass, нормализация
type LaundromatUseCase struct {
	geocoder    repository.GeocodingRepository
	laundromats repository.LaundromatRepository
	logger      *zap.Logger
}

// NewLaundromatUseCase - создание нового LaundromatUseCase
func NewLaundromatUseCase(
	geocoder repository.GeocodingRepository,
	laundromats repository.LaundromatRepository,
	logger *zap.Logger,
) *LaundromatUseCase {
	return &LaundromatUseCase{
		geocoder:    geocoder,
		laundromats: laundromats,
		logger:      logger,
	}
}

// Search - поиск прачечных вокруг места из текстового запроса
func (uc *LaundromatUseCase) Search(ctx context.Context, req dto.LaundromatSearchRequest) (*dto.LaundromatSearchResponse, error) {
	// Невалидный запрос отклоняем до обращения к внешним сервисам
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	// Шаг 1: геокодирование
	center, err := uc.geocoder.Geocode(ctx, req.Query)
	if err != nil {
		if stderrors.Is(err, domain.ErrLocationNotFound) {
			uc.logger.Info("Location not found", zap.String("query", req.Query))
			return nil, errors.ErrLocationNotFound
		}
		uc.logger.Error("Geocoding failed", zap.String("query", req.Query), zap.Error(err))
		return nil, errors.ErrUpstreamError
	}

	// Шаг 2: пространственный запрос
	query := domain.NewSpatialQuery(*center, req.RadiusKm, req.MaxResults)
	elements, err := uc.laundromats.FindAround(ctx, query)
	if err != nil {
		uc.logger.Error("Spatial query failed",
			zap.String("query", req.Query),
			zap.Int("radius_m", query.RadiusMeters),
			zap.Error(err))
		return nil, errors.ErrUpstreamError
	}

	// Шаг 3: нормализация, объекты без координат пропускаем
	results := make([]domain.Laundromat, 0, len(elements))
	dropped := 0
	for _, el := range elements {
		result, ok := normalizeElement(el)
		if !ok {
			dropped++
			continue
		}
		results = append(results, result)
	}

	// Шаг 4-5: сортировка и обрезка
	slices.SortStableFunc(results, compareByName)
	if len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}

	uc.logger.Info("Laundromat search completed",
		zap.String("query", req.Query),
		zap.String("center", center.DisplayName),
		zap.Int("elements", len(elements)),
		zap.Int("dropped", dropped),
		zap.Int("results", len(results)))

	return &dto.LaundromatSearchResponse{
		Center:  *center,
		Count:   len(results),
		Results: results,
	}, nil
}
