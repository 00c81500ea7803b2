package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/laundromat-finder/internal/pkg/errors"
	"github.com/laundromat-finder/internal/pkg/utils"
	"github.com/laundromat-finder/internal/usecase"
	"github.com/laundromat-finder/internal/usecase/dto"
)

// LaundromatHandler - обработчик поиска прачечных
type LaundromatHandler struct {
	laundromatUC *usecase.LaundromatUseCase
	logger       *zap.Logger
}

// NewLaundromatHandler - создание нового LaundromatHandler
func NewLaundromatHandler(laundromatUC *usecase.LaundromatUseCase, logger *zap.Logger) *LaundromatHandler {
	return &LaundromatHandler{
		laundromatUC: laundromatUC,
		logger:       logger,
	}
}

// Search godoc
// @Summary Поиск прачечных рядом с местом
// @Description Геокодирует текстовый запрос через Nominatim и ищет прачечные (shop=laundry, amenity=laundry, amenity=laundrette) в радиусе через Overpass API. Результаты отсортированы по имени.
// @Tags Search
// @Produce json
// @Param query query string true "Город, адрес или название места"
// @Param radius_km query number false "Радиус поиска в километрах (0.5-50)" default(5.0)
// @Param max_results query int false "Максимальное количество результатов (1-100)" default(50)
// @Success 200 {object} dto.LaundromatSearchResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/search [get]
func (h *LaundromatHandler) Search(c *fiber.Ctx) error {
	req := dto.NewLaundromatSearchRequest("")
	if err := c.QueryParser(&req); err != nil {
		h.logger.Debug("Invalid search query parameters", zap.Error(err))
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"query_string": err.Error(),
		}))
	}

	result, err := h.laundromatUC.Search(c.UserContext(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendJSON(c, result)
}
