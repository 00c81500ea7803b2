package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/laundromat-finder/internal/config"
	"github.com/laundromat-finder/internal/domain"
	"github.com/laundromat-finder/internal/domain/repository"
	"github.com/laundromat-finder/internal/pkg/utils"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// place - элемент ответа /search; координаты Nominatim отдаёт строками
type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewNominatimClient создает клиент геокодера Nominatim
func NewNominatimClient(cfg *config.NominatimConfig, userAgent string, logger *zap.Logger) repository.GeocodingRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: userAgent,
		logger:    logger,
	}
}

// Geocode возвращает первое совпадение для текстового запроса
func (c *client) Geocode(ctx context.Context, query string) (*domain.Center, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := c.baseURL + "/search?" + params.Encode()

	c.logger.Debug("Calling Nominatim search", zap.String("query", query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Nominatim request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: nominatim request: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("Nominatim returned non-OK status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, domain.ErrLocationNotFound
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.logger.Warn("Failed to decode Nominatim response", zap.Error(err))
		return nil, domain.ErrLocationNotFound
	}

	if len(places) == 0 {
		c.logger.Debug("Nominatim returned no matches", zap.String("query", query))
		return nil, domain.ErrLocationNotFound
	}

	center, err := places[0].toCenter()
	if err != nil {
		c.logger.Warn("Nominatim returned malformed coordinates", zap.Error(err))
		return nil, domain.ErrLocationNotFound
	}

	c.logger.Debug("Nominatim search successful",
		zap.Float64("lat", center.Lat),
		zap.Float64("lon", center.Lon),
		zap.String("display_name", center.DisplayName))

	return center, nil
}

func (p place) toCenter() (*domain.Center, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, fmt.Errorf("coordinates out of range: %f,%f", lat, lon)
	}

	return &domain.Center{
		Lat:         lat,
		Lon:         lon,
		DisplayName: p.DisplayName,
	}, nil
}
