package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/laundromat-finder/internal/config"
	"github.com/laundromat-finder/internal/domain"
	"github.com/laundromat-finder/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	url        string
	userAgent  string
	logger     *zap.Logger
}

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type center struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// NewOverpassClient создает клиент интерпретатора Overpass API
func NewOverpassClient(cfg *config.OverpassConfig, userAgent string, logger *zap.Logger) repository.LaundromatRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		url:       cfg.URL,
		userAgent: userAgent,
		logger:    logger,
	}
}

// FindAround выполняет один запрос к интерпретатору, без повторов
func (c *client) FindAround(ctx context.Context, query domain.SpatialQuery) ([]domain.RawElement, error) {
	body := BuildQuery(query)

	c.logger.Debug("Calling Overpass interpreter",
		zap.Int("radius_m", query.RadiusMeters),
		zap.Int("max_results", query.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Overpass request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: overpass request: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("Overpass returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return nil, fmt.Errorf("%w: overpass status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Error("Failed to decode Overpass response", zap.Error(err))
		return nil, fmt.Errorf("%w: decode overpass response: %v", domain.ErrUpstreamUnavailable, err)
	}

	elements := make([]domain.RawElement, 0, len(decoded.Elements))
	for _, el := range decoded.Elements {
		elements = append(elements, el.toDomain())
	}

	c.logger.Debug("Overpass call successful", zap.Int("elements", len(elements)))

	return elements, nil
}

// toDomain: точки берут собственные координаты, остальные типы - центроид
func (e element) toDomain() domain.RawElement {
	raw := domain.RawElement{
		Type: domain.ElementType(e.Type),
		ID:   e.ID,
		Tags: e.Tags,
	}
	if raw.Tags == nil {
		raw.Tags = map[string]string{}
	}

	if raw.Type == domain.ElementNode {
		if e.Lat != nil && e.Lon != nil {
			raw.Geometry = domain.PointGeometry{Lat: *e.Lat, Lon: *e.Lon}
		}
		return raw
	}

	if e.Center != nil && e.Center.Lat != nil && e.Center.Lon != nil {
		raw.Geometry = domain.AreaGeometry{
			Centroid: domain.Point{Lat: *e.Center.Lat, Lon: *e.Center.Lon},
		}
	}
	return raw
}
