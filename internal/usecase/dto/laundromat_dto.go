package dto

import "github.com/laundromat-finder/internal/domain"

// LaundromatSearchRequest - запрос на поиск прачечных рядом с местом
type LaundromatSearchRequest struct {
	Query      string  `json:"query" query:"query" validate:"required"`
	RadiusKm   float64 `json:"radius_km" query:"radius_km" validate:"gte=0.5,lte=50"`
	MaxResults int     `json:"max_results" query:"max_results" validate:"gte=1,lte=100"`
}

// NewLaundromatSearchRequest - запрос со значениями по умолчанию
func NewLaundromatSearchRequest(query string) LaundromatSearchRequest {
	return LaundromatSearchRequest{
		Query:      query,
		RadiusKm:   domain.DefaultRadiusKm,
		MaxResults: domain.DefaultMaxResults,
	}
}

// LaundromatSearchResponse - ответ на поиск прачечных
type LaundromatSearchResponse struct {
	Center  domain.Center       `json:"center"`
	Count   int                 `json:"count"`
	Results []domain.Laundromat `json:"results"`
}
