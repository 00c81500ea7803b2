package domain

import "github.com/google/uuid"

// Stream names
const (
	StreamLaundromatSearch = "stream:laundromat:search"
	StreamLaundromatDone   = "stream:laundromat:done"
)

// SearchRequestedEvent - входящее событие на поиск прачечных
type SearchRequestedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	Query      string    `json:"query"`
	RadiusKm   *float64  `json:"radius_km,omitempty"`
	MaxResults *int      `json:"max_results,omitempty"`
}

// SearchCompletedEvent - результат поиска, публикуется в StreamLaundromatDone.
// Response хранится как произвольное значение, чтобы domain не зависел от dto.
type SearchCompletedEvent struct {
	RequestID uuid.UUID    `json:"request_id"`
	Response  interface{}  `json:"response,omitempty"`
	Error     *StreamError `json:"error,omitempty"`
}

// StreamError - ошибка обработки события
type StreamError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}

// SearchParams возвращает радиус и лимит события, подставляя значения по умолчанию
func (e *SearchRequestedEvent) SearchParams() (float64, int) {
	radiusKm := DefaultRadiusKm
	if e.RadiusKm != nil {
		radiusKm = *e.RadiusKm
	}
	maxResults := DefaultMaxResults
	if e.MaxResults != nil {
		maxResults = *e.MaxResults
	}
	return radiusKm, maxResults
}
