package domain

// DefaultLaundromatName - имя для объектов без тега name
const DefaultLaundromatName = "Laundromat"

// OSMBaseURL - публичный просмотрщик карты OpenStreetMap
const OSMBaseURL = "https://www.openstreetmap.org"

// Laundromat - нормализованный результат поиска прачечной.
// Необязательные поля сериализуются как null, а не пропускаются.
type Laundromat struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      *string  `json:"address"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	DistanceKm   *float64 `json:"distance_km"`
	OpeningHours *string  `json:"opening_hours"`
	Phone        *string  `json:"phone"`
	Website      *string  `json:"website"`
	OSMURL       string   `json:"osm_url"`
}

// LaundromatTag - пара тег/значение, по которой объект считается прачечной
type LaundromatTag struct {
	Key   string
	Value string
}

// LaundromatTags - фиксированный набор категорий для поиска
var LaundromatTags = []LaundromatTag{
	{Key: "shop", Value: "laundry"},
	{Key: "amenity", Value: "laundry"},
	{Key: "amenity", Value: "laundrette"},
}

// SpatialQuery - параметры поиска в радиусе вокруг центра
type SpatialQuery struct {
	Center       Center
	RadiusMeters int
	MaxResults   int
}

// NewSpatialQuery строит запрос; радиус переводится в метры с отбрасыванием дробной части
func NewSpatialQuery(center Center, radiusKm float64, maxResults int) SpatialQuery {
	return SpatialQuery{
		Center:       center,
		RadiusMeters: int(radiusKm * 1000),
		MaxResults:   maxResults,
	}
}

// Значения по умолчанию для параметров поиска
const (
	DefaultRadiusKm   = 5.0
	DefaultMaxResults = 50
)
