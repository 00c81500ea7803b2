package domain

// Point - географическая точка WGS84
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Center - результат геокодирования текстового запроса, центр поиска
type Center struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}
